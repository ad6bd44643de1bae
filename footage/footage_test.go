package footage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseEntries(t *testing.T) {
	values := [][]string{
		{"Cell", "URL"},
		{"City Pack", "https://motionarray.com/stock-video/a/"},
		{"Bridge shot https://motionarray.com/stock-video/b/", ""},
		{"https://motionarray.com/stock-video/c/,", ""},
		{"no link here", ""},
		{"", "https://motionarray.com/stock-video/d/"},
	}

	entries := ParseEntries(values)
	if len(entries) != 4 {
		t.Fatalf("entries = %+v", entries)
	}

	if entries[0].Number != 2 || entries[0].Name != "City_Pack" ||
		entries[0].URL != "https://motionarray.com/stock-video/a/" {
		t.Errorf("name in A, url in B: %+v", entries[0])
	}
	if entries[1].Name != "footage_002" || entries[1].URL != "https://motionarray.com/stock-video/b/" {
		t.Errorf("link-bearing column A takes the fallback stem: %+v", entries[1])
	}
	if entries[2].Name != "footage_003" || entries[2].URL != "https://motionarray.com/stock-video/c/" {
		t.Errorf("bare url should get a fallback name and trimmed punctuation: %+v", entries[2])
	}
	if entries[3].Name != "footage_005" {
		t.Errorf("url in B with empty A: %+v", entries[3])
	}
}

func TestRunWritesStatusesAndSkips(t *testing.T) {
	dest := t.TempDir()
	incoming := t.TempDir()

	values := [][]string{
		{"Cell", "URL"},
		{"City Pack", "https://motionarray.com/stock-video/a/"},
		{"Broken", "https://motionarray.com/stock-video/b/"},
	}

	grab := func(_ context.Context, link string) (string, error) {
		if strings.Contains(link, "/b/") {
			return "", fmt.Errorf("no download control on page")
		}
		p := filepath.Join(incoming, "city-pack-4k.MP4")
		return p, os.WriteFile(p, []byte("clip"), 0644)
	}

	stats := Run(context.Background(), grab, &values, dest, Options{})
	if stats.Downloaded != 1 || len(stats.Errors) != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if _, err := os.Stat(filepath.Join(dest, "City_Pack.mp4")); err != nil {
		t.Fatalf("moved file missing: %v", err)
	}

	if got := values[1][2]; got != "ok: City_Pack.mp4" {
		t.Errorf("row 2 status = %q", got)
	}
	if got := values[2][2]; !strings.HasPrefix(got, "error: ") {
		t.Errorf("row 3 status = %q", got)
	}

	again := Run(context.Background(), grab, &values, dest, Options{})
	if again.Skipped != 1 || again.Downloaded != 0 {
		t.Errorf("rerun stats = %+v", again)
	}
	if got := values[1][2]; got != "exists: City_Pack.mp4" {
		t.Errorf("rerun status = %q", got)
	}
}
