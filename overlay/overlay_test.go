package overlay

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestFindChannelColumn(t *testing.T) {
	values := [][]string{{"Cell", "URL", "Title", "Channel"}}
	if got := FindChannelColumn(values); got != 4 {
		t.Errorf("header detection = %d", got)
	}

	shifted := [][]string{{"Cell", "Канал", "URL"}}
	if got := FindChannelColumn(shifted); got != 2 {
		t.Errorf("cyrillic header detection = %d", got)
	}

	if got := FindChannelColumn([][]string{{"data", "x"}}); got != 4 {
		t.Errorf("no header should fall back to D, got %d", got)
	}
}

func TestCleanChannelName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"«Мир Наизнанку»", "Мир Наизнанку"},
		{`"History Channel"`, "History Channel"},
		{"  plain name  ", "plain name"},
		{"«unbalanced", "«unbalanced"},
	}
	for _, c := range cases {
		if got := CleanChannelName(c.in); got != c.want {
			t.Errorf("CleanChannelName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNamesDeduplicatesAndCleans(t *testing.T) {
	values := [][]string{
		{"Cell", "URL", "Title", "Channel"},
		{"B2", "u1", "t1", "History Channel"},
		{"B3", "u2", "t2", ""},
		{"B4", "u3", "t3", "«History Channel»"},
		{"B5", "u4", "t4", "Мир Наизнанку"},
	}
	names := Names(values, 4)
	if len(names) != 2 || names[0] != "History Channel" || names[1] != "Мир Наизнанку" {
		t.Errorf("Names = %v", names)
	}
}

func TestPlateName(t *testing.T) {
	if got := PlateName("Мир / Наизнанку!"); got != "Мир_Наизнанку.png" {
		t.Errorf("PlateName = %q", got)
	}
	if got := PlateName("???"); got != "channel.png" {
		t.Errorf("empty sanitize fallback = %q", got)
	}
}

func TestRenderNameGeometry(t *testing.T) {
	short, err := RenderName("X")
	if err != nil {
		t.Fatalf("RenderName: %v", err)
	}
	if short.Bounds().Dx() != plateMinWidth || short.Bounds().Dy() != plateHeight {
		t.Errorf("short name should use the minimum canvas, got %v", short.Bounds())
	}

	long, err := RenderName("Очень длинное название канала которое никак не помещается в минимум")
	if err != nil {
		t.Fatalf("RenderName: %v", err)
	}
	if long.Bounds().Dx() <= plateMinWidth {
		t.Errorf("long name must widen the plate, got %d", long.Bounds().Dx())
	}
	if long.Bounds().Dy() != plateHeight {
		t.Errorf("plate height must stay fixed, got %d", long.Bounds().Dy())
	}

	// Text is right-aligned, so the left edge stays clear on a short name.
	_, _, _, a := short.At(0, plateHeight/2).RGBA()
	if a != 0 {
		t.Error("left edge should be transparent for a short name")
	}
	// And something must actually be drawn near the right edge.
	found := false
	for x := short.Bounds().Dx() - 2*platePaddingX; x > short.Bounds().Dx()/2 && !found; x-- {
		for y := 0; y < plateHeight; y++ {
			if _, _, _, a := short.At(x, y).RGBA(); a != 0 {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("no text pixels near the right edge")
	}
}

func TestRunRendersTransparentPlates(t *testing.T) {
	dest := t.TempDir()
	values := [][]string{
		{"Cell", "URL", "Title", "Channel"},
		{"B2", "u", "t", "Test Channel"},
	}

	stats := Run(values, dest, Options{})
	if stats.Rendered != 1 || len(stats.Errors) != 0 {
		t.Fatalf("stats = %+v", stats)
	}

	f, err := os.Open(filepath.Join(dest, "Test_Channel.png"))
	if err != nil {
		t.Fatalf("plate missing: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("plate is not a png: %v", err)
	}

	if img.Bounds().Dx() < plateMinWidth || img.Bounds().Dy() != plateHeight {
		t.Errorf("plate geometry = %v", img.Bounds())
	}
	_, _, _, a := img.At(0, 0).RGBA()
	if a != 0 {
		t.Error("background should be transparent")
	}

	again := Run(values, dest, Options{})
	if again.Skipped != 1 || again.Rendered != 0 {
		t.Errorf("rerun stats = %+v", again)
	}
}
