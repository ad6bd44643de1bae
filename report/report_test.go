package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseSidecarExtractsCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "download_errors.txt")
	content := "B3: https://youtu.be/x: HTTP Error 403\n\n12: no file matched 'старый мост'; key='старый мост'\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	entries, err := ParseSidecar(path)
	if err != nil {
		t.Fatalf("ParseSidecar: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d", len(entries))
	}
	if entries[0].Cell != "B3" {
		t.Errorf("cell = %q", entries[0].Cell)
	}
	if entries[1].Cell != "" {
		t.Errorf("bare row number must not look like a cell: %q", entries[1].Cell)
	}
}

func TestParseSidecarMissingFile(t *testing.T) {
	entries, err := ParseSidecar(filepath.Join(t.TempDir(), "absent.txt"))
	if err != nil || entries != nil {
		t.Errorf("missing sidecar should be empty, got %v / %v", entries, err)
	}
}

func TestAttachURLs(t *testing.T) {
	entries := []Entry{{Cell: "B3", Line: "B3: failed"}, {Cell: "Z9", Line: "Z9: failed"}}
	grids := map[string][][]string{
		"1_Youtube": {
			{"Cell", "URL"},
			{"B3", "https://youtu.be/x"},
		},
	}
	AttachURLs(entries, grids)
	if entries[0].URL != "https://youtu.be/x" {
		t.Errorf("url = %q", entries[0].URL)
	}
	if entries[1].URL != "" {
		t.Errorf("unknown cell got a url: %q", entries[1].URL)
	}
}

func TestWriteGroupsAndCleans(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors_report.txt")
	entries := []Entry{
		{Source: "rename_errors.txt", Line: "12: no file matched"},
		{Source: "download_errors.txt", Line: "B3: 403", URL: "https://youtu.be/x"},
	}

	if err := Write(path, entries); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, _ := os.ReadFile(path)
	text := string(data)
	if !strings.Contains(text, "== download_errors.txt (1) ==") {
		t.Errorf("missing group header:\n%s", text)
	}
	if !strings.Contains(text, "    https://youtu.be/x") {
		t.Errorf("missing resolved url:\n%s", text)
	}
	if strings.Index(text, "download_errors") > strings.Index(text, "rename_errors") {
		t.Error("groups must be sorted by source")
	}

	// A later clean run removes the stale report.
	if err := Write(path, nil); err != nil {
		t.Fatalf("Write(empty): %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("clean run must remove the old report")
	}
}
