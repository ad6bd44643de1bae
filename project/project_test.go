package project

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"My Sheet", "My Sheet"},
		{`bad/slash\and:colon`, "bad_slash_and_colon"},
		{"tabs\tand\nnewlines", "tabs_and_newlines"},
		{"", "untitled_sheet"},
		{"___", "untitled_sheet"},
	}
	for _, c := range cases {
		if got := SanitizeName(c.in); got != c.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestInitCreatesLayout(t *testing.T) {
	t.Setenv("STAGEHAND_BASE", t.TempDir())

	ctx, err := Init("Doc: Founders", "sheet-id-123")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	for _, dir := range []string{ctx.DataDir, ctx.VideoDir, ctx.ImageDir, ctx.PlaceholderDir, ctx.ChannelDir, ctx.StockDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("missing project dir %s", dir)
		}
	}
	if ctx.Meta.SpreadsheetID != "sheet-id-123" {
		t.Errorf("meta not recorded: %+v", ctx.Meta)
	}
}

func TestResolveLastUsed(t *testing.T) {
	t.Setenv("STAGEHAND_BASE", t.TempDir())

	created, err := Init("Founders", "")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	resolved, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve last used: %v", err)
	}
	if resolved.Root != created.Root {
		t.Errorf("Resolve(\"\") = %s, want %s", resolved.Root, created.Root)
	}
}

func TestResolveByName(t *testing.T) {
	t.Setenv("STAGEHAND_BASE", t.TempDir())

	created, err := Init("Founders", "")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	resolved, err := Resolve("Founders")
	if err != nil {
		t.Fatalf("Resolve by name: %v", err)
	}
	if resolved.Root != created.Root {
		t.Errorf("wrong root: %s", resolved.Root)
	}

	if _, err := Resolve("no-such-project"); err == nil {
		t.Error("unknown project should fail to resolve")
	}
}

func TestCSVPathResolution(t *testing.T) {
	t.Setenv("STAGEHAND_BASE", t.TempDir())

	ctx, err := Init("Founders", "")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	// Recorded mapping wins when the file exists.
	mapped := filepath.Join(ctx.DataDir, "yt_2.csv")
	if err := os.WriteFile(mapped, []byte("a,b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx.RegisterWorksheet("1_Youtube", "yt_2.csv")

	got, err := ctx.CSVPath("1_Youtube")
	if err != nil {
		t.Fatalf("CSVPath: %v", err)
	}
	if got != mapped {
		t.Errorf("CSVPath = %s, want %s", got, mapped)
	}

	// Unmapped sheets fall back to the sanitized default location.
	got, err = ctx.CSVPath("2_Images")
	if err != nil {
		t.Fatalf("CSVPath: %v", err)
	}
	if filepath.Base(got) != "2_Images.csv" {
		t.Errorf("fallback CSVPath = %s", got)
	}
}

func TestMetaRoundTrip(t *testing.T) {
	t.Setenv("STAGEHAND_BASE", t.TempDir())

	ctx, err := Init("Founders", "abc")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	ctx.RegisterWorksheet("Лист1", "Лист1.csv")
	if err := ctx.SaveMeta(); err != nil {
		t.Fatalf("SaveMeta: %v", err)
	}

	reopened, err := Resolve("Founders")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if reopened.Meta.Worksheets["Лист1"] != "Лист1.csv" {
		t.Errorf("worksheet map lost on reload: %+v", reopened.Meta)
	}
	if reopened.Meta.DefaultSheet != "Лист1" {
		t.Errorf("default sheet not recorded: %+v", reopened.Meta)
	}
}
