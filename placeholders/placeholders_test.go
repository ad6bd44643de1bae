package placeholders

import (
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/math/fixed"

	"stagehand/match"
	"stagehand/sheet"
)

func TestBuildSequenceFramesAndTicks(t *testing.T) {
	clips := []Clip{
		{Name: "row_001", Path: "/work/04_placeholder/row_001.jpg", Start: 2.0, End: 5.0},
		{Name: "row_002", Path: "/work/04_placeholder/row_002.jpg", Start: 5.0, End: 5.0},
	}

	doc := BuildSequence("Placeholders", clips, 25)

	if doc.Version != "4" {
		t.Errorf("xmeml version = %q", doc.Version)
	}
	items := doc.Sequence.Media.Video.Track.ClipItems
	if len(items) != 2 {
		t.Fatalf("clip count = %d", len(items))
	}

	first := items[0]
	if first.Start != 50 || first.End != 125 || first.Out != 75 {
		t.Errorf("frame math wrong: %+v", first)
	}
	if first.PproTicksIn != 50*pproTicksPerSecond/25 {
		t.Errorf("ticks in = %d", first.PproTicksIn)
	}
	if first.Duration != stillSourceFrames || first.File.Duration != stillSourceFrames {
		t.Error("still source duration must be fixed")
	}
	if first.File.PathURL != "file://localhost/work/04_placeholder/row_001.jpg" {
		t.Errorf("pathurl = %q", first.File.PathURL)
	}

	// Zero-length placement still occupies at least one frame.
	if second := items[1]; second.End != second.Start+1 {
		t.Errorf("degenerate clip not widened: %+v", second)
	}

	if doc.Sequence.Duration != 126 {
		t.Errorf("sequence duration = %d", doc.Sequence.Duration)
	}
}

func TestWriteSequenceHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "placeholders.xml")
	doc := BuildSequence("Test", nil, 25)

	if err := WriteSequence(path, doc); err != nil {
		t.Fatalf("WriteSequence: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, "<!DOCTYPE xmeml>") {
		t.Error("missing doctype")
	}
	if !strings.Contains(text, `<xmeml version="4">`) {
		t.Error("missing versioned root element")
	}
}

func TestPathURLEscapes(t *testing.T) {
	got := PathURL("/work/04 placeholder/row 1.jpg")
	if got != "file://localhost/work/04%20placeholder/row%201.jpg" {
		t.Errorf("PathURL = %q", got)
	}
}

func TestWrapText(t *testing.T) {
	f, err := newFaces()
	if err != nil {
		t.Fatalf("newFaces: %v", err)
	}

	lines := wrapText(f.body, "в начале девяностых годов здесь построили первый мост через реку", fixed.I(600))
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %v", lines)
	}
	var joined []string
	for _, l := range lines {
		joined = append(joined, l)
	}
	if strings.Join(joined, " ") != "в начале девяностых годов здесь построили первый мост через реку" {
		t.Error("wrapping must not lose words")
	}

	if got := wrapText(f.body, "   ", fixed.I(600)); got != nil {
		t.Errorf("blank text should not wrap to lines: %v", got)
	}
}

func TestBuildEndToEnd(t *testing.T) {
	dir := t.TempDir()
	imgDir := filepath.Join(dir, "04_placeholder")
	xmlPath := filepath.Join(dir, "04_placeholder", "placeholders.xml")

	rows := []sheet.ContentRow{
		{Number: 2, Voiceover: "Первый мост построили в начале девяностых"},
		{Number: 3, Voiceover: "Совсем другой текст про экономику региона"},
		{Number: 4, Voiceover: ""},
	}
	segments := []match.Segment{
		{Text: "первый мост построили в начале девяностых", Start: 10, End: 14},
		{Text: "совсем другой текст про экономику региона", Start: 30, End: 35},
	}

	placements, err := Build(rows, segments, imgDir, xmlPath, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(placements) != 3 {
		t.Fatalf("placement count = %d", len(placements))
	}

	summary := match.SummarizePlacements(placements)
	if summary.Count(match.KindAligned) != 2 || summary.Count(match.KindNotFound) != 1 {
		t.Errorf("unexpected outcome mix: %+v", placements)
	}

	// Every row gets a card, aligned or not.
	for _, n := range []int{2, 3, 4} {
		p := filepath.Join(imgDir, CardName(n)+".jpg")
		f, err := os.Open(p)
		if err != nil {
			t.Fatalf("card %d missing: %v", n, err)
		}
		if _, err := jpeg.Decode(f); err != nil {
			t.Errorf("card %d is not a valid jpeg: %v", n, err)
		}
		f.Close()
	}

	data, err := os.ReadFile(xmlPath)
	if err != nil {
		t.Fatalf("timeline missing: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "row_002") || !strings.Contains(text, "row_003") {
		t.Error("aligned rows missing from timeline")
	}
	if strings.Contains(text, "row_004") {
		t.Error("unaligned row must not appear on the timeline")
	}
	if strings.Index(text, "row_002") > strings.Index(text, "row_003") {
		t.Error("clips must be chronological")
	}
}
