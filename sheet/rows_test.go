package sheet

import "testing"

func TestMatchRowsSkipsHeaderAndBlankKeys(t *testing.T) {
	values := [][]string{
		{"Cell", "URL", "Title"},
		{"Opening", "https://youtu.be/x", "Intro Clip"},
		{"", "https://youtu.be/y", ""},
		{"Closing", "https://youtu.be/z", "Outro"},
	}

	rows := MatchRows(values)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Number != 2 || rows[0].Target != "Opening" || rows[0].Key != "Intro Clip" {
		t.Errorf("wrong first row: %+v", rows[0])
	}
	if rows[1].Number != 4 {
		t.Errorf("row numbers must stay stable, got %d", rows[1].Number)
	}
}

func TestMatchRowsKeepsNonHeaderFirstRow(t *testing.T) {
	values := [][]string{
		{"Opening", "", "Intro Clip"},
	}
	rows := MatchRows(values)
	if len(rows) != 1 || rows[0].Number != 1 {
		t.Errorf("data in row 1 must not be dropped: %+v", rows)
	}
}

func TestContentRows(t *testing.T) {
	values := [][]string{
		{"Voiceover text", "storyboard https://example.com", "mogrt", "note"},
		{"", "", "", ""},
		{"Only voiceover"},
	}

	rows := ContentRows(values)
	if len(rows) != 2 {
		t.Fatalf("expected 2 content rows, got %d", len(rows))
	}
	if rows[0].Number != 1 || rows[1].Number != 3 {
		t.Errorf("wrong row numbers: %+v", rows)
	}
	if rows[0].Column("B") != "storyboard https://example.com" {
		t.Errorf("Column(B) = %q", rows[0].Column("B"))
	}
	if rows[1].Column("Q") != "Only voiceover" {
		t.Errorf("unknown column should fall back to voiceover, got %q", rows[1].Column("Q"))
	}
}
