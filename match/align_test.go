package match

import "testing"

func sampleSegments() []Segment {
	return []Segment{
		{Text: "hello world", Start: 0, End: 2},
		{Text: "goodbye now", Start: 2, End: 4},
	}
}

func TestAlignExactTextWins(t *testing.T) {
	rows := []Row{{Number: 2, Key: "Hello, World!"}}
	placements := Align(rows, sampleSegments(), 70)

	if len(placements) != 1 {
		t.Fatalf("expected 1 placement, got %d", len(placements))
	}
	p := placements[0]
	if p.Kind != KindAligned {
		t.Fatalf("expected Aligned, got %v (%s)", p.Kind, p.Reason)
	}
	if p.Score != 100 {
		t.Errorf("identical normalized text should score 100, got %d", p.Score)
	}
	if p.Segment.Start != 0 || p.Segment.End != 2 {
		t.Errorf("aligned to wrong segment: %+v", p.Segment)
	}
}

func TestAlignEmptyKeyIsNotFound(t *testing.T) {
	rows := []Row{{Number: 2, Key: "  ...  "}}
	placements := Align(rows, sampleSegments(), 70)

	if placements[0].Kind != KindNotFound {
		t.Errorf("empty normalized key should be NotFound, got %v", placements[0].Kind)
	}
}

func TestAlignNoSegments(t *testing.T) {
	rows := []Row{{Number: 2, Key: "hello"}}
	placements := Align(rows, nil, 70)

	if placements[0].Kind != KindNotFound {
		t.Errorf("empty transcript should be NotFound, got %v", placements[0].Kind)
	}
}

func TestAlignLowScoreStillPlacesButWarns(t *testing.T) {
	segments := []Segment{{Text: "completely unrelated narration", Start: 5, End: 9}}
	rows := []Row{{Number: 2, Key: "quarterly finance report"}}

	placements := Align(rows, segments, 70)
	p := placements[0]

	if p.Kind != KindWarning {
		t.Fatalf("low-confidence alignment should warn, got %v", p.Kind)
	}
	if p.Segment.Start != 5 || p.Segment.End != 9 {
		t.Errorf("warning placement must still carry timing, got %+v", p.Segment)
	}
}

func TestAlignTieGoesToFirstSegment(t *testing.T) {
	segments := []Segment{
		{Text: "same words here", Start: 0, End: 2},
		{Text: "same words here", Start: 2, End: 4},
	}
	rows := []Row{{Number: 2, Key: "same words here"}}

	placements := Align(rows, segments, 70)
	if placements[0].Segment.Start != 0 {
		t.Errorf("equal scores should keep the earliest segment, got start %v", placements[0].Segment.Start)
	}
}

func TestSortPlacementsIsChronological(t *testing.T) {
	placements := []Placement{
		{Row: Row{Number: 2}, Segment: Segment{Start: 8, End: 9}, Kind: KindAligned},
		{Row: Row{Number: 3}, Segment: Segment{Start: 1, End: 2}, Kind: KindAligned},
		{Row: Row{Number: 4}, Segment: Segment{Start: 4, End: 6}, Kind: KindAligned},
	}

	SortPlacements(placements)

	last := -1.0
	for _, p := range placements {
		if p.Segment.Start < last {
			t.Fatalf("placements out of order: %+v", placements)
		}
		last = p.Segment.Start
	}
	if placements[0].Row.Number != 3 {
		t.Errorf("earliest segment should sort first, got row %d", placements[0].Row.Number)
	}
}
