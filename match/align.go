package match

import (
	"fmt"
	"sort"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Segment is a time-boxed piece of transcript text.
type Segment struct {
	Text  string
	Start float64
	End   float64
}

// Placement ties a row to the transcript segment it scored best against.
type Placement struct {
	Row     Row
	Segment Segment
	Score   int
	Kind    Kind
	Reason  string
}

// Align scores every row against every segment with a partial-ratio
// similarity and keeps the argmax, first index winning ties. Unlike the
// rename flow nothing is consumed: several rows may legitimately reference
// overlapping narration, so segments stay available to every row. A score
// below minScore still produces a placement but is flagged for review;
// only an empty match key (or an empty transcript) yields no placement.
func Align(rows []Row, segments []Segment, minScore int) []Placement {
	placements := make([]Placement, 0, len(rows))

	for _, row := range rows {
		query := Normalize(row.Key)
		if query == "" {
			placements = append(placements, Placement{
				Row:    row,
				Kind:   KindNotFound,
				Reason: "empty match text",
			})
			continue
		}
		if len(segments) == 0 {
			placements = append(placements, Placement{
				Row:    row,
				Kind:   KindNotFound,
				Reason: "no transcript segments",
			})
			continue
		}

		bestIdx := 0
		bestScore := -1
		for i, seg := range segments {
			score := fuzzy.PartialRatio(query, Normalize(seg.Text))
			if score > bestScore {
				bestIdx = i
				bestScore = score
			}
		}

		p := Placement{
			Row:     row,
			Segment: segments[bestIdx],
			Score:   bestScore,
			Kind:    KindAligned,
		}
		if bestScore < minScore {
			p.Kind = KindWarning
			p.Reason = fmt.Sprintf("low confidence: score %d below %d", bestScore, minScore)
		}
		placements = append(placements, p)
	}

	return placements
}

// SortPlacements orders placements by segment start time. Alignment output
// drives a sequential timeline, so it is handed downstream time-ordered
// rather than in row order.
func SortPlacements(placements []Placement) {
	sort.SliceStable(placements, func(i, j int) bool {
		return placements[i].Segment.Start < placements[j].Segment.Start
	})
}
