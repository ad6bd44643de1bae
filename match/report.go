package match

import (
	"fmt"
	"os"
	"strings"
)

const reasonKeyLimit = 80

// Summary tallies outcomes for one matching pass and keeps one line per row
// that needs human attention. Reporting only renders already-computed
// outcomes; it never affects the pass itself.
type Summary struct {
	counts   map[Kind]int
	problems []string
}

func NewSummary() *Summary {
	return &Summary{counts: make(map[Kind]int)}
}

// SummarizeResults aggregates a rename pass. Everything except Renamed and
// Unchanged lands in the problem log.
func SummarizeResults(results []Result) *Summary {
	s := NewSummary()
	for _, res := range results {
		s.counts[res.Kind]++
		if res.Kind != KindRenamed && res.Kind != KindUnchanged {
			s.addProblem(res.Row.Number, res.Reason, res.Row.Key)
		}
	}
	return s
}

// SummarizePlacements aggregates an alignment pass. Warnings keep their
// placement but are listed so a human can review them.
func SummarizePlacements(placements []Placement) *Summary {
	s := NewSummary()
	for _, p := range placements {
		s.counts[p.Kind]++
		if p.Kind != KindAligned {
			s.addProblem(p.Row.Number, p.Reason, p.Row.Key)
		}
	}
	return s
}

func (s *Summary) addProblem(rowNumber int, reason, key string) {
	s.problems = append(s.problems, fmt.Sprintf("%d: %s; key='%s'", rowNumber, reason, truncateKey(key)))
}

// Count reports how many rows resolved to the given kind.
func (s *Summary) Count(kind Kind) int {
	return s.counts[kind]
}

// Problems returns the diagnostic lines in row order.
func (s *Summary) Problems() []string {
	return s.problems
}

// WriteLog writes the problem lines to a sidecar file so a human can fix
// the data and re-run. A clean pass writes nothing and removes any stale
// log from an earlier run.
func (s *Summary) WriteLog(path string) error {
	if len(s.problems) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	return os.WriteFile(path, []byte(strings.Join(s.problems, "\n")+"\n"), 0o644)
}

func truncateKey(key string) string {
	runes := []rune(key)
	if len(runes) <= reasonKeyLimit {
		return key
	}
	return string(runes[:reasonKeyLimit-1]) + "…"
}
