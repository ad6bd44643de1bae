package sheet

import (
	"strings"

	"stagehand/match"
)

// Header tokens that mark row 1 as a header row rather than data. The
// source sheets are hand-made, so only the first row is ever a header and
// only when it starts with one of these.
var headerTokens = map[string]struct{}{
	"cell":     {},
	"name":     {},
	"title":    {},
	"url":      {},
	"имя":      {},
	"название": {},
	"файл":     {},
}

// IsHeaderRow reports whether a first row looks like column headers.
func IsHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	_, ok := headerTokens[strings.ToLower(strings.TrimSpace(row[0]))]
	return ok
}

// MatchRows extracts match rows from a grid: column A carries the desired
// name, column C the text used to find the file. Rows without a match key
// are skipped; row numbers stay 1-based and stable so diagnostics point at
// the real spreadsheet row.
func MatchRows(values [][]string) []match.Row {
	rows := make([]match.Row, 0, len(values))
	for i, row := range values {
		number := i + 1
		if number == 1 && IsHeaderRow(row) {
			continue
		}
		target := strings.TrimSpace(Cell(values, number, 1))
		key := strings.TrimSpace(Cell(values, number, 3))
		if key == "" {
			continue
		}
		rows = append(rows, match.Row{Number: number, Target: target, Key: key})
	}
	return rows
}

// ContentRow is one spreadsheet row with the four content columns the
// placeholder step renders (voiceover, storyboard, mogrt, comment).
type ContentRow struct {
	Number     int
	Voiceover  string
	Storyboard string
	Mogrt      string
	Comment    string
}

// Column returns one of the content fields by its sheet column letter,
// defaulting to the voiceover column.
func (r ContentRow) Column(letter string) string {
	switch strings.ToUpper(strings.TrimSpace(letter)) {
	case "B", "2":
		return r.Storyboard
	case "C", "3":
		return r.Mogrt
	case "D", "4":
		return r.Comment
	default:
		return r.Voiceover
	}
}

// ContentRows keeps every row with at least one non-blank content cell.
func ContentRows(values [][]string) []ContentRow {
	rows := make([]ContentRow, 0, len(values))
	for i := range values {
		number := i + 1
		row := ContentRow{
			Number:     number,
			Voiceover:  strings.TrimSpace(Cell(values, number, 1)),
			Storyboard: strings.TrimSpace(Cell(values, number, 2)),
			Mogrt:      strings.TrimSpace(Cell(values, number, 3)),
			Comment:    strings.TrimSpace(Cell(values, number, 4)),
		}
		if row.Voiceover == "" && row.Storyboard == "" && row.Mogrt == "" && row.Comment == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}
