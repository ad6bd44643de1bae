package sheet

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadRows loads a CSV file as a grid of cells. A missing file is an empty
// grid, not an error: every step treats "not cached yet" as "nothing to do".
func ReadRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// WriteRows replaces a CSV file with the given grid.
func WriteRows(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Cell reads a 1-based cell, returning "" when the grid is ragged there.
func Cell(rows [][]string, row, col int) string {
	if row < 1 || row > len(rows) {
		return ""
	}
	r := rows[row-1]
	if col < 1 || col > len(r) {
		return ""
	}
	return r[col-1]
}

// SetCell writes a 1-based cell, growing the grid as needed. Source grids
// are ragged, so callers never index the raw rows directly.
func SetCell(rows *[][]string, row, col int, value string) {
	for len(*rows) < row {
		*rows = append(*rows, []string{})
	}
	r := (*rows)[row-1]
	for len(r) < col {
		r = append(r, "")
	}
	r[col-1] = value
	(*rows)[row-1] = r
}

// ColumnIndex converts a spreadsheet column letter ("A", "AB") to a 1-based
// index.
func ColumnIndex(letter string) (int, error) {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if letter == "" {
		return 0, fmt.Errorf("empty column letter")
	}
	index := 0
	for _, r := range letter {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("bad column letter: %s", letter)
		}
		index = index*26 + int(r-'A') + 1
	}
	return index, nil
}

// ColumnLabel converts a 1-based index back to a column letter.
func ColumnLabel(index int) string {
	label := ""
	for index > 0 {
		index--
		label = string(rune('A'+index%26)) + label
		index /= 26
	}
	if label == "" {
		return "A"
	}
	return label
}

// A1 renders a 1-based row/column pair as an A1 cell reference.
func A1(row, col int) string {
	return fmt.Sprintf("%s%d", ColumnLabel(col), row)
}
