// Package report gathers the error sidecars the pipeline steps leave
// behind and folds them into one reviewable file, with each failed link
// resolved back to its URL.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"stagehand/sheet"
)

// Entry is one problem line from a sidecar.
type Entry struct {
	Source string // which sidecar it came from
	Cell   string // sheet cell reference, when the line carries one
	Line   string
	URL    string // resolved from the routed worksheets, when possible
}

var cellRef = regexp.MustCompile(`\b([A-Z]{1,2}[0-9]{1,4})\b`)

// ParseSidecar reads one error log, one entry per non-blank line. A missing
// file is simply an empty result: a clean step writes no sidecar.
func ParseSidecar(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	source := filepath.Base(path)
	var entries []Entry
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		entry := Entry{Source: source, Line: line}
		if m := cellRef.FindStringSubmatch(line); m != nil {
			entry.Cell = m[1]
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// AttachURLs resolves each entry's cell reference against the routed
// worksheets so the report shows the actual link that failed.
func AttachURLs(entries []Entry, grids map[string][][]string) {
	byCell := make(map[string]string)
	for _, grid := range grids {
		for i, row := range grid {
			if i == 0 && sheet.IsHeaderRow(row) {
				continue
			}
			if len(row) >= 2 && row[0] != "" {
				byCell[strings.ToUpper(row[0])] = row[1]
			}
		}
	}
	for i := range entries {
		if entries[i].Cell != "" {
			entries[i].URL = byCell[entries[i].Cell]
		}
	}
}

// Write renders the entries grouped by sidecar. No entries means no file:
// a clean pipeline leaves nothing to review.
func Write(path string, entries []Entry) error {
	if len(entries) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	grouped := make(map[string][]Entry)
	for _, e := range entries {
		grouped[e.Source] = append(grouped[e.Source], e)
	}
	sources := make([]string, 0, len(grouped))
	for s := range grouped {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	var b strings.Builder
	for _, source := range sources {
		fmt.Fprintf(&b, "== %s (%d) ==\n", source, len(grouped[source]))
		for _, e := range grouped[source] {
			b.WriteString(e.Line)
			if e.URL != "" {
				b.WriteString("\n    ")
				b.WriteString(e.URL)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}
