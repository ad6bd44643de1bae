package broll

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"stagehand/sheet"
)

// maxPromptRunes keeps prompts short: a voiceover cell can hold a whole
// paragraph, but the opening clause is what determines the visuals.
const maxPromptRunes = 220

// TruncateQuery cuts text to at most n runes, backing up to the last word
// boundary so queries never end mid-word.
func TruncateQuery(text string, n int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	cut := string(runes[:n])
	if i := strings.LastIndexFunc(cut, unicode.IsSpace); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut)
}

// ParseSuggestions extracts search queries from a model reply. The model is
// asked for a JSON array, but replies arrive fenced, prefixed with prose,
// or as a plain bullet list, so parsing degrades gracefully.
func ParseSuggestions(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	if start, end := strings.Index(raw, "["), strings.LastIndex(raw, "]"); start >= 0 && end > start {
		var arr []string
		if err := json.Unmarshal([]byte(raw[start:end+1]), &arr); err == nil {
			return cleanQueries(arr)
		}
	}

	// Fallback: one query per line, bullets and numbering stripped.
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•")
		line = strings.TrimSpace(strings.TrimLeft(line, "0123456789."))
		line = strings.Trim(line, `"`)
		lines = append(lines, line)
	}
	return cleanQueries(lines)
}

func cleanQueries(raw []string) []string {
	var out []string
	for _, q := range raw {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		out = append(out, TruncateQuery(q, maxPromptRunes))
	}
	return out
}

// Suggester produces queries for one voiceover fragment. *Client satisfies
// it; tests use a stub.
type Suggester func(ctx context.Context, voiceover string) ([]string, error)

// Options tunes one fill run over the content sheet.
type Options struct {
	Column   int // 1-based column receiving the queries, default E
	Force    bool
	Limit    int // stop after this many fresh suggestions, 0 = no limit
	Sleep    time.Duration
	Progress func(format string, args ...any)
}

func (o *Options) defaults() {
	if o.Column == 0 {
		o.Column = 5
	}
	if o.Progress == nil {
		o.Progress = func(string, ...any) {}
	}
}

// Stats summarizes one fill run.
type Stats struct {
	Filled  int
	Skipped int
	Errors  []string
}

// Fill writes b-roll queries next to every voiceover row that does not
// have them yet. Queries for one row land in a single cell, joined with
// "; " so the editor can paste them into a stock site one by one.
func Fill(ctx context.Context, values *[][]string, suggest Suggester, opts Options) Stats {
	opts.defaults()
	var stats Stats

	for _, row := range sheet.ContentRows(*values) {
		if row.Voiceover == "" {
			continue
		}
		if !opts.Force && strings.TrimSpace(sheet.Cell(*values, row.Number, opts.Column)) != "" {
			stats.Skipped++
			continue
		}
		if opts.Limit > 0 && stats.Filled >= opts.Limit {
			break
		}
		if ctx.Err() != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("row %d: %v", row.Number, ctx.Err()))
			break
		}

		queries, err := suggest(ctx, row.Voiceover)
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("row %d: %v", row.Number, err))
			opts.Progress("[WARN] row %d: %v\n", row.Number, err)
			continue
		}

		sheet.SetCell(values, row.Number, opts.Column, strings.Join(queries, "; "))
		stats.Filled++
		opts.Progress("[OK] row %d: %s\n", row.Number, strings.Join(queries, "; "))

		if opts.Sleep > 0 {
			time.Sleep(opts.Sleep)
		}
	}
	return stats
}
