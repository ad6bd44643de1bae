package footage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"stagehand/browser"
	"stagehand/match"
	"stagehand/sheet"
)

// Selectors tried in order on a stock footage page. MotionArray has moved
// its download button across redesigns, so older selectors stay in the
// list as fallbacks.
var downloadSelectors = []string{
	`button[data-test="download-button"]`,
	`a[data-test="download-button"]`,
	`button[class*="download"]`,
	`a[href*="/download"]`,
	`button[aria-label*="Download"]`,
}

var footageURL = regexp.MustCompile(`(?i)https?://\S+`)

// Entry is one sheet row to grab: the desired file name and the stock page
// link, however the editor mixed them across columns A and B.
type Entry struct {
	Number int
	Name   string
	URL    string
}

func extractURL(text string) string {
	m := footageURL.FindString(text)
	return strings.TrimRight(m, ").,]}")
}

func stripURLs(text string) string {
	cleaned := footageURL.ReplaceAllString(text, " ")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return strings.Trim(cleaned, " -–—_:;|")
}

// ParseEntries reads name+URL pairs from columns A and B. The link may sit
// in either column and the name may share a cell with it; rows without any
// link are skipped. A row with no usable name falls back to a stable
// footage_NNN stem.
func ParseEntries(values [][]string) []Entry {
	var entries []Entry
	for i, row := range values {
		number := i + 1
		if number == 1 && sheet.IsHeaderRow(row) {
			continue
		}
		colA := strings.TrimSpace(sheet.Cell(values, number, 1))
		colB := strings.TrimSpace(sheet.Cell(values, number, 2))

		var name, link string
		switch {
		case colB != "" && extractURL(colB) != "":
			link = extractURL(colB)
			name = stripURLs(colA)
		case colA != "" && extractURL(colA) != "" && colB == "":
			// A bare link in column A; the stem comes from the fallback.
			link = extractURL(colA)
		default:
			link = extractURL(colA)
			if link == "" {
				link = extractURL(colB)
			}
			src := colA
			if src == "" {
				src = colB
			}
			name = stripURLs(src)
		}
		if link == "" {
			continue
		}

		name = match.SanitizeName(name)
		if name == "" {
			name = fmt.Sprintf("footage_%03d", number-1)
		}
		entries = append(entries, Entry{Number: number, Name: name, URL: link})
	}
	return entries
}

// Grabber fetches one stock page's asset and returns the downloaded file
// path. The real one drives a browser; tests inject a stub.
type Grabber func(ctx context.Context, link string) (string, error)

// BrowserGrabber drives a live session: open the page, click the first
// download control that exists, then wait for the file to land.
func BrowserGrabber(s *browser.Session, downloadDir string, wait time.Duration) Grabber {
	return func(ctx context.Context, link string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		before := browser.SnapshotDir(downloadDir)

		if err := s.NavigateAndWait(link); err != nil {
			return "", err
		}
		sel, err := s.ClickFirst(downloadSelectors...)
		if err != nil {
			return "", fmt.Errorf("no download control on page: %v", err)
		}
		path, err := browser.WaitDownload(downloadDir, before, wait)
		if err != nil {
			return "", fmt.Errorf("clicked %s but %v", sel, err)
		}
		return path, nil
	}
}

// Stats summarizes one footage run.
type Stats struct {
	Downloaded int
	Skipped    int
	Errors     []string
}

// Options tunes one run over the footage worksheet.
type Options struct {
	Progress func(format string, args ...any)
}

// Run grabs every entry's asset and moves it into destDir under the
// entry's name, keeping the downloaded file's extension. Each row's
// outcome lands in column C so the sheet doubles as the progress tracker;
// rows whose name already has a file are skipped.
func Run(ctx context.Context, grab Grabber, values *[][]string, destDir string, opts Options) Stats {
	if opts.Progress == nil {
		opts.Progress = func(string, ...any) {}
	}
	var stats Stats

	if err := os.MkdirAll(destDir, 0755); err != nil {
		stats.Errors = append(stats.Errors, fmt.Sprintf("creating %s: %v", destDir, err))
		return stats
	}

	for _, entry := range ParseEntries(*values) {
		if existing, _ := filepath.Glob(filepath.Join(destDir, entry.Name+".*")); len(existing) > 0 {
			stats.Skipped++
			sheet.SetCell(values, entry.Number, 3, "exists: "+filepath.Base(existing[0]))
			opts.Progress("[SKIP] %s already at %s\n", entry.Name, filepath.Base(existing[0]))
			continue
		}
		if ctx.Err() != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("row %d: %v", entry.Number, ctx.Err()))
			break
		}

		opts.Progress("[GRAB] %s <- %s\n", entry.Name, entry.URL)
		downloaded, err := grab(ctx, entry.URL)
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("row %d: %s: %v", entry.Number, entry.URL, err))
			sheet.SetCell(values, entry.Number, 3, fmt.Sprintf("error: %v", err))
			opts.Progress("[WARN] %s: %v\n", entry.Name, err)
			continue
		}

		dest := filepath.Join(destDir, entry.Name+strings.ToLower(filepath.Ext(downloaded)))
		if err := os.Rename(downloaded, dest); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("row %d: moving %s: %v", entry.Number, downloaded, err))
			sheet.SetCell(values, entry.Number, 3, fmt.Sprintf("error: %v", err))
			continue
		}
		stats.Downloaded++
		sheet.SetCell(values, entry.Number, 3, "ok: "+filepath.Base(dest))
		opts.Progress("[OK] %s -> %s\n", entry.Name, filepath.Base(dest))
	}
	return stats
}
