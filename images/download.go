package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"stagehand/match"
	"stagehand/sheet"
)

// extByContentType resolves an extension when neither the sheet name nor
// the URL path carries one.
var extByContentType = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
	"image/bmp":     ".bmp",
	"image/tiff":    ".tif",
	"video/mp4":     ".mp4",
}

var knownExts = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {},
	".webp": {}, ".svg": {}, ".bmp": {}, ".tif": {}, ".tiff": {},
	".mp4": {},
}

var httpScheme = regexp.MustCompile(`(?i)^https?://`)

// Client downloads images over plain HTTP.
type Client struct {
	http      *http.Client
	userAgent string
}

func NewClient() *Client {
	return &Client{
		http:      &http.Client{Timeout: 60 * time.Second},
		userAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
	}
}

// ExtFor picks the file extension: the URL path wins, then Content-Type,
// then .jpg.
func ExtFor(rawURL, contentType string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if e := strings.ToLower(path.Ext(u.Path)); e != "" {
			if _, ok := knownExts[e]; ok {
				return e
			}
		}
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if e, ok := extByContentType[mediaType]; ok {
		return e
	}
	return ".jpg"
}

// FileStem derives the destination stem from the sheet's name cell,
// splitting off a recognized extension so "bridge.png" keeps .png whatever
// the server says. A blank or unusable name falls back to a stable
// image_NNN stem.
func FileStem(name string, rowNumber int) (stem, ext string) {
	name = strings.TrimSpace(name)
	if e := strings.ToLower(filepath.Ext(name)); e != "" {
		if _, ok := knownExts[e]; ok {
			ext = e
			name = strings.TrimSuffix(name, filepath.Ext(name))
		}
	}
	stem = match.SanitizeName(name)
	if stem == "" {
		stem = fmt.Sprintf("image_%03d", rowNumber)
	}
	return stem, ext
}

// FindExisting returns a prior download for this stem, whatever extension
// it ended up with.
func FindExisting(destDir, stem string) string {
	matches, _ := filepath.Glob(filepath.Join(destDir, stem+".*"))
	for _, m := range matches {
		if !strings.HasSuffix(m, ".part") {
			return m
		}
	}
	return ""
}

// Fetch downloads one URL into destDir under the given stem. wantExt
// forces the extension; when empty it comes from the URL or Content-Type.
func (c *Client) Fetch(ctx context.Context, rawURL, stem, wantExt, destDir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,ru;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	ext := wantExt
	if ext == "" {
		ext = ExtFor(rawURL, resp.Header.Get("Content-Type"))
	}
	dest := filepath.Join(destDir, stem+ext)
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}

	tmp := dest + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("writing %s: %v", filepath.Base(dest), err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// MediaResolver expands a post URL into its direct media URLs. The real
// one talks to Instagram; tests inject a stub.
type MediaResolver func(ctx context.Context, postURL string) ([]string, error)

// Stats summarizes one download run.
type Stats struct {
	Downloaded int
	Skipped    int
	Errors     []string
}

// Options tunes one run over the images worksheet.
type Options struct {
	Resolve  MediaResolver // Instagram post expansion, defaults to the client's
	Sleep    time.Duration
	Progress func(format string, args ...any)
}

// Run downloads every row of a Name/URL grid into destDir and writes each
// row's outcome into column C, so the sheet itself shows what is left to
// fix. Instagram posts are expanded to their media first; carousels get
// _1, _2, ... suffixes. Files already on disk are left alone.
func Run(ctx context.Context, client *Client, values *[][]string, destDir string, opts Options) Stats {
	if opts.Progress == nil {
		opts.Progress = func(string, ...any) {}
	}
	if opts.Resolve == nil {
		opts.Resolve = client.InstagramMediaURLs
	}
	var stats Stats

	if err := os.MkdirAll(destDir, 0755); err != nil {
		stats.Errors = append(stats.Errors, fmt.Sprintf("creating %s: %v", destDir, err))
		return stats
	}

	for i, row := range *values {
		number := i + 1
		if number == 1 && sheet.IsHeaderRow(row) {
			continue
		}
		name := strings.TrimSpace(sheet.Cell(*values, number, 1))
		link := strings.TrimSpace(sheet.Cell(*values, number, 2))
		if name == "" && link == "" {
			continue
		}

		var status string
		switch {
		case link == "":
			status = "error: no link"
			stats.Errors = append(stats.Errors, fmt.Sprintf("row %d: %s: no link", number, name))
		case !httpScheme.MatchString(link):
			status = "error: not a http(s) url"
			stats.Errors = append(stats.Errors, fmt.Sprintf("row %d: %s: not a http(s) url", number, link))
		case IsInstagramURL(link):
			status = instagramRow(ctx, client, number, name, link, destDir, opts, &stats)
		default:
			status = directRow(ctx, client, number, name, link, destDir, opts, &stats)
		}

		sheet.SetCell(values, number, 3, status)
		if ctx.Err() != nil {
			break
		}
	}
	return stats
}

func directRow(ctx context.Context, client *Client, number int, name, link, destDir string, opts Options, stats *Stats) string {
	stem, wantExt := FileStem(name, number)

	if existing := FindExisting(destDir, stem); existing != "" {
		stats.Skipped++
		opts.Progress("[SKIP] row %d already at %s\n", number, filepath.Base(existing))
		return "exists: " + filepath.Base(existing)
	}

	dest, err := client.Fetch(ctx, link, stem, wantExt, destDir)
	if err != nil {
		stats.Errors = append(stats.Errors, fmt.Sprintf("row %d: %s: %v", number, link, err))
		opts.Progress("[WARN] row %d: %v\n", number, err)
		return fmt.Sprintf("error: %v", err)
	}
	stats.Downloaded++
	opts.Progress("[OK] row %d -> %s\n", number, filepath.Base(dest))
	if opts.Sleep > 0 {
		time.Sleep(opts.Sleep)
	}
	return "ok: " + filepath.Base(dest)
}

func instagramRow(ctx context.Context, client *Client, number int, name, link, destDir string, opts Options, stats *Stats) string {
	stem, _ := FileStem(name, number)

	media, err := opts.Resolve(ctx, link)
	if err != nil {
		stats.Errors = append(stats.Errors, fmt.Sprintf("row %d: %s: %v", number, link, err))
		opts.Progress("[WARN] row %d: %v\n", number, err)
		return fmt.Sprintf("error: %v", err)
	}
	if len(media) == 0 {
		stats.Errors = append(stats.Errors, fmt.Sprintf("row %d: %s: no media found", number, link))
		opts.Progress("[WARN] row %d: no media found\n", number)
		return "error: no media found"
	}

	var saved []string
	skipped := 0
	for index, mediaURL := range media {
		itemStem := stem
		if len(media) > 1 {
			itemStem = fmt.Sprintf("%s_%d", stem, index+1)
		}
		if existing := FindExisting(destDir, itemStem); existing != "" {
			skipped++
			saved = append(saved, filepath.Base(existing))
			continue
		}
		dest, err := client.Fetch(ctx, mediaURL, itemStem, "", destDir)
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("row %d: %s: %v", number, mediaURL, err))
			opts.Progress("[WARN] row %d: %v\n", number, err)
			return fmt.Sprintf("error: %v", err)
		}
		saved = append(saved, filepath.Base(dest))
	}

	stats.Skipped += skipped
	stats.Downloaded += len(saved) - skipped
	if skipped == len(saved) {
		opts.Progress("[SKIP] row %d: all %d media already present\n", number, len(saved))
		return "exists: " + strings.Join(saved, ", ")
	}
	opts.Progress("[OK] row %d -> %s\n", number, strings.Join(saved, ", "))
	if opts.Sleep > 0 {
		time.Sleep(opts.Sleep)
	}
	return "ok: " + strings.Join(saved, ", ")
}
