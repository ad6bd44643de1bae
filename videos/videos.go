package videos

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"stagehand/match"
	"stagehand/sheet"
)

var (
	youtubeID   = regexp.MustCompile(`^[A-Za-z0-9_-]{6,20}$`)
	instaPrefix = regexp.MustCompile(`^/(p|reel|reels|tv)/([A-Za-z0-9_-]+)`)
)

// VideoID derives a stable identifier for a link so re-runs can tell that a
// clip is already on disk. YouTube links yield the video id, Instagram
// links the post shortcode, anything else a sanitized last path segment.
func VideoID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Host)

	switch {
	case host == "youtu.be":
		id := strings.Trim(u.Path, "/")
		if i := strings.Index(id, "/"); i > 0 {
			id = id[:i]
		}
		if youtubeID.MatchString(id) {
			return id
		}
	case strings.Contains(host, "youtube.com"):
		if id := u.Query().Get("v"); youtubeID.MatchString(id) {
			return id
		}
		for _, prefix := range []string{"/shorts/", "/embed/", "/live/"} {
			if strings.HasPrefix(u.Path, prefix) {
				id := strings.Trim(strings.TrimPrefix(u.Path, prefix), "/")
				if youtubeID.MatchString(id) {
					return id
				}
			}
		}
	case strings.Contains(host, "instagram.com"), host == "instagr.am":
		if m := instaPrefix.FindStringSubmatch(u.Path); m != nil {
			return m[2]
		}
	}

	if s := match.SanitizeName(path.Base(u.Path)); s != "" && s != "." && s != "/" {
		return s
	}
	return ""
}

// Downloader fetches one link into destDir using the given output stem.
// The real implementation shells out to yt-dlp; tests inject a stub.
type Downloader func(ctx context.Context, link, destDir, stem string) error

// YTDLP returns the production downloader. Install must have been called
// once beforehand.
func YTDLP() Downloader {
	return func(ctx context.Context, link, destDir, stem string) error {
		dl := ytdlp.New().
			FormatSort("res,ext:mp4:m4a").
			RecodeVideo("mp4").
			NoPlaylist().
			Output(filepath.Join(destDir, stem+".%(ext)s"))

		dl = dl.ProgressFunc(250*time.Millisecond, func(prog ytdlp.ProgressUpdate) {
			fmt.Printf("\r[DL] %s %.1f%%", stem, prog.Percent())
			if prog.Status == ytdlp.ProgressStatusFinished {
				fmt.Println()
			}
		})

		_, err := dl.Run(ctx, link)
		return err
	}
}

// Install makes sure a yt-dlp binary is available, downloading one next to
// the executable when the system has none.
func Install(ctx context.Context) error {
	_, err := ytdlp.Install(ctx, nil)
	return err
}

// Stats summarizes one download run.
type Stats struct {
	Downloaded int
	Skipped    int
	Errors     []string
}

// Options tunes one run over the routed videos CSV.
type Options struct {
	Progress func(format string, args ...any)
}

// Run downloads every link from a routed Cell/URL grid into destDir. A
// clip whose id already has a file on disk is skipped, so interrupted runs
// can simply be restarted.
func Run(ctx context.Context, download Downloader, values [][]string, destDir string, opts Options) Stats {
	if opts.Progress == nil {
		opts.Progress = func(string, ...any) {}
	}
	var stats Stats

	for i, row := range values {
		if i == 0 && sheet.IsHeaderRow(row) {
			continue
		}
		if len(row) < 2 || strings.TrimSpace(row[1]) == "" {
			continue
		}
		cell, link := strings.TrimSpace(row[0]), strings.TrimSpace(row[1])

		id := VideoID(link)
		if id == "" {
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: cannot derive an id from %s", cell, link))
			continue
		}
		stem := strings.ToLower(cell) + "_" + id

		if existing, _ := filepath.Glob(filepath.Join(destDir, stem+".*")); len(existing) > 0 {
			stats.Skipped++
			opts.Progress("[SKIP] %s already at %s\n", cell, filepath.Base(existing[0]))
			continue
		}
		if ctx.Err() != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", cell, ctx.Err()))
			break
		}

		opts.Progress("[DL] %s <- %s\n", cell, link)
		if err := download(ctx, link, destDir, stem); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %s: %v", cell, link, err))
			opts.Progress("[WARN] %s: %v\n", cell, err)
			continue
		}
		stats.Downloaded++
	}
	return stats
}
