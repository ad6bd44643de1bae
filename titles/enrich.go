package titles

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stagehand/sheet"
)

// Fetcher resolves one link. *Client satisfies it; tests inject a stub.
type Fetcher func(ctx context.Context, link string) (Info, error)

// Options tunes one enrichment run over a routed links grid.
type Options struct {
	URLColumn     int           // 1-based column holding the link, default B
	TitleColumn   int           // where the title is written, default C
	ChannelColumn int           // where the channel is written, default D
	Force         bool          // refetch even when the title cell is filled
	Sleep         time.Duration // pause between network fetches
	Progress      func(format string, args ...any)
}

func (o *Options) defaults() {
	if o.URLColumn == 0 {
		o.URLColumn = 2
	}
	if o.TitleColumn == 0 {
		o.TitleColumn = 3
	}
	if o.ChannelColumn == 0 {
		o.ChannelColumn = 4
	}
	if o.Progress == nil {
		o.Progress = func(string, ...any) {}
	}
}

// Stats summarizes one enrichment run.
type Stats struct {
	Updated int
	Cached  int
	Skipped int
	Errors  []string
}

// Enrich fills title and channel columns for every link in the grid,
// consulting the cache first and recording fresh results back into it. The
// grid is mutated in place; the caller saves both the grid and the cache.
func Enrich(ctx context.Context, values *[][]string, fetch Fetcher, cache *Cache, opts Options) Stats {
	opts.defaults()
	var stats Stats

	for i := range *values {
		number := i + 1
		if number == 1 && sheet.IsHeaderRow((*values)[i]) {
			continue
		}
		link := strings.TrimSpace(sheet.Cell(*values, number, opts.URLColumn))
		if link == "" {
			continue
		}
		if !opts.Force && sheet.Cell(*values, number, opts.TitleColumn) != "" {
			stats.Skipped++
			continue
		}

		info, hit := cache.Get(link)
		if hit && !opts.Force {
			stats.Cached++
		} else {
			if ctx.Err() != nil {
				stats.Errors = append(stats.Errors, fmt.Sprintf("row %d: %v", number, ctx.Err()))
				break
			}
			var err error
			info, err = fetch(ctx, link)
			if err != nil {
				stats.Errors = append(stats.Errors, fmt.Sprintf("row %d: %s: %v", number, link, err))
				opts.Progress("[WARN] row %d: %v\n", number, err)
				continue
			}
			cache.Put(link, info)
			if opts.Sleep > 0 {
				time.Sleep(opts.Sleep)
			}
		}

		sheet.SetCell(values, number, opts.TitleColumn, info.Title)
		if info.Channel != "" {
			sheet.SetCell(values, number, opts.ChannelColumn, info.Channel)
		}
		stats.Updated++
		opts.Progress("[OK] row %d: %s\n", number, info.Title)
	}
	return stats
}
