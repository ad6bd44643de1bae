package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stagehand/broll"
	"stagehand/browser"
	"stagehand/footage"
	"stagehand/images"
	"stagehand/links"
	"stagehand/match"
	"stagehand/overlay"
	"stagehand/placeholders"
	"stagehand/project"
	"stagehand/report"
	"stagehand/sheet"
	"stagehand/titles"
	"stagehand/transcript"
	"stagehand/videos"
)

// progressFunc is how the step runners report to either stdout or a wizard
// job log.
type progressFunc func(format string, args ...any)

func stdoutProgress(format string, args ...any) {
	fmt.Printf(format, args...)
}

func logProgress(log func(string)) progressFunc {
	return func(format string, args ...any) {
		log(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
	}
}

// writeErrorSidecar leaves a step's failures next to its output, or removes
// the stale sidecar when the run was clean.
func writeErrorSidecar(path string, errs []string) error {
	if len(errs) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	return os.WriteFile(path, []byte(strings.Join(errs, "\n")+"\n"), 0644)
}

// loadWorksheet opens the project and reads one cached worksheet. An empty
// sheet name falls back to the project's default worksheet.
func loadWorksheet(projectName, sheetName string) (*project.Context, string, [][]string, error) {
	ctx, err := project.Resolve(projectName)
	if err != nil {
		return nil, "", nil, err
	}
	if sheetName == "" {
		sheetName = ctx.Meta.DefaultSheet
	}
	if sheetName == "" {
		return nil, "", nil, fmt.Errorf("no worksheet given and the project has no default; run 'stagehand sheet import' first")
	}
	path, err := ctx.CSVPath(sheetName)
	if err != nil {
		return nil, "", nil, err
	}
	values, err := sheet.ReadRows(path)
	if err != nil {
		return nil, "", nil, err
	}
	if len(values) == 0 {
		return nil, "", nil, fmt.Errorf("worksheet '%s' is not cached yet (expected %s)", sheetName, path)
	}
	return ctx, path, values, nil
}

func runSheetImport(projectName, csvPath, sheetName string, progress progressFunc) error {
	if _, err := os.Stat(csvPath); err != nil {
		return fmt.Errorf("cannot read '%s': %v", csvPath, err)
	}
	ctx, err := project.Resolve(projectName)
	if err != nil {
		return err
	}
	values, err := sheet.ReadRows(csvPath)
	if err != nil {
		return err
	}

	if sheetName == "" {
		sheetName = strings.TrimSuffix(filepath.Base(csvPath), filepath.Ext(csvPath))
	}
	filename := project.SanitizeName(sheetName) + ".csv"
	if err := sheet.WriteRows(filepath.Join(ctx.DataDir, filename), values); err != nil {
		return err
	}
	ctx.RegisterWorksheet(sheetName, filename)
	if err := ctx.SaveMeta(); err != nil {
		return err
	}
	progress("[OK] cached worksheet '%s' as %s (%d rows)\n", sheetName, filename, len(values))
	return nil
}

func runLinksRoute(projectName, sheetName string, progress progressFunc) error {
	ctx, _, values, err := loadWorksheet(projectName, sheetName)
	if err != nil {
		return err
	}

	routed := links.Route(values)
	for _, name := range []string{links.SheetYoutube, links.SheetImages, links.SheetFootage, links.SheetOther} {
		grid := routed[name]
		filename := project.SanitizeName(name) + ".csv"
		if err := sheet.WriteRows(filepath.Join(ctx.DataDir, filename), grid); err != nil {
			return err
		}
		ctx.RegisterWorksheet(name, filename)
		progress("[OK] %s: %d links\n", name, len(grid)-1)
	}
	return ctx.SaveMeta()
}

func runTitles(projectName, sheetName string, force bool, sleep time.Duration, progress progressFunc) error {
	if sheetName == "" {
		sheetName = links.SheetYoutube
	}
	ctx, path, values, err := loadWorksheet(projectName, sheetName)
	if err != nil {
		return err
	}

	cache, err := titles.LoadCache(filepath.Join(ctx.DataDir, "titles_cache.csv"))
	if err != nil {
		return err
	}

	client := titles.NewClient()
	stats := titles.Enrich(context.Background(), &values, client.Fetch, cache, titles.Options{
		Force:    force,
		Sleep:    sleep,
		Progress: progress,
	})

	if err := sheet.WriteRows(path, values); err != nil {
		return err
	}
	if err := cache.Save(); err != nil {
		return err
	}

	progress("Enriched %d links (%d from cache, %d already filled, %d failed)\n",
		stats.Updated, stats.Cached, stats.Skipped, len(stats.Errors))
	for _, e := range stats.Errors {
		progress("  %s\n", e)
	}
	return writeErrorSidecar(filepath.Join(ctx.DataDir, "titles_errors.txt"), stats.Errors)
}

func runBroll(projectName, sheetName, column string, limit int, force bool, progress progressFunc) error {
	ctx, path, values, err := loadWorksheet(projectName, sheetName)
	if err != nil {
		return err
	}

	columnIndex := 0
	if column != "" {
		columnIndex, err = sheet.ColumnIndex(column)
		if err != nil {
			return err
		}
	}

	client := broll.NewClient(os.Getenv("DEEPSEEK_API_KEY"))
	stats := broll.Fill(context.Background(), &values, client.Suggest, broll.Options{
		Column:   columnIndex,
		Force:    force,
		Limit:    limit,
		Sleep:    time.Second,
		Progress: progress,
	})

	if err := sheet.WriteRows(path, values); err != nil {
		return err
	}
	progress("Filled %d rows (%d already had queries, %d failed)\n",
		stats.Filled, stats.Skipped, len(stats.Errors))
	for _, e := range stats.Errors {
		progress("  %s\n", e)
	}
	return writeErrorSidecar(filepath.Join(ctx.DataDir, "broll_errors.txt"), stats.Errors)
}

func runVideos(projectName, sheetName string, progress progressFunc) error {
	if sheetName == "" {
		sheetName = links.SheetYoutube
	}
	ctx, _, values, err := loadWorksheet(projectName, sheetName)
	if err != nil {
		return err
	}

	progress("Checking yt-dlp installation...\n")
	if err := videos.Install(context.Background()); err != nil {
		return fmt.Errorf("installing yt-dlp: %v", err)
	}

	stats := videos.Run(context.Background(), videos.YTDLP(), values, ctx.VideoDir, videos.Options{
		Progress: progress,
	})
	progress("Downloaded %d clips (%d already present, %d failed)\n",
		stats.Downloaded, stats.Skipped, len(stats.Errors))
	for _, e := range stats.Errors {
		progress("  %s\n", e)
	}
	return writeErrorSidecar(filepath.Join(ctx.VideoDir, "download_errors.txt"), stats.Errors)
}

func runImages(projectName, sheetName string, progress progressFunc) error {
	if sheetName == "" {
		sheetName = links.SheetImages
	}
	ctx, path, values, err := loadWorksheet(projectName, sheetName)
	if err != nil {
		return err
	}

	stats := images.Run(context.Background(), images.NewClient(), &values, ctx.ImageDir, images.Options{
		Sleep:    500 * time.Millisecond,
		Progress: progress,
	})
	if err := sheet.WriteRows(path, values); err != nil {
		return err
	}
	progress("Downloaded %d images (%d already present, %d failed)\n",
		stats.Downloaded, stats.Skipped, len(stats.Errors))
	for _, e := range stats.Errors {
		progress("  %s\n", e)
	}
	return writeErrorSidecar(filepath.Join(ctx.ImageDir, "download_errors.txt"), stats.Errors)
}

func runFootage(projectName, sheetName string, headless bool, wait time.Duration, progress progressFunc) error {
	if sheetName == "" {
		sheetName = links.SheetFootage
	}
	ctx, path, values, err := loadWorksheet(projectName, sheetName)
	if err != nil {
		return err
	}

	incoming := filepath.Join(ctx.StockDir, ".incoming")
	session, err := browser.NewSession(browser.Options{
		Headless:    headless,
		DownloadDir: incoming,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	grab := footage.BrowserGrabber(session, incoming, wait)
	stats := footage.Run(context.Background(), grab, &values, ctx.StockDir, footage.Options{
		Progress: progress,
	})
	if err := sheet.WriteRows(path, values); err != nil {
		return err
	}
	progress("Grabbed %d assets (%d already present, %d failed)\n",
		stats.Downloaded, stats.Skipped, len(stats.Errors))
	for _, e := range stats.Errors {
		progress("  %s\n", e)
	}
	return writeErrorSidecar(filepath.Join(ctx.StockDir, "download_errors.txt"), stats.Errors)
}

func runRename(projectName, sheetName, dir string, minScore int, progress progressFunc) (*match.Summary, error) {
	ctx, _, values, err := loadWorksheet(projectName, sheetName)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		dir = ctx.StockDir
	}

	rows := sheet.MatchRows(values)
	if len(rows) == 0 {
		return nil, fmt.Errorf("worksheet has no rows with match text in column C")
	}

	reg, err := match.NewRegistry(dir)
	if err != nil {
		return nil, err
	}
	progress("Matching %d rows against %d files in %s\n", len(rows), reg.Len(), dir)

	results := match.ResolveRenames(rows, reg, minScore)
	for _, r := range results {
		switch r.Kind {
		case match.KindRenamed:
			progress("[OK] %d: %s -> %s\n", r.Row.Number, filepath.Base(r.OldPath), filepath.Base(r.NewPath))
		case match.KindUnchanged:
			progress("[SKIP] %d: %s\n", r.Row.Number, filepath.Base(r.OldPath))
		default:
			progress("[WARN] %d: %s\n", r.Row.Number, r.Reason)
		}
	}

	summary := match.SummarizeResults(results)
	if err := summary.WriteLog(filepath.Join(dir, "rename_errors.txt")); err != nil {
		return nil, err
	}
	return summary, nil
}

func runPlaceholders(projectName, sheetName, transcriptPath, column string, minScore, timebase int, progress progressFunc) (*match.Summary, error) {
	ctx, _, values, err := loadWorksheet(projectName, sheetName)
	if err != nil {
		return nil, err
	}
	if transcriptPath == "" {
		transcriptPath = filepath.Join(ctx.DataDir, "transcript.json")
	}

	segments, err := transcript.LoadFile(transcriptPath)
	if err != nil {
		return nil, err
	}
	rows := sheet.ContentRows(values)
	if len(rows) == 0 {
		return nil, fmt.Errorf("worksheet has no content rows")
	}
	progress("Aligning %d rows against %d transcript segments\n", len(rows), len(segments))

	xmlPath := filepath.Join(ctx.PlaceholderDir, "placeholders.xml")
	placements, err := placeholders.Build(rows, segments, ctx.PlaceholderDir, xmlPath, placeholders.Options{
		MinScore: minScore,
		Timebase: timebase,
		Column:   column,
		Sequence: ctx.Meta.Title,
		Progress: progress,
	})
	if err != nil {
		return nil, err
	}
	progress("Timeline written to %s\n", xmlPath)

	summary := match.SummarizePlacements(placements)
	if err := summary.WriteLog(filepath.Join(ctx.PlaceholderDir, "placeholder_warnings.txt")); err != nil {
		return nil, err
	}
	return summary, nil
}

func runErrorsReport(projectName string, progress progressFunc) error {
	ctx, err := project.Resolve(projectName)
	if err != nil {
		return err
	}

	sidecars := []string{
		filepath.Join(ctx.DataDir, "titles_errors.txt"),
		filepath.Join(ctx.DataDir, "broll_errors.txt"),
		filepath.Join(ctx.VideoDir, "download_errors.txt"),
		filepath.Join(ctx.ImageDir, "download_errors.txt"),
		filepath.Join(ctx.StockDir, "download_errors.txt"),
		filepath.Join(ctx.StockDir, "rename_errors.txt"),
		filepath.Join(ctx.PlaceholderDir, "placeholder_warnings.txt"),
	}

	var entries []report.Entry
	for _, sidecar := range sidecars {
		parsed, err := report.ParseSidecar(sidecar)
		if err != nil {
			return err
		}
		if len(parsed) > 0 {
			progress("[OK] %s: %d problems\n", filepath.Base(filepath.Dir(sidecar))+"/"+filepath.Base(sidecar), len(parsed))
		}
		entries = append(entries, parsed...)
	}

	grids := make(map[string][][]string)
	for _, name := range []string{links.SheetYoutube, links.SheetImages, links.SheetFootage, links.SheetOther} {
		path, err := ctx.CSVPath(name)
		if err != nil {
			continue
		}
		if values, err := sheet.ReadRows(path); err == nil && len(values) > 0 {
			grids[name] = values
		}
	}
	report.AttachURLs(entries, grids)

	out := filepath.Join(ctx.DataDir, "errors_report.txt")
	if err := report.Write(out, entries); err != nil {
		return err
	}
	if len(entries) == 0 {
		progress("No problems recorded; removed any stale report.\n")
	} else {
		progress("Collected %d problems into %s\n", len(entries), out)
	}
	return nil
}

func runOverlay(projectName, sheetName string, progress progressFunc) error {
	if sheetName == "" {
		sheetName = links.SheetYoutube
	}
	ctx, _, values, err := loadWorksheet(projectName, sheetName)
	if err != nil {
		return err
	}

	stats := overlay.Run(values, ctx.ChannelDir, overlay.Options{Progress: progress})
	progress("Rendered %d name plates (%d already present, %d failed)\n",
		stats.Rendered, stats.Skipped, len(stats.Errors))
	for _, e := range stats.Errors {
		progress("  %s\n", e)
	}
	return nil
}
