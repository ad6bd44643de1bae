package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"stagehand/project"
	"stagehand/wizard"
)

var wizardAddr string

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Run the pipeline from a local web page",
	Long: `Starts a local web UI listing every pipeline step with its saved inputs.
Each step runs as a background job whose log the page tails, so the whole
pipeline can be driven without touching the terminal.`,
	RunE: runWizardCommand,
}

func init() {
	wizardCmd.Flags().StringVar(&wizardAddr, "addr", "127.0.0.1:8765", "listen address")
}

func fieldInt(fields map[string]string, name string, fallback int) int {
	if v, err := strconv.Atoi(fields[name]); err == nil {
		return v
	}
	return fallback
}

func fieldBool(fields map[string]string, name string) bool {
	v, _ := strconv.ParseBool(fields[name])
	return v
}

func fieldDuration(fields map[string]string, name string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(fields[name]); err == nil {
		return v
	}
	return fallback
}

func wizardSteps() *wizard.Steps {
	projectField := wizard.Field{Name: "project", Label: "Project", Default: ""}
	sheetField := wizard.Field{Name: "sheet", Label: "Worksheet", Default: ""}

	return wizard.NewSteps(
		wizard.Step{
			ID:          "sheet-import",
			Title:       "1. Cache a worksheet export",
			Description: "Copy a CSV exported from the spreadsheet into 01_data.",
			Fields: []wizard.Field{
				projectField,
				{Name: "csv", Label: "CSV export path"},
				{Name: "name", Label: "Worksheet name"},
			},
			Run: func(_ context.Context, f map[string]string, log func(string)) error {
				return runSheetImport(f["project"], f["csv"], f["name"], logProgress(log))
			},
		},
		wizard.Step{
			ID:          "links",
			Title:       "2. Route links",
			Description: "Split the sheet's URLs into per-category worksheets.",
			Fields:      []wizard.Field{projectField, sheetField},
			Run: func(_ context.Context, f map[string]string, log func(string)) error {
				return runLinksRoute(f["project"], f["sheet"], logProgress(log))
			},
		},
		wizard.Step{
			ID:          "titles",
			Title:       "3. Fetch titles and channels",
			Description: "Fill in video titles and channel names for the routed links.",
			Fields: []wizard.Field{
				projectField,
				{Name: "sheet", Label: "Worksheet", Default: "1_Youtube"},
				{Name: "force", Label: "Refetch filled rows (true/false)", Default: "false"},
			},
			Run: func(_ context.Context, f map[string]string, log func(string)) error {
				return runTitles(f["project"], f["sheet"], fieldBool(f, "force"), 500*time.Millisecond, logProgress(log))
			},
		},
		wizard.Step{
			ID:          "broll",
			Title:       "4. Suggest b-roll queries",
			Description: "Ask the chat completion API for stock search queries per voiceover row.",
			Fields: []wizard.Field{
				projectField, sheetField,
				{Name: "column", Label: "Target column", Default: "E"},
				{Name: "limit", Label: "Row limit (0 = all)", Default: "0"},
			},
			Run: func(_ context.Context, f map[string]string, log func(string)) error {
				return runBroll(f["project"], f["sheet"], f["column"], fieldInt(f, "limit", 0), false, logProgress(log))
			},
		},
		wizard.Step{
			ID:          "videos",
			Title:       "5. Download videos",
			Description: "Download YouTube and Instagram links into 02_video.",
			Fields:      []wizard.Field{projectField, {Name: "sheet", Label: "Worksheet", Default: "1_Youtube"}},
			Run: func(_ context.Context, f map[string]string, log func(string)) error {
				return runVideos(f["project"], f["sheet"], logProgress(log))
			},
		},
		wizard.Step{
			ID:          "images",
			Title:       "6. Download images",
			Description: "Download direct image links into 03_img.",
			Fields:      []wizard.Field{projectField, {Name: "sheet", Label: "Worksheet", Default: "2_Images"}},
			Run: func(_ context.Context, f map[string]string, log func(string)) error {
				return runImages(f["project"], f["sheet"], logProgress(log))
			},
		},
		wizard.Step{
			ID:          "footage",
			Title:       "7. Grab stock footage",
			Description: "Drive a browser over the stock pages and collect the downloads in 06_stock.",
			Fields: []wizard.Field{
				projectField,
				{Name: "sheet", Label: "Worksheet", Default: "3_Footages"},
				{Name: "wait", Label: "Per-download wait", Default: "3m"},
			},
			Run: func(_ context.Context, f map[string]string, log func(string)) error {
				return runFootage(f["project"], f["sheet"], false, fieldDuration(f, "wait", 3*time.Minute), logProgress(log))
			},
		},
		wizard.Step{
			ID:          "rename",
			Title:       "8. Rename files to the sheet",
			Description: "Match files against the sheet and rename each best match once.",
			Fields: []wizard.Field{
				projectField, sheetField,
				{Name: "dir", Label: "Folder (default 06_stock)"},
				{Name: "min_score", Label: "Fuzzy threshold", Default: "90"},
			},
			Run: func(_ context.Context, f map[string]string, log func(string)) error {
				_, err := runRename(f["project"], f["sheet"], f["dir"], fieldInt(f, "min_score", 90), logProgress(log))
				return err
			},
		},
		wizard.Step{
			ID:          "placeholders",
			Title:       "9. Build placeholder timeline",
			Description: "Render storyboard cards and align them with the narration transcript.",
			Fields: []wizard.Field{
				projectField, sheetField,
				{Name: "transcript", Label: "Transcript JSON (default 01_data/transcript.json)"},
				{Name: "column", Label: "Text column", Default: "A"},
				{Name: "min_score", Label: "Alignment threshold", Default: "70"},
			},
			Run: func(_ context.Context, f map[string]string, log func(string)) error {
				_, err := runPlaceholders(f["project"], f["sheet"], f["transcript"], f["column"],
					fieldInt(f, "min_score", 70), 25, logProgress(log))
				return err
			},
		},
		wizard.Step{
			ID:          "overlay",
			Title:       "10. Render channel name plates",
			Description: "One transparent PNG per channel into 05_channel-name.",
			Fields:      []wizard.Field{projectField, {Name: "sheet", Label: "Worksheet", Default: "1_Youtube"}},
			Run: func(_ context.Context, f map[string]string, log func(string)) error {
				return runOverlay(f["project"], f["sheet"], logProgress(log))
			},
		},
		wizard.Step{
			ID:          "errors",
			Title:       "11. Collect error report",
			Description: "Fold every step's error sidecars into 01_data/errors_report.txt.",
			Fields:      []wizard.Field{projectField},
			Run: func(_ context.Context, f map[string]string, log func(string)) error {
				return runErrorsReport(f["project"], logProgress(log))
			},
		},
	)
}

func runWizardCommand(cmd *cobra.Command, args []string) error {
	svc := &wizard.Service{
		Steps:   wizardSteps(),
		Jobs:    wizard.NewManager(),
		State:   wizard.LoadState(filepath.Join(project.BaseDir(), "wizard.toml")),
		Version: "stagehand",
	}
	fmt.Printf("Wizard listening on http://%s\n", wizardAddr)
	return wizard.Serve(svc, wizardAddr)
}
