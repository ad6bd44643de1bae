package cmd

import (
	"github.com/spf13/cobra"

	"stagehand/match"
)

var (
	renameSheet    string
	renameDir      string
	renameMinScore int
)

var renameCmd = &cobra.Command{
	Use:   "rename",
	Short: "Rename downloaded files to the names the sheet asks for",
	Long: `Matches each sheet row's text in column C against the files in the target
folder and renames the best match to the name in column A. Every file is
claimed at most once; rows that find nothing, collide or fail are listed
and logged to rename_errors.txt next to the files.`,
	RunE: runRenameCommand,
}

func init() {
	renameCmd.Flags().StringVarP(&renameSheet, "sheet", "s", "", "worksheet with target names (default: the project's default sheet)")
	renameCmd.Flags().StringVarP(&renameDir, "dir", "d", "", "folder with the files to rename (default 06_stock)")
	renameCmd.Flags().IntVar(&renameMinScore, "min-score", 90, "fuzzy match threshold")
}

func runRenameCommand(cmd *cobra.Command, args []string) error {
	summary, err := runRename(projectName, renameSheet, renameDir, renameMinScore, stdoutProgress)
	if err != nil {
		return err
	}
	printSummary(summary, []match.Kind{
		match.KindRenamed, match.KindUnchanged, match.KindNotFound,
		match.KindConflict, match.KindError,
	})
	return nil
}
