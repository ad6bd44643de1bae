package cmd

import (
	"github.com/spf13/cobra"

	"stagehand/match"
)

var (
	placeholdersSheet      string
	placeholdersTranscript string
	placeholdersColumn     string
	placeholdersMinScore   int
	placeholdersTimebase   int
)

var placeholdersCmd = &cobra.Command{
	Use:   "placeholders",
	Short: "Render storyboard cards and place them on a timeline",
	Long: `Renders one placeholder still per content row and aligns each row's text
against the narration transcript. Aligned rows land on an importable
timeline at the moment their text is spoken; the rest get a card anyway
and are listed for manual placement.`,
	RunE: runPlaceholdersCommand,
}

func init() {
	placeholdersCmd.Flags().StringVarP(&placeholdersSheet, "sheet", "s", "", "content worksheet (default: the project's default sheet)")
	placeholdersCmd.Flags().StringVarP(&placeholdersTranscript, "transcript", "t", "", "transcript JSON (default 01_data/transcript.json)")
	placeholdersCmd.Flags().StringVarP(&placeholdersColumn, "column", "c", "A", "content column used as the card text")
	placeholdersCmd.Flags().IntVar(&placeholdersMinScore, "min-score", 70, "alignment threshold; lower scores are placed but flagged")
	placeholdersCmd.Flags().IntVar(&placeholdersTimebase, "timebase", 25, "timeline frame rate")
}

func runPlaceholdersCommand(cmd *cobra.Command, args []string) error {
	summary, err := runPlaceholders(projectName, placeholdersSheet, placeholdersTranscript,
		placeholdersColumn, placeholdersMinScore, placeholdersTimebase, stdoutProgress)
	if err != nil {
		return err
	}
	printSummary(summary, []match.Kind{
		match.KindAligned, match.KindWarning, match.KindNotFound,
	})
	return nil
}
