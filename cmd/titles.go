package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	titlesSheet string
	titlesForce bool
	titlesSleep time.Duration
)

var titlesCmd = &cobra.Command{
	Use:   "titles",
	Short: "Fill in video titles and channel names for routed links",
	RunE:  runTitlesCommand,
}

func init() {
	titlesCmd.Flags().StringVarP(&titlesSheet, "sheet", "s", "", "links worksheet to enrich (default 1_Youtube)")
	titlesCmd.Flags().BoolVarP(&titlesForce, "force", "f", false, "refetch links that already have a title")
	titlesCmd.Flags().DurationVar(&titlesSleep, "sleep", 500*time.Millisecond, "pause between fetches")
}

func runTitlesCommand(cmd *cobra.Command, args []string) error {
	return runTitles(projectName, titlesSheet, titlesForce, titlesSleep, stdoutProgress)
}
