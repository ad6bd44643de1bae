package cmd

import (
	"github.com/spf13/cobra"
)

var linksSheet string

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Route the sheet's links into per-category worksheets",
	Long: `Scans every cell of the content worksheet for URLs and splits them into
1_Youtube, 2_Images, 3_Footages and 4_Other, each with a back-reference to
the cell the link came from. The download steps read these worksheets.`,
	RunE: runLinksCommand,
}

func init() {
	linksCmd.Flags().StringVarP(&linksSheet, "sheet", "s", "", "source worksheet (default: the project's default sheet)")
}

func runLinksCommand(cmd *cobra.Command, args []string) error {
	return runLinksRoute(projectName, linksSheet, stdoutProgress)
}
