package cmd

import (
	"github.com/spf13/cobra"
)

var (
	brollSheet  string
	brollColumn string
	brollLimit  int
	brollForce  bool
)

var brollCmd = &cobra.Command{
	Use:   "broll",
	Short: "Suggest stock footage queries for each voiceover row",
	Long: `Sends each voiceover fragment to the chat completion API and writes the
suggested stock footage search queries next to it. Needs DEEPSEEK_API_KEY.`,
	RunE: runBrollCommand,
}

func init() {
	brollCmd.Flags().StringVarP(&brollSheet, "sheet", "s", "", "content worksheet (default: the project's default sheet)")
	brollCmd.Flags().StringVarP(&brollColumn, "column", "c", "E", "column that receives the queries")
	brollCmd.Flags().IntVarP(&brollLimit, "limit", "l", 0, "stop after this many fresh rows (0 = all)")
	brollCmd.Flags().BoolVarP(&brollForce, "force", "f", false, "regenerate rows that already have queries")
}

func runBrollCommand(cmd *cobra.Command, args []string) error {
	return runBroll(projectName, brollSheet, brollColumn, brollLimit, brollForce, stdoutProgress)
}
