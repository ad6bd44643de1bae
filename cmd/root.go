package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var projectName string

var rootCmd = &cobra.Command{
	Use:   "stagehand",
	Short: "A toolbox for documentary video production chores",
	Long: `Stagehand automates the repetitive half of assembling a documentary edit:
it caches the production spreadsheet, routes its links, downloads sources,
renames raw footage to the names the sheet asks for, and lays storyboard
placeholders onto an importable timeline.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectName, "project", "p", "",
		"project folder name or path (default: the last project used)")

	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(sheetCmd)
	rootCmd.AddCommand(linksCmd)
	rootCmd.AddCommand(titlesCmd)
	rootCmd.AddCommand(brollCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(placeholdersCmd)
	rootCmd.AddCommand(overlayCmd)
	rootCmd.AddCommand(errorsCmd)
	rootCmd.AddCommand(wizardCmd)
}
