package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"stagehand/project"
)

var projectSheetID string

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Create and list project folders",
}

var projectInitCmd = &cobra.Command{
	Use:   "init <title>",
	Short: "Create the standard project layout for a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectInitCommand,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known projects",
	RunE:  runProjectListCommand,
}

func init() {
	projectCmd.AddCommand(projectInitCmd)
	projectCmd.AddCommand(projectListCmd)

	projectInitCmd.Flags().StringVar(&projectSheetID, "sheet-id", "", "spreadsheet id recorded in the project meta")
}

func runProjectInitCommand(cmd *cobra.Command, args []string) error {
	ctx, err := project.Init(args[0], projectSheetID)
	if err != nil {
		return fmt.Errorf("creating project: %v", err)
	}
	fmt.Printf("Created project at %s\n", ctx.Root)
	fmt.Println("Export the worksheets as CSV and cache them with 'stagehand sheet import'.")
	return nil
}

func runProjectListCommand(cmd *cobra.Command, args []string) error {
	known := project.Known()
	if len(known) == 0 {
		fmt.Println("No projects yet. Create one with 'stagehand project init <title>'.")
		return nil
	}
	names := make([]string, 0, len(known))
	for name := range known {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s\t%s\n", name, known[name])
	}
	return nil
}
