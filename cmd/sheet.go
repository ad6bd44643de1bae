package cmd

import (
	"github.com/spf13/cobra"
)

var sheetImportName string

var sheetCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Cache spreadsheet exports inside the project",
}

var sheetImportCmd = &cobra.Command{
	Use:   "import <export.csv>",
	Short: "Copy a worksheet CSV export into 01_data",
	Long: `Copies a CSV exported from the production spreadsheet into the project's
01_data folder and records which worksheet it backs. The worksheet name
defaults to the file name without extension.`,
	Args: cobra.ExactArgs(1),
	RunE: runSheetImportCommand,
}

func init() {
	sheetCmd.AddCommand(sheetImportCmd)
	sheetImportCmd.Flags().StringVarP(&sheetImportName, "name", "n", "", "worksheet name to register the CSV under")
}

func runSheetImportCommand(cmd *cobra.Command, args []string) error {
	return runSheetImport(projectName, args[0], sheetImportName, stdoutProgress)
}
