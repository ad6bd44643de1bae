package cmd

import (
	"github.com/spf13/cobra"
)

var errorsCmd = &cobra.Command{
	Use:   "errors",
	Short: "Collect every step's error sidecars into one report",
	Long: `Gathers the error and warning files the pipeline steps leave next to
their output, resolves failed cells back to their URLs, and writes a
single grouped report to 01_data/errors_report.txt.`,
	RunE: runErrorsCommand,
}

func runErrorsCommand(cmd *cobra.Command, args []string) error {
	return runErrorsReport(projectName, stdoutProgress)
}
