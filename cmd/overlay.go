package cmd

import (
	"github.com/spf13/cobra"
)

var overlaySheet string

var overlayCmd = &cobra.Command{
	Use:   "overlay",
	Short: "Render transparent channel-name plates into 05_channel-name",
	RunE:  runOverlayCommand,
}

func init() {
	overlayCmd.Flags().StringVarP(&overlaySheet, "sheet", "s", "", "enriched links worksheet (default 1_Youtube)")
}

func runOverlayCommand(cmd *cobra.Command, args []string) error {
	return runOverlay(projectName, overlaySheet, stdoutProgress)
}
