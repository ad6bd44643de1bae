package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	downloadSheet   string
	footageHeadless bool
	footageWait     time.Duration
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the routed links into the project folders",
}

var downloadVideosCmd = &cobra.Command{
	Use:   "videos",
	Short: "Download YouTube and Instagram links into 02_video",
	RunE:  runDownloadVideosCommand,
}

var downloadImagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Download direct image links into 03_img",
	RunE:  runDownloadImagesCommand,
}

var downloadFootageCmd = &cobra.Command{
	Use:   "footage",
	Short: "Grab stock footage pages into 06_stock through a browser",
	Long: `Opens each stock footage page in a driven browser, clicks its download
control and moves the finished file into 06_stock. Run without --headless
the first time so you can log in to the site.`,
	RunE: runDownloadFootageCommand,
}

func init() {
	downloadCmd.AddCommand(downloadVideosCmd)
	downloadCmd.AddCommand(downloadImagesCmd)
	downloadCmd.AddCommand(downloadFootageCmd)

	downloadCmd.PersistentFlags().StringVarP(&downloadSheet, "sheet", "s", "", "links worksheet to read (default: the category's own sheet)")
	downloadFootageCmd.Flags().BoolVar(&footageHeadless, "headless", false, "run the browser without a window")
	downloadFootageCmd.Flags().DurationVar(&footageWait, "wait", 3*time.Minute, "how long to wait for each download to finish")
}

func runDownloadVideosCommand(cmd *cobra.Command, args []string) error {
	return runVideos(projectName, downloadSheet, stdoutProgress)
}

func runDownloadImagesCommand(cmd *cobra.Command, args []string) error {
	return runImages(projectName, downloadSheet, stdoutProgress)
}

func runDownloadFootageCommand(cmd *cobra.Command, args []string) error {
	return runFootage(projectName, downloadSheet, footageHeadless, footageWait, stdoutProgress)
}
