package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "ytsummary",
	Short:         "Summarize YouTube transcripts with Gemini",
	Long:          `Reads the transcript of a YouTube video from a Chrome tab, summarizes it with Gemini and shows the summary next to the video.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&configPath, "config", "config.yaml",
		"Path to the YAML config file (defaults apply when it does not exist)",
	)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(keyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
