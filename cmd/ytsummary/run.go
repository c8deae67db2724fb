package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nguyentantai21042004/yt-summarizer/internal/credential"
	"github.com/nguyentantai21042004/yt-summarizer/internal/page"
	"github.com/nguyentantai21042004/yt-summarizer/internal/presenter"
	"github.com/nguyentantai21042004/yt-summarizer/internal/summarizer"
	"github.com/nguyentantai21042004/yt-summarizer/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	runURL            string
	runExport         string
	runConsole        bool
	runTerminalPrompt bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Summarize one video and exit",
	Long: `Summarizes the video at --url, or the first open video tab when no url
is given, and prints the summary.`,
	RunE: runOnce,
}

func init() {
	runCmd.Flags().StringVar(&runURL, "url", "", "Video URL; opened in a new tab when no tab shows it")
	runCmd.Flags().StringVar(&runExport, "export", "", "Also write the summary and transcript to this .docx file")
	runCmd.Flags().BoolVar(&runConsole, "console", false, "Show notifications and the summary on stdout instead of in the page")
	runCmd.Flags().BoolVar(&runTerminalPrompt, "terminal-prompt", false, "Ask for a missing API key on the terminal instead of in the page")
}

func runOnce(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	log := newLogger(cfg, os.Stderr)

	browser, err := page.NewBrowser(ctx, cfg.Browser, cfg.Expander.PollInterval, log)
	if err != nil {
		return fmt.Errorf("connect browser: %w", err)
	}
	defer browser.Close()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open credential store: %w", err)
	}
	defer closeStore()

	factory := newTabFactory(browser, store, log)
	if runConsole {
		console := presenter.NewConsoleSurface(os.Stdout)
		factory.surface = func(*page.Tab) presenter.Surface { return console }
	}
	if runTerminalPrompt {
		factory.prompter = func(*page.Tab) credential.Prompter {
			return credential.NewTerminalPrompter(os.Stdin, os.Stderr)
		}
	}

	res, err := workflow.New(cfg, factory, log).Run(ctx, runURL)
	if err != nil {
		return err
	}

	if !runConsole {
		fmt.Println(presenter.FormatSummary(res.Summary))
	}

	if runExport != "" {
		title := "YouTube 스크립트 요약"
		if res.URL != "" {
			title += " - " + res.URL
		}
		if err := summarizer.ExportDocx(title, res.Summary, res.Transcript, runExport); err != nil {
			return fmt.Errorf("export summary: %w", err)
		}
		log.Info(ctx, "Summary exported to %s", runExport)
	}

	return nil
}
