package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nguyentantai21042004/yt-summarizer/internal/config"
	"github.com/nguyentantai21042004/yt-summarizer/internal/logger"
	"github.com/nguyentantai21042004/yt-summarizer/internal/page"
	"github.com/nguyentantai21042004/yt-summarizer/internal/trigger"
	"github.com/nguyentantai21042004/yt-summarizer/internal/watcher"
	"github.com/nguyentantai21042004/yt-summarizer/internal/workflow"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Wait for triggers from the browser extension",
	Long: `Connects to Chrome and listens for {"action":"startSummary"} triggers
on a local websocket and HTTP endpoint. Each trigger summarizes the video
in the active tab, one at a time.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	log := newLogger(cfg, os.Stderr)
	log.Info(ctx, "========================================")
	log.Info(ctx, "YouTube Transcript Summarizer")
	log.Info(ctx, "========================================")
	log.Info(ctx, "Model: %s", cfg.Gemini.Model)
	log.Info(ctx, "Credential store: %s", cfg.Credential.Store)

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

	runner := workflow.New(cfg, newTabFactory(browser, store, log), log)
	srv := trigger.New(cfg.Server.Addr, runner, workflow.ErrBusy, log)

	w, err := watcher.New(configPath, reloadConfig(runner, log), log, 0)
	if err != nil {
		log.Warn(ctx, "Config hot reload disabled: %v", err)
	} else {
		defer w.Stop()
		go func() {
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error(ctx, "Config watcher error: %v", err)
			}
		}()
	}

	log.Info(ctx, "Ready. Press Ctrl+C to stop")

	err = srv.ListenAndServe(ctx)

	log.Info(ctx, "Waiting for the running summary to finish...")
	runner.Wait()
	log.Info(ctx, "Stopped")
	return err
}

// reloadConfig swaps in the config at path for later invocations. Browser,
// server and credential store settings apply on restart only.
func reloadConfig(runner *workflow.Runner, log logger.Logger) watcher.EventHandler {
	return func(ctx context.Context, path string) error {
		cfg, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("reload config, keeping the previous one: %w", err)
		}
		runner.SetConfig(cfg)
		log.Info(ctx, "Config reloaded from %s", path)
		return nil
	}
}
