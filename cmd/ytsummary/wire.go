package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"sync"

	"github.com/nguyentantai21042004/yt-summarizer/internal/config"
	"github.com/nguyentantai21042004/yt-summarizer/internal/credential"
	"github.com/nguyentantai21042004/yt-summarizer/internal/expander"
	"github.com/nguyentantai21042004/yt-summarizer/internal/logger"
	"github.com/nguyentantai21042004/yt-summarizer/internal/page"
	"github.com/nguyentantai21042004/yt-summarizer/internal/presenter"
	"github.com/nguyentantai21042004/yt-summarizer/internal/summarizer"
	"github.com/nguyentantai21042004/yt-summarizer/internal/transcript"
	"github.com/nguyentantai21042004/yt-summarizer/internal/workflow"
)

// loadConfig reads path, falling back to the defaults when it is missing.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func newLogger(cfg *config.Config, w io.Writer) logger.Logger {
	return logger.NewWithFormat(cfg.Logging.Level, cfg.Logging.Format, w)
}

// openStore returns the configured credential store. The keychain falls
// back to SQLite on machines where it cannot be used.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (credential.Store, func(), error) {
	if cfg.Credential.Store == config.StoreKeyring {
		if credential.KeyringAvailable() {
			return credential.NewKeyringStore(), func() {}, nil
		}
		log.Warn(ctx, "OS keychain unavailable, storing the API key in %s", cfg.Credential.SQLitePath)
	}

	store, err := credential.NewSQLiteStore(cfg.Credential.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			log.Warn(ctx, "Failed to close credential store: %v", err)
		}
	}
	return store, closeStore, nil
}

// tabFactory binds workflow components to the tab an invocation targets.
// Presenters are kept per tab so that notifications and panels of one page
// replace each other across invocations.
type tabFactory struct {
	browser  *page.Browser
	store    credential.Store
	logger   logger.Logger
	surface  func(tab *page.Tab) presenter.Surface
	prompter func(tab *page.Tab) credential.Prompter

	mu         sync.Mutex
	presenters map[string]*presenter.Presenter
}

func newTabFactory(b *page.Browser, store credential.Store, log logger.Logger) *tabFactory {
	f := &tabFactory{
		browser: b,
		store:   store,
		logger:  log,
		surface: func(tab *page.Tab) presenter.Surface {
			return presenter.NewDOMSurface(tab)
		},
		prompter: func(tab *page.Tab) credential.Prompter {
			return credential.NewPagePrompter(tab)
		},
		presenters: make(map[string]*presenter.Presenter),
	}
	b.OnTabClosed(f.forget)
	return f
}

func (f *tabFactory) Components(ctx context.Context, cfg *config.Config, url string) (*workflow.Components, error) {
	tab, err := f.browser.Attach(ctx, url)
	if err != nil {
		return nil, err
	}

	return &workflow.Components{
		Expander:   expander.New(tab, cfg.Selectors, cfg.Expander, f.logger),
		Extractor:  transcript.New(tab, cfg.Selectors, f.logger),
		Resolver:   credential.NewResolver(f.store, f.prompter(tab), cfg.Credential.PromptTimeout, f.logger),
		Summarizer: summarizer.New(cfg.Gemini, f.logger),
		Presenter:  f.presenter(tab),
	}, nil
}

func (f *tabFactory) presenter(tab *page.Tab) *presenter.Presenter {
	f.mu.Lock()
	defer f.mu.Unlock()

	if p, ok := f.presenters[tab.ID()]; ok {
		return p
	}
	p := presenter.New(f.surface(tab), f.logger)
	f.presenters[tab.ID()] = p
	return p
}

// forget drops the presenter of a closed tab.
func (f *tabFactory) forget(tabID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.presenters, tabID)
}
