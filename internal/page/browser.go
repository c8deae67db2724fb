package page

import (
	"context"
	"errors"
	"fmt"
	neturl "net/url"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/nguyentantai21042004/yt-summarizer/internal/config"
	"github.com/nguyentantai21042004/yt-summarizer/internal/logger"
)

// watchPathMarker identifies a video page among open tabs.
const watchPathMarker = "youtube.com/watch"

var (
	// ErrNotFound is returned when a selector matches nothing.
	ErrNotFound = errors.New("element not found")
	// ErrNoVideoTab is returned when no URL is given and no open tab shows a video.
	ErrNoVideoTab = errors.New("no video tab open")
)

// Browser owns the CDP connection and the tabs attached through it.
type Browser struct {
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	timeout       time.Duration
	pollInterval  time.Duration
	logger        logger.Logger

	mu       sync.Mutex
	tabs     map[target.ID]*Tab
	onClosed []func(id string)
}

// NewBrowser connects to the Chrome at cfg.DebugURL, or launches one when
// DebugURL is empty.
func NewBrowser(ctx context.Context, cfg config.BrowserConfig, pollInterval time.Duration, log logger.Logger) (*Browser, error) {
	var (
		allocCtx    context.Context
		allocCancel context.CancelFunc
	)

	if cfg.DebugURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.DebugURL)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", cfg.Headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
		allocCtx, allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// The first Run binds the browser to the context it is given, so it must
	// be browserCtx itself and not a shorter-lived child.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, wrapBrowserError(err, "connect")
	}

	log.Info(ctx, "Browser connected (remote: %t)", cfg.DebugURL != "")

	return &Browser{
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		timeout:       cfg.Timeout,
		pollInterval:  pollInterval,
		logger:        log,
		tabs:          make(map[target.ID]*Tab),
	}, nil
}

// Attach returns the tab showing url. With an empty url the first open
// video tab is used. A url that no tab shows is opened in a new tab.
func (b *Browser) Attach(ctx context.Context, url string) (*Tab, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	targets, err := chromedp.Targets(b.browserCtx)
	if err != nil {
		return nil, wrapBrowserError(err, "list targets")
	}
	b.forgetClosed(ctx, targets)

	if info := pickTarget(targets, url); info != nil {
		if tab, ok := b.tabs[info.TargetID]; ok {
			return tab, nil
		}

		tabCtx, cancel := chromedp.NewContext(b.browserCtx, chromedp.WithTargetID(info.TargetID))
		tab := b.newTab(tabCtx, cancel, info.TargetID)
		if err := chromedp.Run(tabCtx); err != nil {
			cancel()
			return nil, wrapBrowserError(err, "attach")
		}

		b.logger.Info(ctx, "Attached to tab %s (%s)", info.TargetID, info.URL)
		b.tabs[info.TargetID] = tab
		return tab, nil
	}

	if url == "" {
		return nil, ErrNoVideoTab
	}

	tabCtx, cancel := chromedp.NewContext(b.browserCtx)
	tab := b.newTab(tabCtx, cancel, "")
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, wrapBrowserError(err, "open tab")
	}
	if err := tab.run(ctx, b.timeout, chromedp.Navigate(url), chromedp.WaitReady("body")); err != nil {
		cancel()
		return nil, wrapBrowserError(err, "navigate")
	}

	tab.id = chromedp.FromContext(tabCtx).Target.TargetID
	b.logger.Info(ctx, "Opened %s in tab %s", url, tab.id)
	b.tabs[tab.id] = tab
	return tab, nil
}

// Close detaches from every tab and releases the browser connection. A
// launched browser is shut down; a remote one keeps running.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, tab := range b.tabs {
		tab.cancel()
		delete(b.tabs, id)
	}
	b.browserCancel()
	b.allocCancel()
}

// OnTabClosed registers fn to be called with the id of every cached tab
// found closed.
func (b *Browser) OnTabClosed(fn func(id string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onClosed = append(b.onClosed, fn)
}

// forgetClosed drops cached tabs whose target is gone. b.mu must be held.
func (b *Browser) forgetClosed(ctx context.Context, targets []*target.Info) {
	for _, id := range staleTabs(b.tabs, targets) {
		b.tabs[id].cancel()
		delete(b.tabs, id)
		b.logger.Debug(ctx, "Tab %s closed", id)
		for _, fn := range b.onClosed {
			fn(string(id))
		}
	}
}

func (b *Browser) newTab(ctx context.Context, cancel context.CancelFunc, id target.ID) *Tab {
	t := &Tab{
		id:           id,
		ctx:          ctx,
		cancel:       cancel,
		timeout:      b.timeout,
		pollInterval: b.pollInterval,
		logger:       b.logger,
	}
	t.eval = t.evaluateCDP
	t.dismissDialog = t.dismissOpenDialog
	return t
}

func staleTabs(tabs map[target.ID]*Tab, targets []*target.Info) []target.ID {
	open := make(map[target.ID]bool, len(targets))
	for _, t := range targets {
		open[t.TargetID] = true
	}

	var stale []target.ID
	for id := range tabs {
		if !open[id] {
			stale = append(stale, id)
		}
	}
	return stale
}

func pickTarget(targets []*target.Info, url string) *target.Info {
	want := videoID(url)
	for _, t := range targets {
		if t.Type != "page" {
			continue
		}
		if url != "" && (t.URL == url || (want != "" && videoID(t.URL) == want)) {
			return t
		}
		if url == "" && strings.Contains(t.URL, watchPathMarker) {
			return t
		}
	}
	return nil
}

// videoID returns the YouTube video id of raw, or "" when raw is not a
// video URL. Other query parameters such as t= are ignored.
func videoID(raw string) string {
	u, err := neturl.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	switch {
	case host == "youtu.be":
		return strings.Trim(u.Path, "/")
	case strings.HasSuffix(host, "youtube.com") && u.Path == "/watch":
		return u.Query().Get("v")
	}
	return ""
}

var browserErrorHints = map[string]string{
	"context deadline":   "Page did not answer in time. Check that the tab is responsive",
	"context canceled":   "Browser session closed",
	"connection refused": "Start Chrome with --remote-debugging-port or clear browser.debug_url",
	"no such target":     "The tab was closed. Trigger again from an open video page",
}

func wrapBrowserError(err error, action string) error {
	if err == nil {
		return nil
	}
	errStr := strings.ToLower(err.Error())
	for pattern, hint := range browserErrorHints {
		if strings.Contains(errStr, pattern) {
			return fmt.Errorf("%s failed: %w (hint: %s)", action, err, hint)
		}
	}
	return fmt.Errorf("%s failed: %w", action, err)
}
