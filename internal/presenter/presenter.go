package presenter

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/yt-summarizer/internal/logger"
)

// PanelHeader is the title of the summary panel.
const PanelHeader = "📄 스크립트 요약"

const (
	defaultFadeInDelay = 10 * time.Millisecond
	defaultDisplayTime = 3 * time.Second
	defaultFadeTime    = 500 * time.Millisecond
)

var reLineBreak = regexp.MustCompile(`<br\s*/?>`)

// FormatSummary turns <br>, <br/> and <br /> into newlines. The result is
// inserted as plain text, so any other markup stays literal.
func FormatSummary(summary string) string {
	return reLineBreak.ReplaceAllString(summary, "\n")
}

// Presenter owns the single notification and the single summary panel of a
// page. Showing either one first removes the previous instance.
type Presenter struct {
	surface Surface
	logger  logger.Logger

	fadeInDelay time.Duration
	displayTime time.Duration
	fadeTime    time.Duration

	mu           sync.Mutex
	notification string
	panel        string
}

// Option customises a Presenter.
type Option func(*Presenter)

// WithTimings overrides the notification animation timings.
func WithTimings(fadeInDelay, displayTime, fadeTime time.Duration) Option {
	return func(p *Presenter) {
		p.fadeInDelay = fadeInDelay
		p.displayTime = displayTime
		p.fadeTime = fadeTime
	}
}

func New(surface Surface, log logger.Logger, opts ...Option) *Presenter {
	p := &Presenter{
		surface:     surface,
		logger:      log,
		fadeInDelay: defaultFadeInDelay,
		displayTime: defaultDisplayTime,
		fadeTime:    defaultFadeTime,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Notify replaces the current notification. The new one fades in, stays for
// the display time, fades out and removes itself.
func (p *Presenter) Notify(ctx context.Context, message string, severity Severity) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.notification != "" {
		if err := p.surface.Unmount(ctx, p.notification); err != nil {
			return fmt.Errorf("remove notification: %w", err)
		}
		p.notification = ""
	}

	id := "yts-notification-" + uuid.NewString()
	if err := p.surface.MountNotification(ctx, id, message, severity.Color()); err != nil {
		return fmt.Errorf("show notification: %w", err)
	}
	p.notification = id
	p.logger.Debug(ctx, "Notification [%s]: %s", severity, message)

	// Timers outlive the invocation that created them.
	bg := context.WithoutCancel(ctx)
	time.AfterFunc(p.fadeInDelay, func() {
		p.whileCurrent(id, func() error { return p.surface.SetOpacity(bg, id, 1) })
	})
	time.AfterFunc(p.displayTime, func() {
		p.whileCurrent(id, func() error { return p.surface.SetOpacity(bg, id, 0) })
		time.AfterFunc(p.fadeTime, func() {
			p.whileCurrent(id, func() error {
				p.notification = ""
				return p.surface.Unmount(bg, id)
			})
		})
	})

	return nil
}

// whileCurrent runs fn if id is still the live notification.
func (p *Presenter) whileCurrent(id string, fn func() error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.notification != id {
		return
	}
	if err := fn(); err != nil {
		p.logger.Debug(context.Background(), "Notification %s update failed: %v", id, err)
	}
}

// ShowPanel replaces the summary panel. The panel stays until it is closed
// or replaced.
func (p *Presenter) ShowPanel(ctx context.Context, summary string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.closePanelLocked(ctx); err != nil {
		return err
	}

	id := "yts-panel-" + uuid.NewString()
	if err := p.surface.MountPanel(ctx, id, PanelHeader, FormatSummary(summary)); err != nil {
		return fmt.Errorf("show panel: %w", err)
	}
	p.panel = id
	return nil
}

// ClosePanel removes the summary panel if one is shown.
func (p *Presenter) ClosePanel(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closePanelLocked(ctx)
}

func (p *Presenter) closePanelLocked(ctx context.Context) error {
	if p.panel == "" {
		return nil
	}
	if err := p.surface.Unmount(ctx, p.panel); err != nil {
		return fmt.Errorf("remove panel: %w", err)
	}
	p.panel = ""
	return nil
}
