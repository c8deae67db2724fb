package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/yt-summarizer/internal/config"
	"github.com/nguyentantai21042004/yt-summarizer/internal/credential"
	"github.com/nguyentantai21042004/yt-summarizer/internal/expander"
	"github.com/nguyentantai21042004/yt-summarizer/internal/logger"
	"github.com/nguyentantai21042004/yt-summarizer/internal/presenter"
	"github.com/nguyentantai21042004/yt-summarizer/internal/summarizer"
	"github.com/nguyentantai21042004/yt-summarizer/internal/transcript"
)

// ErrBusy is returned when an invocation is already running.
var ErrBusy = errors.New("a summary is already in progress")

type Expander interface {
	Expand(ctx context.Context) error
}

type Extractor interface {
	Extract(ctx context.Context) (string, error)
}

type Resolver interface {
	Resolve(ctx context.Context) (string, error)
}

type Presenter interface {
	Notify(ctx context.Context, message string, severity presenter.Severity) error
	ShowPanel(ctx context.Context, summary string) error
	ClosePanel(ctx context.Context) error
}

// Components are the collaborators of one invocation, bound to one page.
type Components struct {
	Expander   Expander
	Extractor  Extractor
	Resolver   Resolver
	Summarizer summarizer.Summarizer
	Presenter  Presenter
}

// Factory binds Components to the page showing url.
type Factory interface {
	Components(ctx context.Context, cfg *config.Config, url string) (*Components, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(ctx context.Context, cfg *config.Config, url string) (*Components, error)

func (f FactoryFunc) Components(ctx context.Context, cfg *config.Config, url string) (*Components, error) {
	return f(ctx, cfg, url)
}

// Result is the outcome of a successful invocation.
type Result struct {
	ID         string
	URL        string
	Transcript string
	Summary    string
	Duration   time.Duration
}

// Runner executes invocations one at a time.
type Runner struct {
	factory Factory
	logger  logger.Logger
	sem     *semaphore
	cfg     atomic.Pointer[config.Config]
	wg      sync.WaitGroup
}

func New(cfg *config.Config, factory Factory, log logger.Logger) *Runner {
	r := &Runner{
		factory: factory,
		logger:  log,
		sem:     newSemaphore(1),
	}
	r.cfg.Store(cfg)
	return r
}

// Config returns the config used by the next invocation.
func (r *Runner) Config() *config.Config {
	return r.cfg.Load()
}

// SetConfig replaces the config for later invocations. A running one keeps
// the config it started with.
func (r *Runner) SetConfig(cfg *config.Config) {
	r.cfg.Store(cfg)
}

// Run executes one invocation against url and waits for it.
func (r *Runner) Run(ctx context.Context, url string) (*Result, error) {
	if !r.sem.tryAcquire() {
		return nil, ErrBusy
	}
	defer r.sem.release()

	return r.invoke(ctx, url)
}

// Start begins one invocation in the background and returns at once.
func (r *Runner) Start(ctx context.Context, url string) error {
	if !r.sem.tryAcquire() {
		r.logger.Warn(ctx, "Trigger ignored, a summary is already in progress")
		return ErrBusy
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.sem.release()

		if _, err := r.invoke(ctx, url); err != nil {
			r.logger.Warn(ctx, "Invocation halted: %v", err)
		}
	}()
	return nil
}

// Wait blocks until every started invocation has returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) invoke(ctx context.Context, url string) (*Result, error) {
	startTime := time.Now()
	id := uuid.NewString()
	ctx = logger.WithInvocation(ctx, id)
	cfg := r.Config()

	r.logger.Info(ctx, "Starting summary for %s", displayURL(url))

	c, err := r.factory.Components(ctx, cfg, url)
	if err != nil {
		return nil, fmt.Errorf("attach page: %w", err)
	}

	r.notify(ctx, c, MsgLoading, presenter.SeverityInfo)

	// Step 1: Reveal the transcript panel
	err = c.Expander.Expand(ctx)
	switch {
	case errors.Is(err, expander.ErrObserveRootMissing), errors.Is(err, expander.ErrTranscriptButtonTimeout):
		return nil, r.fail(ctx, c, MsgTranscriptButtonMissing, presenter.SeverityWarning, fmt.Errorf("expand: %w", err))
	case err != nil:
		return nil, r.fail(ctx, c, fmt.Sprintf(msgFailedFormat, err), presenter.SeverityError, fmt.Errorf("expand: %w", err))
	}

	// Step 2: Let the transcript render
	if err := sleep(ctx, cfg.Workflow.SettleDelay); err != nil {
		return nil, err
	}

	if err := c.Presenter.ClosePanel(ctx); err != nil {
		r.logger.Warn(ctx, "Failed to remove previous panel: %v", err)
	}
	r.notify(ctx, c, MsgSummarizing, presenter.SeverityInfo)

	// Step 3: Read the transcript
	text, err := c.Extractor.Extract(ctx)
	switch {
	case errors.Is(err, transcript.ErrContainerMissing):
		return nil, r.fail(ctx, c, MsgTranscriptMissing, presenter.SeverityWarning, err)
	case errors.Is(err, transcript.ErrEmptyTranscript):
		return nil, r.fail(ctx, c, MsgTranscriptEmpty, presenter.SeverityWarning, err)
	case err != nil:
		return nil, r.fail(ctx, c, fmt.Sprintf(msgFailedFormat, err), presenter.SeverityError, err)
	}

	// Step 4: Get the API key
	apiKey, err := c.Resolver.Resolve(ctx)
	switch {
	case errors.Is(err, credential.ErrCredentialRequired):
		return nil, r.fail(ctx, c, MsgKeyRequired, presenter.SeverityError, err)
	case errors.Is(err, credential.ErrPromptTimeout):
		return nil, r.fail(ctx, c, MsgKeyTimeout, presenter.SeverityError, err)
	case err != nil:
		return nil, r.fail(ctx, c, fmt.Sprintf(msgFailedFormat, err), presenter.SeverityError, err)
	}

	// Step 5: Summarize and show
	summary, err := c.Summarizer.Summarize(ctx, apiKey, text)
	if err != nil {
		return nil, r.fail(ctx, c, fmt.Sprintf(msgFailedFormat, err), presenter.SeverityError, fmt.Errorf("summarize: %w", err))
	}

	if err := c.Presenter.ShowPanel(ctx, summary); err != nil {
		return nil, r.fail(ctx, c, fmt.Sprintf(msgFailedFormat, err), presenter.SeverityError, err)
	}
	r.notify(ctx, c, MsgDone, presenter.SeveritySuccess)

	duration := time.Since(startTime)
	r.logger.Info(ctx, "Summary completed in %s", duration.Round(time.Millisecond))

	return &Result{
		ID:         id,
		URL:        url,
		Transcript: text,
		Summary:    summary,
		Duration:   duration,
	}, nil
}

// fail reports a terminal step failure to the user and returns err. A
// cancelled invocation is not reported.
func (r *Runner) fail(ctx context.Context, c *Components, message string, severity presenter.Severity, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	r.logger.Warn(ctx, "Step failed: %v", err)
	r.notify(ctx, c, message, severity)
	return err
}

func (r *Runner) notify(ctx context.Context, c *Components, message string, severity presenter.Severity) {
	if err := c.Presenter.Notify(ctx, message, severity); err != nil {
		r.logger.Warn(ctx, "Failed to show notification: %v", err)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func displayURL(url string) string {
	if url == "" {
		return "the active video tab"
	}
	return url
}
