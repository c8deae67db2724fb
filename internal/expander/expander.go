package expander

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/yt-summarizer/internal/config"
	"github.com/nguyentantai21042004/yt-summarizer/internal/logger"
	"github.com/nguyentantai21042004/yt-summarizer/internal/page"
)

var (
	// ErrObserveRootMissing means the description was expanded but the
	// container to watch for the transcript button does not exist.
	ErrObserveRootMissing = errors.New("description container not found")
	// ErrTranscriptButtonTimeout means the transcript button did not appear
	// within the wait timeout.
	ErrTranscriptButtonTimeout = errors.New("transcript button did not appear")
)

// Page is the part of a tab the expander drives.
type Page interface {
	Click(ctx context.Context, selector string) (bool, error)
	ClickLabeled(ctx context.Context, selector, label string) (bool, error)
	ObserveMutations(ctx context.Context, rootSelector string) (<-chan struct{}, error)
}

// Expander reveals the transcript panel of a video page.
type Expander struct {
	page      Page
	selectors config.SelectorsConfig
	timeout   time.Duration
	logger    logger.Logger
}

func New(p Page, selectors config.SelectorsConfig, cfg config.ExpanderConfig, log logger.Logger) *Expander {
	return &Expander{
		page:      p,
		selectors: selectors,
		timeout:   cfg.WaitTimeout,
		logger:    log,
	}
}

// Expand clicks the "more" control of the description and then waits for
// the "show transcript" button to be rendered and clicks it. When there is
// no "more" control the page is assumed to already show the transcript
// button state and Expand returns nil.
func (e *Expander) Expand(ctx context.Context) error {
	clicked, err := e.page.Click(ctx, e.selectors.ExpandButton)
	if err != nil {
		return fmt.Errorf("click expand button: %w", err)
	}
	if !clicked {
		e.logger.Debug(ctx, "No expand button, skipping to extraction")
		return nil
	}
	e.logger.Info(ctx, "Description expanded")

	waitCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	mutations, err := e.page.ObserveMutations(waitCtx, e.selectors.DescriptionRoot)
	if errors.Is(err, page.ErrNotFound) {
		return ErrObserveRootMissing
	}
	if err != nil {
		return fmt.Errorf("observe %s: %w", e.selectors.DescriptionRoot, err)
	}

	for {
		select {
		case <-waitCtx.Done():
			return e.waitErr(ctx)
		case _, ok := <-mutations:
			if !ok {
				if waitCtx.Err() != nil {
					return e.waitErr(ctx)
				}
				return fmt.Errorf("observe %s: subscription ended", e.selectors.DescriptionRoot)
			}

			clicked, err := e.page.ClickLabeled(waitCtx, e.selectors.TranscriptButton, e.selectors.TranscriptLabel)
			if err != nil {
				if waitCtx.Err() != nil {
					return e.waitErr(ctx)
				}
				return fmt.Errorf("click transcript button: %w", err)
			}
			if clicked {
				e.logger.Info(ctx, "Transcript panel opened")
				return nil
			}
		}
	}
}

// waitErr tells a parent cancellation apart from the wait timeout.
func (e *Expander) waitErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.logger.Warn(ctx, "Transcript button not found within %s", e.timeout)
	return ErrTranscriptButtonTimeout
}
