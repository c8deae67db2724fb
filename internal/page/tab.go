package page

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	cdppage "github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"github.com/nguyentantai21042004/yt-summarizer/internal/logger"
)

// evalFunc runs script in the page, bounded by ctx and by timeout when it is
// positive, and decodes the result into res.
type evalFunc func(ctx context.Context, timeout time.Duration, script string, res any) error

// Tab is one attached page. Its methods run small scripts in the page and
// are safe to call from one invocation at a time.
type Tab struct {
	id           target.ID
	ctx          context.Context
	cancel       context.CancelFunc
	timeout      time.Duration
	pollInterval time.Duration
	logger       logger.Logger

	eval          evalFunc
	dismissDialog func(ctx context.Context) error
}

// ID returns the CDP target id of the tab.
func (t *Tab) ID() string {
	return string(t.id)
}

// run executes actions on the tab, bounded by ctx and by timeout when it is
// positive.
func (t *Tab) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(t.ctx, timeout)
	} else {
		runCtx, cancel = context.WithCancel(t.ctx)
	}
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func (t *Tab) evaluateCDP(ctx context.Context, timeout time.Duration, script string, res any) error {
	return t.run(ctx, timeout, chromedp.Evaluate(script, res))
}

// dismissOpenDialog cancels the JavaScript dialog the page is blocked on.
func (t *Tab) dismissOpenDialog(ctx context.Context) error {
	return t.run(ctx, t.timeout, cdppage.HandleJavaScriptDialog(false))
}

// Click activates the first element matching selector. It reports false
// when nothing matches.
func (t *Tab) Click(ctx context.Context, selector string) (bool, error) {
	var clicked bool
	if err := t.eval(ctx, t.timeout, clickScript(selector), &clicked); err != nil {
		return false, wrapBrowserError(err, "click")
	}
	if clicked {
		t.logger.Debug(ctx, "Clicked %s", selector)
	}
	return clicked, nil
}

// ClickLabeled activates the first element matching selector whose
// aria-label equals label.
func (t *Tab) ClickLabeled(ctx context.Context, selector, label string) (bool, error) {
	var clicked bool
	if err := t.eval(ctx, t.timeout, clickLabeledScript(selector, label), &clicked); err != nil {
		return false, wrapBrowserError(err, "click")
	}
	if clicked {
		t.logger.Debug(ctx, "Clicked %s [aria-label=%q]", selector, label)
	}
	return clicked, nil
}

// ObserveMutations installs a child-list/subtree MutationObserver on the
// element matching rootSelector. The returned channel receives one value per
// observed batch (coalesced between polls) and is closed when ctx ends; the
// observer is disconnected at the same time. ErrNotFound is returned when
// the root does not exist.
func (t *Tab) ObserveMutations(ctx context.Context, rootSelector string) (<-chan struct{}, error) {
	name := "__ytsObserver" + strings.ReplaceAll(uuid.NewString(), "-", "")

	var installed bool
	if err := t.eval(ctx, t.timeout, observeScript(rootSelector, name), &installed); err != nil {
		return nil, wrapBrowserError(err, "observe")
	}
	if !installed {
		return nil, ErrNotFound
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer t.disconnectObserver(name)

		ticker := time.NewTicker(t.pollInterval)
		defer ticker.Stop()

		var seen int64
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			var count int64
			if err := t.eval(ctx, t.timeout, countScript(name), &count); err != nil {
				if ctx.Err() == nil {
					t.logger.Warn(ctx, "Mutation poll failed: %v", err)
				}
				return
			}
			if count == seen {
				continue
			}
			seen = count
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()

	return out, nil
}

func (t *Tab) disconnectObserver(name string) {
	err := t.eval(context.Background(), t.timeout, disconnectScript(name), nil)
	if err != nil {
		t.logger.Debug(context.Background(), "Observer disconnect failed: %v", err)
	}
}

// SegmentTexts returns the textContent of every segmentSelector match inside
// the first containerSelector match, in document order. ErrNotFound is
// returned when the container does not exist.
func (t *Tab) SegmentTexts(ctx context.Context, containerSelector, segmentSelector string) ([]string, error) {
	var res struct {
		Found bool     `json:"found"`
		Texts []string `json:"texts"`
	}
	if err := t.eval(ctx, t.timeout, segmentsScript(containerSelector, segmentSelector), &res); err != nil {
		return nil, wrapBrowserError(err, "read segments")
	}
	if !res.Found {
		return nil, ErrNotFound
	}
	return res.Texts, nil
}

// Prompt shows a blocking input dialog in the page. ok is false when the
// user cancels. Only ctx bounds the wait; when it ends first the dialog is
// dismissed so the page is usable again.
func (t *Tab) Prompt(ctx context.Context, message string) (value string, ok bool, err error) {
	var answer *string
	if err := t.eval(ctx, 0, promptScript(message), &answer); err != nil {
		if ctx.Err() != nil {
			if derr := t.dismissDialog(context.WithoutCancel(ctx)); derr != nil {
				t.logger.Debug(ctx, "Dialog dismiss failed: %v", derr)
			}
			return "", false, ctx.Err()
		}
		return "", false, wrapBrowserError(err, "prompt")
	}
	if answer == nil {
		return "", false, nil
	}
	return *answer, true, nil
}

// Evaluate runs script in the page and decodes its result into res. A nil
// res discards the result.
func (t *Tab) Evaluate(ctx context.Context, script string, res any) error {
	if err := t.eval(ctx, t.timeout, script, res); err != nil {
		return wrapBrowserError(err, "evaluate")
	}
	return nil
}

// JSString renders s as a JavaScript string literal.
func JSString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
