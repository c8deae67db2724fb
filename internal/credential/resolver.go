package credential

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/yt-summarizer/internal/logger"
)

// PromptMessage is shown when no API key is stored yet.
const PromptMessage = "Gemini API 키를 입력해주세요. (한 번만 입력하면 됩니다.)"

type Resolver struct {
	store    Store
	prompter Prompter
	timeout  time.Duration
	logger   logger.Logger
}

func NewResolver(store Store, prompter Prompter, timeout time.Duration, log logger.Logger) *Resolver {
	return &Resolver{
		store:    store,
		prompter: prompter,
		timeout:  timeout,
		logger:   log,
	}
}

// Resolve returns the stored API key, asking the user once and storing the
// answer when there is none. The key is not checked against the API.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	key, err := r.store.Get(ctx, KeyName)
	if err == nil && key != "" {
		return key, nil
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("read api key: %w", err)
	}

	r.logger.Info(ctx, "No stored API key, prompting")

	promptCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		promptCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	value, err := r.prompter.Prompt(promptCtx, PromptMessage)
	switch {
	case errors.Is(err, ErrDeclined):
		return "", ErrCredentialRequired
	case err != nil && ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded):
		return "", ErrPromptTimeout
	case err != nil:
		return "", fmt.Errorf("prompt api key: %w", err)
	case value == "":
		return "", ErrCredentialRequired
	}

	if err := r.store.Set(ctx, KeyName, value); err != nil {
		return "", fmt.Errorf("save api key: %w", err)
	}
	r.logger.Info(ctx, "API key saved")

	return value, nil
}
