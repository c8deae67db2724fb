package credential

import (
	"context"
	"errors"
)

// KeyName is the storage key of the Gemini API key.
const KeyName = "geminiApiKey"

var (
	// ErrNotFound is returned by a Store when the key has no value.
	ErrNotFound = errors.New("credential not found")
	// ErrDeclined is returned by a Prompter when the user cancels or
	// submits nothing.
	ErrDeclined = errors.New("prompt declined")
	// ErrCredentialRequired is returned by Resolve when there is no stored
	// key and the user declined to enter one.
	ErrCredentialRequired = errors.New("api key required")
	// ErrPromptTimeout is returned by Resolve when the user did not answer
	// the prompt in time.
	ErrPromptTimeout = errors.New("api key prompt timed out")
)

// Store is a persistent string key-value store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Prompter asks the user for a value.
type Prompter interface {
	Prompt(ctx context.Context, message string) (string, error)
}
