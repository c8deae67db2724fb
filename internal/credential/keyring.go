package credential

import (
	"context"
	"errors"
	"fmt"

	zkr "github.com/zalando/go-keyring"
)

const serviceName = "yt-summarizer"

// KeyringStore keeps values in the OS keychain.
type KeyringStore struct {
	service string
}

func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: serviceName}
}

func (s *KeyringStore) Get(ctx context.Context, key string) (string, error) {
	value, err := zkr.Get(s.service, key)
	if errors.Is(err, zkr.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("keychain get: %w", err)
	}
	return value, nil
}

func (s *KeyringStore) Set(ctx context.Context, key, value string) error {
	if err := zkr.Set(s.service, key, value); err != nil {
		return fmt.Errorf("keychain set: %w", err)
	}
	return nil
}

func (s *KeyringStore) Delete(ctx context.Context, key string) error {
	err := zkr.Delete(s.service, key)
	if err != nil && !errors.Is(err, zkr.ErrNotFound) {
		return fmt.Errorf("keychain delete: %w", err)
	}
	return nil
}

// KeyringAvailable probes the keychain with a write/read/delete cycle.
func KeyringAvailable() bool {
	const probe = "yt-summarizer-keyring-probe"
	if err := zkr.Set(probe, "probe", "ok"); err != nil {
		return false
	}
	_ = zkr.Delete(probe, "probe")
	return true
}
