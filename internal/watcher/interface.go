package watcher

import "context"

// Watcher reports changes to a single file.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler is called after the watched file was written or replaced.
type EventHandler func(ctx context.Context, filePath string) error
