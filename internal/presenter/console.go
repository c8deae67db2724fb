package presenter

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ConsoleSurface prints notifications and panels to a terminal. Opacity
// changes are ignored.
type ConsoleSurface struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleSurface(out io.Writer) *ConsoleSurface {
	return &ConsoleSurface{out: out}
}

func (s *ConsoleSurface) MountNotification(ctx context.Context, id, message, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintln(s.out, message)
	return err
}

func (s *ConsoleSurface) SetOpacity(ctx context.Context, id string, opacity float64) error {
	return nil
}

func (s *ConsoleSurface) MountPanel(ctx context.Context, id, header, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rule := strings.Repeat("─", 40)
	_, err := fmt.Fprintf(s.out, "\n%s\n%s\n%s\n%s\n%s\n\n", rule, header, rule, strings.TrimSpace(body), rule)
	return err
}

func (s *ConsoleSurface) Unmount(ctx context.Context, id string) error {
	return nil
}
