package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

type ctxKey struct{}

type implLogger struct {
	logger *slog.Logger
	level  string
}

// NewWithFormat creates a Logger using a slog text or json handler.
func NewWithFormat(level, format string, w io.Writer) Logger {
	level = strings.ToLower(level)
	opts := &slog.HandlerOptions{Level: slogLevel(level)}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &implLogger{
		logger: slog.New(handler),
		level:  level,
	}
}

// WithInvocation tags every line logged with ctx by the invocation id.
func WithInvocation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// Invocation returns the invocation id carried by ctx, if any.
func Invocation(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

var levels = map[string]int{
	"debug": 0,
	"info":  1,
	"warn":  2,
	"error": 3,
}

func slogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *implLogger) shouldLog(level string) bool {
	currentLevel, ok := levels[l.level]
	if !ok {
		currentLevel = 1 // default to info
	}

	targetLevel, ok := levels[level]
	if !ok {
		return true
	}

	return targetLevel >= currentLevel
}

func (l *implLogger) log(ctx context.Context, level string, msg string, args []any) {
	if !l.shouldLog(level) {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	if id := Invocation(ctx); id != "" {
		l.logger.Log(ctx, slogLevel(level), msg, slog.String("invocation", id))
		return
	}
	l.logger.Log(ctx, slogLevel(level), msg)
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.log(ctx, "debug", msg, args)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...any) {
	l.log(ctx, "info", msg, args)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.log(ctx, "warn", msg, args)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...any) {
	l.log(ctx, "error", msg, args)
}

// Discard returns a Logger that drops everything. Used by tests.
func Discard() Logger {
	return NewWithFormat("error", "text", io.Discard)
}
