package transcript

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/yt-summarizer/internal/config"
	"github.com/nguyentantai21042004/yt-summarizer/internal/logger"
	"github.com/nguyentantai21042004/yt-summarizer/internal/page"
)

var (
	ErrContainerMissing = errors.New("transcript container not found")
	ErrEmptyTranscript  = errors.New("transcript is empty")
)

// Page is the part of a tab the extractor reads from.
type Page interface {
	SegmentTexts(ctx context.Context, containerSelector, segmentSelector string) ([]string, error)
}

type Extractor struct {
	page      Page
	selectors config.SelectorsConfig
	logger    logger.Logger
}

func New(p Page, selectors config.SelectorsConfig, log logger.Logger) *Extractor {
	return &Extractor{
		page:      p,
		selectors: selectors,
		logger:    log,
	}
}

// Extract reads the rendered transcript segments into one string.
func (e *Extractor) Extract(ctx context.Context) (string, error) {
	segments, err := e.page.SegmentTexts(ctx, e.selectors.SegmentContainer, e.selectors.SegmentText)
	if errors.Is(err, page.ErrNotFound) {
		return "", ErrContainerMissing
	}
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}

	text := Join(segments)
	if text == "" {
		return "", ErrEmptyTranscript
	}

	e.logger.Info(ctx, "Transcript extracted: %d segments, %d bytes", len(segments), len(text))
	return text, nil
}

// Join trims every segment and appends a single space after each one,
// including the last.
func Join(segments []string) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(strings.TrimSpace(s))
		b.WriteByte(' ')
	}
	return b.String()
}
