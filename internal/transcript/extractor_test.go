package transcript

import (
	"context"
	"errors"
	"testing"

	"github.com/nguyentantai21042004/yt-summarizer/internal/config"
	"github.com/nguyentantai21042004/yt-summarizer/internal/logger"
	"github.com/nguyentantai21042004/yt-summarizer/internal/page"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePage struct {
	segments  []string
	err       error
	container string
	segment   string
}

func (f *fakePage) SegmentTexts(ctx context.Context, container, segment string) ([]string, error) {
	f.container, f.segment = container, segment
	return f.segments, f.err
}

func TestJoin(t *testing.T) {
	tests := []struct {
		name     string
		segments []string
		want     string
	}{
		{"two segments", []string{"Hello", "world"}, "Hello world "},
		{"trims each segment", []string{"  Hello\n", "\tworld  "}, "Hello world "},
		{"inner whitespace kept", []string{"a  b"}, "a  b "},
		{"no segments", nil, ""},
		{"blank segments keep their separators", []string{"", " \n"}, "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Join(tt.segments))
		})
	}
}

func TestExtract(t *testing.T) {
	p := &fakePage{segments: []string{"Hello", "world"}}
	ext := New(p, config.Default().Selectors, logger.Discard())

	text, err := ext.Extract(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Hello world ", text)
	assert.Equal(t, "#segments-container", p.container)
	assert.Equal(t, ".segment-text", p.segment)
}

func TestExtractBlankSegmentsAreNotEmpty(t *testing.T) {
	p := &fakePage{segments: []string{"", ""}}
	ext := New(p, config.Default().Selectors, logger.Discard())

	text, err := ext.Extract(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "  ", text)
}

func TestExtractErrors(t *testing.T) {
	boom := errors.New("tab crashed")

	tests := []struct {
		name    string
		page    *fakePage
		wantErr error
	}{
		{"container missing", &fakePage{err: page.ErrNotFound}, ErrContainerMissing},
		{"zero segments", &fakePage{segments: []string{}}, ErrEmptyTranscript},
		{"page failure", &fakePage{err: boom}, boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := New(tt.page, config.Default().Selectors, logger.Discard())
			_, err := ext.Extract(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
