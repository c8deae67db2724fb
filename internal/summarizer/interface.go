package summarizer

import "context"

// Summarizer turns a video transcript into a summary.
type Summarizer interface {
	Summarize(ctx context.Context, apiKey, transcript string) (string, error)
}
