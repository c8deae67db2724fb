package summarizer

import (
	"net/http"

	"github.com/nguyentantai21042004/yt-summarizer/internal/config"
	"github.com/nguyentantai21042004/yt-summarizer/internal/logger"
)

type implSummarizer struct {
	model      string
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// New creates a Summarizer calling the Gemini API with a single attempt per
// transcript.
func New(cfg config.GeminiConfig, log logger.Logger) Summarizer {
	return &implSummarizer{
		model:   cfg.Model,
		baseURL: cfg.BaseURL,
		logger:  log,
	}
}

// NewWithClient is New with a caller supplied HTTP client.
func NewWithClient(cfg config.GeminiConfig, client *http.Client, log logger.Logger) Summarizer {
	s := New(cfg, log).(*implSummarizer)
	s.httpClient = client
	return s
}
