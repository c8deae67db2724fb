package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/yt-summarizer/internal/config"
	"github.com/nguyentantai21042004/yt-summarizer/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type geminiRequest struct {
	Contents []struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
}

type recorded struct {
	path        string
	contentType string
	apiKey      string
	body        geminiRequest
}

func newGeminiServer(t *testing.T, status int, response string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.path = r.URL.Path
		rec.contentType = r.Header.Get("Content-Type")
		rec.apiKey = r.Header.Get("x-goog-api-key")
		if rec.apiKey == "" {
			rec.apiKey = r.URL.Query().Get("key")
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &rec.body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func newSummarizer(baseURL string) Summarizer {
	return NewWithClient(
		config.GeminiConfig{Model: "gemini-2.0-flash", BaseURL: baseURL + "/"},
		http.DefaultClient,
		logger.Discard(),
	)
}

func TestSummarizeSendsPromptAndTranscript(t *testing.T) {
	srv, rec := newGeminiServer(t, http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"text":"Summary line"}],"role":"model"}}]}`)

	summary, err := newSummarizer(srv.URL).Summarize(context.Background(), "test-key", "Hello world ")

	require.NoError(t, err)
	assert.Equal(t, "Summary line", summary)

	assert.True(t, strings.HasSuffix(rec.path, "/models/gemini-2.0-flash:generateContent"), rec.path)
	assert.Contains(t, rec.contentType, "application/json")
	assert.Equal(t, "test-key", rec.apiKey)

	require.Len(t, rec.body.Contents, 1)
	require.Len(t, rec.body.Contents[0].Parts, 1)
	assert.Equal(t, summaryPrompt+"Hello world ", rec.body.Contents[0].Parts[0].Text)
}

func TestSummarizeStatusError(t *testing.T) {
	srv, _ := newGeminiServer(t, http.StatusForbidden,
		`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`)

	_, err := newSummarizer(srv.URL).Summarize(context.Background(), "bad-key", "text ")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr), "got %v", err)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Equal(t, "Forbidden", statusErr.StatusText)
	assert.Contains(t, err.Error(), "403")
}

func TestSummarizeMalformedResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"no candidates", `{"candidates":[]}`},
		{"no content", `{"candidates":[{"finishReason":"SAFETY"}]}`},
		{"no parts", `{"candidates":[{"content":{"parts":[],"role":"model"}}]}`},
		{"no text", `{"candidates":[{"content":{"parts":[{}],"role":"model"}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newGeminiServer(t, http.StatusOK, tt.response)
			_, err := newSummarizer(srv.URL).Summarize(context.Background(), "k", "text ")
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestSummarizeQuotaIsNotRotated(t *testing.T) {
	srv, rec := newGeminiServer(t, http.StatusTooManyRequests,
		`{"error":{"code":429,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`)

	_, err := newSummarizer(srv.URL).Summarize(context.Background(), "only-key", "text ")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Equal(t, "Too Many Requests", statusErr.StatusText)
	assert.Equal(t, "only-key", rec.apiKey)
}

func TestPrompt(t *testing.T) {
	p := Prompt("Hello world ")
	assert.True(t, strings.HasPrefix(p, "다음 동영상 자막을"))
	assert.True(t, strings.HasSuffix(p, "\n\nHello world "))
}

func TestExportDocx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.docx")

	summary := "# 개요\n**핵심** 내용입니다.<br/>- 첫 번째 항목\n---\n두 번째 단락."
	require.NoError(t, ExportDocx("스크립트 요약", summary, "One. Two! Three? Four.", path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestTranscriptParagraphs(t *testing.T) {
	got := transcriptParagraphs("A. B. C. D.", 2)
	assert.Equal(t, []string{"A. B.", "C. D."}, got)

	got = transcriptParagraphs("no punctuation at all", 5)
	assert.Equal(t, []string{"no punctuation at all"}, got)
}

func TestCleanMarkdownInline(t *testing.T) {
	assert.Equal(t, "bold and code", cleanMarkdownInline("**bold** and `code`"))
}
