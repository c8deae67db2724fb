package summarizer

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// summaryPrompt precedes the transcript in the request.
const summaryPrompt = "다음 동영상 자막을 3~10개의 주요 항목으로 한국어로 요약해 줘. 중요한 내용별로 두세 문장씩 단락을 나누어 작성해 주고 '*' 또는 '**' 표시는 삭제해 줘.\n\n"

// ErrMalformedResponse is returned when the response has no non-empty
// candidates[0].content.parts[0].text.
var ErrMalformedResponse = errors.New("unexpected response shape")

// StatusError is a non-success HTTP answer from the API.
type StatusError struct {
	StatusCode int
	StatusText string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API 요청 실패: %d %s", e.StatusCode, e.StatusText)
}

// Prompt builds the request text for transcript.
func Prompt(transcript string) string {
	return summaryPrompt + transcript
}

// Summarize sends the transcript to Gemini once and returns the text of the
// first part of the first candidate.
func (s *implSummarizer) Summarize(ctx context.Context, apiKey, transcript string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  s.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: s.baseURL},
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	s.logger.Info(ctx, "Requesting summary from %s (%d bytes of transcript)", s.model, len(transcript))

	result, err := client.Models.GenerateContent(ctx, s.model, genai.Text(Prompt(transcript)), nil)
	if err != nil {
		if code, ok := statusCode(err); ok {
			return "", &StatusError{StatusCode: code, StatusText: http.StatusText(code)}
		}
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrMalformedResponse)
	}
	content := result.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil {
		return "", fmt.Errorf("%w: no content parts", ErrMalformedResponse)
	}
	if content.Parts[0].Text == "" {
		return "", fmt.Errorf("%w: first part has no text", ErrMalformedResponse)
	}

	s.logger.Debug(ctx, "Summary received: %d bytes", len(content.Parts[0].Text))
	return content.Parts[0].Text, nil
}

func statusCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr.Code != 0 {
		return apiErrPtr.Code, true
	}
	return 0, false
}
