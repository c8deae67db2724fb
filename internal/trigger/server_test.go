package trigger

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nguyentantai21042004/yt-summarizer/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBusy = errors.New("busy")

type fakeStarter struct {
	mu   sync.Mutex
	urls []string
	err  error
}

func (f *fakeStarter) Start(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
	return f.err
}

func (f *fakeStarter) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.urls...)
}

func newTestServer(t *testing.T, starter Starter) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New("", starter, errBusy, logger.Discard()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, origin string) *websocket.Conn {
	t.Helper()
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", header)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeStarter{})

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPTrigger(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		starterErr error
		wantStatus int
		wantBody   string
		wantCalls  []string
	}{
		{
			name:       "start summary",
			body:       `{"action":"startSummary","url":"https://www.youtube.com/watch?v=abc"}`,
			wantStatus: http.StatusAccepted,
			wantBody:   `{"received":true}`,
			wantCalls:  []string{"https://www.youtube.com/watch?v=abc"},
		},
		{
			name:       "busy",
			body:       `{"action":"startSummary"}`,
			starterErr: errBusy,
			wantStatus: http.StatusAccepted,
			wantBody:   `{"received":true,"busy":true}`,
			wantCalls:  []string{""},
		},
		{
			name:       "unknown action ignored",
			body:       `{"action":"somethingElse"}`,
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "malformed",
			body:       `{"action":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			starter := &fakeStarter{err: tt.starterErr}
			srv := newTestServer(t, starter)

			resp, err := http.Post(srv.URL+"/trigger", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantBody != "" {
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.JSONEq(t, tt.wantBody, string(body))
			}
			assert.Equal(t, tt.wantCalls, starter.calls())
		})
	}
}

func TestHTTPTriggerRequestChecks(t *testing.T) {
	const body = `{"action":"startSummary","url":"https://attacker.example/"}`

	tests := []struct {
		name        string
		origin      string
		contentType string
		wantStatus  int
		wantStarted bool
	}{
		{"page origin", "https://evil.example", "application/json", http.StatusForbidden, false},
		{"page origin with simple content type", "https://evil.example", "text/plain", http.StatusForbidden, false},
		{"no origin text body", "", "text/plain", http.StatusUnsupportedMediaType, false},
		{"no content type", "", "", http.StatusUnsupportedMediaType, false},
		{"extension", "chrome-extension://abcdef", "application/json; charset=utf-8", http.StatusAccepted, true},
		{"local client", "", "application/json", http.StatusAccepted, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			starter := &fakeStarter{}
			srv := newTestServer(t, starter)

			req, err := http.NewRequest(http.MethodPost, srv.URL+"/trigger", strings.NewReader(body))
			require.NoError(t, err)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStarted {
				assert.Equal(t, []string{"https://attacker.example/"}, starter.calls())
			} else {
				assert.Empty(t, starter.calls())
			}
		})
	}
}

func TestWebsocketTrigger(t *testing.T) {
	starter := &fakeStarter{}
	srv := newTestServer(t, starter)
	ws := dial(t, srv, "chrome-extension://abcdef")

	// Ignored messages get no reply; the next valid one still does.
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	require.NoError(t, ws.WriteJSON(Message{Action: "other"}))
	require.NoError(t, ws.WriteJSON(Message{Action: ActionStartSummary, URL: "u1"}))

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ack Ack
	require.NoError(t, ws.ReadJSON(&ack))
	assert.Equal(t, Ack{Received: true}, ack)
	assert.Equal(t, []string{"u1"}, starter.calls())
}

func TestWebsocketRejectsForeignOrigin(t *testing.T) {
	srv := newTestServer(t, &fakeStarter{})

	header := http.Header{}
	header.Set("Origin", "https://evil.example")
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s := New("127.0.0.1:0", &fakeStarter{}, errBusy, logger.Discard())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
