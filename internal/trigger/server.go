package trigger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/nguyentantai21042004/yt-summarizer/internal/logger"
)

// ActionStartSummary is the only action the server reacts to.
const ActionStartSummary = "startSummary"

const shutdownTimeout = 5 * time.Second

// Message is a trigger sent by the toolbar button or a script.
type Message struct {
	Action string `json:"action"`
	URL    string `json:"url,omitempty"`
}

// Ack is sent back as soon as a start was requested. Busy is set when the
// trigger was dropped because an invocation is already running.
type Ack struct {
	Received bool `json:"received"`
	Busy     bool `json:"busy,omitempty"`
}

// Starter begins an invocation in the background.
type Starter interface {
	Start(ctx context.Context, url string) error
}

// Server receives triggers over a websocket or plain HTTP.
type Server struct {
	addr     string
	starter  Starter
	busyErr  error
	logger   logger.Logger
	upgrader websocket.Upgrader
	base     context.Context
}

// New creates a server. busyErr is the error Starter returns when it rejects
// a trigger; it only changes the Busy flag of the ack.
func New(addr string, starter Starter, busyErr error, log logger.Logger) *Server {
	return &Server{
		addr:    addr,
		starter: starter,
		busyErr: busyErr,
		logger:  log,
		base:    context.Background(),
		upgrader: websocket.Upgrader{
			CheckOrigin: originAllowed,
		},
	}
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Get("/health", s.handleHealth)
	router.Post("/trigger", s.handleTrigger)
	router.HandleFunc("/ws", s.handleWS)
	return router
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
// Invocations started by a trigger inherit ctx.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.base = ctx

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()
	s.logger.Info(ctx, "Trigger server listening on %s", listener.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		s.logger.Info(ctx, "Shutting down trigger server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	if !originAllowed(r) {
		s.logger.Warn(r.Context(), "Trigger rejected from origin %q", r.Header.Get("Origin"))
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}
	if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mediaType != "application/json" {
		http.Error(w, "content type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	var msg Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		s.logger.Warn(r.Context(), "Malformed trigger: %v", err)
		http.Error(w, "malformed message", http.StatusBadRequest)
		return
	}

	ack, ok := s.dispatch(msg)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusAccepted, ack)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn(r.Context(), "Websocket upgrade failed: %v", err)
		return
	}
	defer ws.Close()

	s.logger.Debug(r.Context(), "Trigger client connected from %s", r.RemoteAddr)

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug(r.Context(), "Trigger client read error: %v", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn(r.Context(), "Malformed trigger: %v", err)
			continue
		}

		ack, ok := s.dispatch(msg)
		if !ok {
			continue
		}
		if err := ws.WriteJSON(ack); err != nil {
			s.logger.Debug(r.Context(), "Failed to send ack: %v", err)
			return
		}
	}
}

// dispatch starts an invocation for msg. ok is false when msg is not a
// start request and must be ignored.
func (s *Server) dispatch(msg Message) (ack Ack, ok bool) {
	if msg.Action != ActionStartSummary {
		return Ack{}, false
	}

	ack = Ack{Received: true}
	if err := s.starter.Start(s.base, msg.URL); err != nil {
		if s.busyErr != nil && errors.Is(err, s.busyErr) {
			ack.Busy = true
		} else {
			s.logger.Error(s.base, "Failed to start summary: %v", err)
		}
	}
	return ack, true
}

// originAllowed admits the browser extension and non-browser clients, which
// send no Origin. Pages cannot trigger a run.
func originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || strings.HasPrefix(origin, "chrome-extension://")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
