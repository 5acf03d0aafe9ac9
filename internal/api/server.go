// Package api provides the HTTP server behind the browser terminal.
package api

import (
	"encoding/json"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/skairipa/hannaterm/internal/auth"
	"github.com/skairipa/hannaterm/internal/bridge"
	"github.com/skairipa/hannaterm/internal/events"
	"github.com/skairipa/hannaterm/internal/logging"
	"github.com/skairipa/hannaterm/internal/metrics"
	"github.com/skairipa/hannaterm/internal/session"
	"github.com/skairipa/hannaterm/internal/snapshot"
)

// maxInputBytes bounds request bodies of the input and snapshot endpoints.
const maxInputBytes = 64 << 10

// Config holds the server's collaborators.
type Config struct {
	Tokens      *auth.TokenIssuer
	Broadcaster *events.Broadcaster
	Snapshots   snapshot.Store // nil disables the snapshot endpoints
	IdleTimeout time.Duration
	Controller  []session.Option
	Assets      fs.FS // static UI, optional
}

// Server is the terminal HTTP server.
type Server struct {
	sessions    *Manager
	tokens      *auth.TokenIssuer
	broadcaster *events.Broadcaster
	snapshots   snapshot.Store
	ctrlOpts    []session.Option
	assets      fs.FS
}

// NewServer creates a server. Each new session gets a controller built from
// cfg.Controller, wired to the broadcaster for media and control events.
func NewServer(cfg Config) *Server {
	s := &Server{
		tokens:      cfg.Tokens,
		broadcaster: cfg.Broadcaster,
		snapshots:   cfg.Snapshots,
		ctrlOpts:    cfg.Controller,
		assets:      cfg.Assets,
	}
	if s.broadcaster == nil {
		s.broadcaster = events.NewBroadcaster()
	}
	s.sessions = NewManager(s.newController, cfg.IdleTimeout)
	s.sessions.onExpire = func(id string) {
		s.publishControl(id, "expired")
	}
	return s
}

// Sessions returns the session manager.
func (s *Server) Sessions() *Manager { return s.sessions }

func (s *Server) newController(id string) *session.Controller {
	opts := append([]session.Option{}, s.ctrlOpts...)
	opts = append(opts,
		session.WithID(id),
		session.WithMedia(&bridge.EventMedia{Broadcaster: s.broadcaster, Session: id}),
		session.WithSignalHook(func(signal string) {
			s.publishControl(id, strings.ToLower(signal))
		}),
	)
	return session.New(opts...)
}

func (s *Server) publishControl(id, signal string) {
	s.broadcaster.Publish(events.Event{
		Type:    events.EventControl,
		Session: id,
		Signal:  signal,
	})
}

// Handler returns the HTTP handler with auth, logging and metrics middleware.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(metrics.Middleware)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/sessions", s.handleCreateSession).Methods(http.MethodPost)

	protected := r.PathPrefix("/api/v1").Subrouter()
	protected.Use(s.tokens.Middleware)
	protected.HandleFunc("/sessions", s.withTerminal(s.handleEndSession)).Methods(http.MethodDelete)
	protected.HandleFunc("/input", s.withTerminal(s.handleInput)).Methods(http.MethodPost)
	protected.HandleFunc("/prompt", s.withTerminal(s.handlePrompt)).Methods(http.MethodGet)
	protected.HandleFunc("/history", s.withTerminal(s.handleHistory)).Methods(http.MethodGet)
	protected.HandleFunc("/history/{index:[0-9]+}", s.withTerminal(s.handleHistoryItem)).Methods(http.MethodGet)
	protected.HandleFunc("/complete", s.withTerminal(s.handleComplete)).Methods(http.MethodGet)
	protected.HandleFunc("/events", s.withTerminal(s.handleEvents)).Methods(http.MethodGet)
	protected.HandleFunc("/snapshot", s.withTerminal(s.handleSaveSnapshot)).Methods(http.MethodPost)
	protected.HandleFunc("/snapshot/restore", s.withTerminal(s.handleRestoreSnapshot)).Methods(http.MethodPost)

	if s.assets != nil {
		r.PathPrefix("/").Handler(http.FileServer(http.FS(s.assets))).Methods(http.MethodGet)
	}

	return logging.Middleware(r)
}

type terminalHandler func(w http.ResponseWriter, r *http.Request, t *Terminal)

// withTerminal resolves the session named by the token's claims.
func (s *Server) withTerminal(h terminalHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetClaims(r.Context())
		if claims == nil {
			s.sendError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		t, ok := s.sessions.Get(claims.SessionID)
		if !ok {
			s.sendError(w, http.StatusNotFound, "session not found")
			return
		}
		r = r.WithContext(logging.WithSession(r.Context(), t.ID()))
		h(w, r, t)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.sendJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": s.sessions.Count(),
	})
}

func (s *Server) sendJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) sendError(w http.ResponseWriter, code int, message string) {
	s.sendJSON(w, code, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
