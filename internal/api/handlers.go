package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/skairipa/hannaterm/internal/events"
	"github.com/skairipa/hannaterm/internal/logging"
	"github.com/skairipa/hannaterm/internal/session"
	"github.com/skairipa/hannaterm/internal/snapshot"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	t := s.sessions.Create()
	token, expiresAt, err := s.tokens.Issue(t.ID())
	if err != nil {
		s.sessions.Remove(t.ID())
		logging.WithContext(r.Context()).Error("issue token failed", zap.Error(err))
		s.sendError(w, http.StatusInternalServerError, "could not issue token")
		return
	}

	resp := SessionResponse{SessionID: t.ID(), Token: token, ExpiresAt: expiresAt}
	t.With(func(c *session.Controller) {
		resp.Prompt = c.Prompt()
		resp.State = c.State()
	})
	s.sendJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleEndSession(w http.ResponseWriter, _ *http.Request, t *Terminal) {
	s.sessions.Remove(t.ID())
	s.publishControl(t.ID(), "closed")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request, t *Terminal) {
	var req InputRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxInputBytes)).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var resp InputResponse
	t.With(func(c *session.Controller) {
		resp.Output = c.Execute(req.Line)
		resp.Prompt = c.Prompt()
		resp.State = c.State()
		resp.User = c.Username()
	})
	s.sendJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePrompt(w http.ResponseWriter, _ *http.Request, t *Terminal) {
	var resp PromptResponse
	t.With(func(c *session.Controller) {
		resp = PromptResponse{
			Prompt: c.Prompt(),
			State:  c.State(),
			User:   c.Username(),
			Cwd:    c.CurrentDir(),
			Root:   c.IsRoot(),
		}
	})
	s.sendJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request, t *Terminal) {
	var resp HistoryResponse
	t.With(func(c *session.Controller) {
		resp.History = c.History()
		resp.Length = c.HistoryLen()
	})
	if resp.History == nil {
		resp.History = []string{}
	}
	s.sendJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistoryItem(w http.ResponseWriter, r *http.Request, t *Terminal) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid history index")
		return
	}

	var (
		line string
		ok   bool
	)
	t.With(func(c *session.Controller) {
		line, ok = c.HistoryItem(index)
	})
	if !ok {
		s.sendError(w, http.StatusNotFound, fmt.Sprintf("no history entry %d", index))
		return
	}
	s.sendJSON(w, http.StatusOK, HistoryItemResponse{Index: index, Line: line})
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request, t *Terminal) {
	line := r.URL.Query().Get("line")
	var suggestions []string
	t.With(func(c *session.Controller) {
		suggestions = c.Complete(line)
	})
	if suggestions == nil {
		suggestions = []string{}
	}
	s.sendJSON(w, http.StatusOK, CompleteResponse{Suggestions: suggestions})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request, t *Terminal) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.sendError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// Subscribe before the headers go out so a client that has seen the
	// response cannot miss an event.
	ch := s.broadcaster.Subscribe(t.ID())
	defer s.broadcaster.Unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			data, err := events.MarshalEvent(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
			flusher.Flush()
		}
	}
}

// decodeSnapshotRequest accepts an empty body as the default snapshot.
func (s *Server) decodeSnapshotRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	if s.snapshots == nil {
		s.sendError(w, http.StatusServiceUnavailable, "snapshots are disabled")
		return "", false
	}
	var req SnapshotRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxInputBytes)).Decode(&req); err != nil {
			s.sendError(w, http.StatusBadRequest, "invalid request body")
			return "", false
		}
	}
	if req.Name == "" {
		req.Name = snapshot.DefaultName
	}
	if err := snapshot.ValidateName(req.Name); err != nil {
		s.sendError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return req.Name, true
}

func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request, t *Terminal) {
	name, ok := s.decodeSnapshotRequest(w, r)
	if !ok {
		return
	}

	var (
		data   []byte
		err    error
		active bool
	)
	t.With(func(c *session.Controller) {
		if active = c.State() == session.Active; active {
			data, err = c.SaveFilesystem()
		}
	})
	if !active {
		s.sendError(w, http.StatusForbidden, "login required")
		return
	}
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "export failed")
		return
	}

	if err := s.snapshots.Save(r.Context(), name, data); err != nil {
		logging.WithContext(r.Context()).Error("snapshot save failed",
			zap.String("name", name), zap.String("backend", s.snapshots.Type()), zap.Error(err))
		s.sendError(w, http.StatusBadGateway, "snapshot save failed")
		return
	}
	logging.WithContext(r.Context()).Info("snapshot saved", zap.String("name", name), zap.Int("size", len(data)))
	s.sendJSON(w, http.StatusOK, SnapshotResponse{Name: name, Size: len(data)})
}

func (s *Server) handleRestoreSnapshot(w http.ResponseWriter, r *http.Request, t *Terminal) {
	name, ok := s.decodeSnapshotRequest(w, r)
	if !ok {
		return
	}

	var active bool
	t.With(func(c *session.Controller) { active = c.State() == session.Active })
	if !active {
		s.sendError(w, http.StatusForbidden, "login required")
		return
	}

	data, err := s.snapshots.Load(r.Context(), name)
	if errors.Is(err, snapshot.ErrNotFound) {
		s.sendError(w, http.StatusNotFound, "snapshot not found")
		return
	}
	if err != nil {
		logging.WithContext(r.Context()).Error("snapshot load failed",
			zap.String("name", name), zap.String("backend", s.snapshots.Type()), zap.Error(err))
		s.sendError(w, http.StatusBadGateway, "snapshot load failed")
		return
	}

	var (
		loadErr error
		prompt  string
	)
	t.With(func(c *session.Controller) {
		loadErr = c.LoadFilesystem(data)
		prompt = c.Prompt()
	})
	if loadErr != nil {
		s.sendError(w, http.StatusUnprocessableEntity, loadErr.Error())
		return
	}
	s.publishControl(t.ID(), "restored")
	s.sendJSON(w, http.StatusOK, SnapshotResponse{Name: name, Size: len(data), Prompt: prompt})
}
