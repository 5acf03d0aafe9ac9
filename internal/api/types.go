package api

import (
	"time"

	"github.com/skairipa/hannaterm/internal/session"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// SessionResponse is returned when a session is created.
type SessionResponse struct {
	SessionID string        `json:"session_id"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Prompt    string        `json:"prompt"`
	State     session.State `json:"state"`
}

// InputRequest carries one line typed at the terminal.
type InputRequest struct {
	Line string `json:"line"`
}

// InputResponse is the controller's reply to one line. Output holds either
// command output or one of the reserved tokens (USERNAME_OK, CLEAR, ...).
type InputResponse struct {
	Output string        `json:"output"`
	Prompt string        `json:"prompt"`
	State  session.State `json:"state"`
	User   string        `json:"user,omitempty"`
}

// PromptResponse describes the terminal's current prompt.
type PromptResponse struct {
	Prompt string        `json:"prompt"`
	State  session.State `json:"state"`
	User   string        `json:"user,omitempty"`
	Cwd    string        `json:"cwd"`
	Root   bool          `json:"root"`
}

// HistoryResponse lists recorded input lines.
type HistoryResponse struct {
	History []string `json:"history"`
	Length  int      `json:"length"`
}

// HistoryItemResponse is one history entry.
type HistoryItemResponse struct {
	Index int    `json:"index"`
	Line  string `json:"line"`
}

// CompleteResponse lists completion candidates for the last word.
type CompleteResponse struct {
	Suggestions []string `json:"suggestions"`
}

// SnapshotRequest names a snapshot. An empty name means "default".
type SnapshotRequest struct {
	Name string `json:"name"`
}

// SnapshotResponse reports a saved or restored snapshot.
type SnapshotResponse struct {
	Name   string `json:"name"`
	Size   int    `json:"size"`
	Prompt string `json:"prompt,omitempty"`
}
