// Package bridge holds the collaborators the shell reaches outside the
// in-memory session for: media playback and wall clock time.
package bridge

import (
	"errors"
	"fmt"
	"path"

	"go.uber.org/zap"

	"github.com/skairipa/hannaterm/internal/events"
	"github.com/skairipa/hannaterm/internal/logging"
	"github.com/skairipa/hannaterm/internal/metrics"
)

// Media plays a file from the virtual filesystem or an external URL.
// Implementations must not block on playback completion.
type Media interface {
	PlayFile(path string) error
	PlayURL(url, displayName string) error
}

// ErrNoPlayer is returned when no player is attached to the session.
var ErrNoPlayer = errors.New("no media player attached")

// Unavailable is a Media that always fails.
type Unavailable struct{}

func (Unavailable) PlayFile(p string) error {
	return fmt.Errorf("failed to play file: %s: %w", p, ErrNoPlayer)
}

func (Unavailable) PlayURL(url, _ string) error {
	return fmt.Errorf("failed to play url: %s: %w", url, ErrNoPlayer)
}

// EventMedia forwards playback requests to the browser of one session as
// SSE events. Playback fails when that browser is not listening.
type EventMedia struct {
	Broadcaster *events.Broadcaster
	Session     string
}

func (m *EventMedia) PlayFile(p string) error {
	n := m.Broadcaster.Publish(events.Event{
		Type:    events.EventPlay,
		Session: m.Session,
		Path:    p,
		Name:    path.Base(p),
	})
	metrics.RecordPlayback("file", n > 0)
	if n == 0 {
		logging.Debug("play request dropped", zap.String("session", m.Session), zap.String("path", p))
		return fmt.Errorf("failed to play file: %s", p)
	}
	return nil
}

func (m *EventMedia) PlayURL(url, displayName string) error {
	n := m.Broadcaster.Publish(events.Event{
		Type:    events.EventPlay,
		Session: m.Session,
		URL:     url,
		Name:    displayName,
	})
	metrics.RecordPlayback("url", n > 0)
	if n == 0 {
		logging.Debug("play request dropped", zap.String("session", m.Session), zap.String("url", url))
		return fmt.Errorf("failed to play file: %s", displayName)
	}
	return nil
}
