package api

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skairipa/hannaterm/internal/logging"
	"github.com/skairipa/hannaterm/internal/metrics"
	"github.com/skairipa/hannaterm/internal/session"
)

// ControllerFactory builds the controller for a new session id.
type ControllerFactory func(id string) *session.Controller

// Terminal is one live session. The mutex serializes input so a controller
// processes exactly one line at a time.
type Terminal struct {
	id       string
	created  time.Time
	lastSeen atomic.Int64
	now      func() time.Time

	mu   sync.Mutex
	ctrl *session.Controller
}

// ID returns the session id.
func (ls *Terminal) ID() string { return ls.id }

// With runs fn while holding the session lock.
func (ls *Terminal) With(fn func(*session.Controller)) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.lastSeen.Store(ls.now().UnixNano())
	fn(ls.ctrl)
}

// Manager tracks live sessions and expires idle ones.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*Terminal
	factory     ControllerFactory
	idleTimeout time.Duration
	onExpire    func(id string)
	now         func() time.Time
}

// NewManager creates a session manager. A zero idleTimeout disables reaping.
func NewManager(factory ControllerFactory, idleTimeout time.Duration) *Manager {
	return &Manager{
		sessions:    make(map[string]*Terminal),
		factory:     factory,
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// Create starts a new session.
func (m *Manager) Create() *Terminal {
	id := uuid.NewString()
	now := m.now()
	ls := &Terminal{id: id, created: now, now: m.now, ctrl: m.factory(id)}
	ls.lastSeen.Store(now.UnixNano())

	m.mu.Lock()
	m.sessions[id] = ls
	n := len(m.sessions)
	m.mu.Unlock()

	metrics.RecordSessionCreated()
	metrics.SetSessionsActive(n)
	logging.Info("session created", zap.String("session_id", id))
	return ls
}

// Get returns a live session.
func (m *Manager) Get(id string) (*Terminal, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ls, ok := m.sessions[id]
	return ls, ok
}

// Remove ends a session. It reports whether the session existed.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()

	if ok {
		metrics.SetSessionsActive(n)
		logging.Info("session ended", zap.String("session_id", id))
	}
	return ok
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Reap removes sessions idle for longer than the idle timeout and returns
// how many were removed.
func (m *Manager) Reap() int {
	if m.idleTimeout <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.idleTimeout).UnixNano()

	var expired []string
	m.mu.Lock()
	for id, ls := range m.sessions {
		if ls.lastSeen.Load() < cutoff {
			delete(m.sessions, id)
			expired = append(expired, id)
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	if len(expired) > 0 {
		metrics.SetSessionsActive(n)
		logging.Info("idle sessions reaped", zap.Int("count", len(expired)))
	}
	if m.onExpire != nil {
		for _, id := range expired {
			m.onExpire(id)
		}
	}
	return len(expired)
}

// Run reaps idle sessions every interval until ctx is cancelled.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Reap()
		}
	}
}
