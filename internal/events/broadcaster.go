// Package events provides an SSE event broadcaster that carries media and
// control signals from a terminal session to its browser.
package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/skairipa/hannaterm/internal/metrics"
)

const (
	EventPlay    = "play"
	EventControl = "control"
)

// Event is a signal for the browser side of a session.
type Event struct {
	Type      string `json:"type"`
	Session   string `json:"-"`
	Path      string `json:"path,omitempty"`
	URL       string `json:"url,omitempty"`
	Name      string `json:"name,omitempty"`
	Signal    string `json:"signal,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Broadcaster manages SSE subscribers and publishes events to them.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[chan Event]string
}

// NewBroadcaster creates a new event broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[chan Event]string),
	}
}

// Subscribe adds a subscriber for one session and returns its event channel.
// The caller must call Unsubscribe when done.
func (b *Broadcaster) Subscribe(session string) chan Event {
	ch := make(chan Event, 64)
	b.mu.Lock()
	b.subscribers[ch] = session
	n := len(b.subscribers)
	b.mu.Unlock()
	metrics.SetSSEConnectionsActive(int64(n))
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broadcaster) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
	}
	n := len(b.subscribers)
	b.mu.Unlock()
	metrics.SetSSEConnectionsActive(int64(n))
}

// Publish sends an event to the subscribers of event.Session, or to every
// subscriber when the session is empty. Non-blocking: drops events for slow
// consumers. It returns the number of subscribers that received the event.
func (b *Broadcaster) Publish(event Event) int {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}
	delivered := 0
	b.mu.RLock()
	for ch, session := range b.subscribers {
		if event.Session != "" && session != event.Session {
			continue
		}
		select {
		case ch <- event:
			delivered++
		default:
			// Drop event for slow consumer
		}
	}
	b.mu.RUnlock()
	metrics.RecordSSEEvent(event.Type)
	return delivered
}

// Count returns the current number of subscribers.
func (b *Broadcaster) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// CountSession returns the number of subscribers listening to session.
func (b *Broadcaster) CountSession(session string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, s := range b.subscribers {
		if s == session {
			n++
		}
	}
	return n
}

// MarshalEvent serializes an event to JSON.
func MarshalEvent(e Event) ([]byte, error) {
	return json.Marshal(e)
}
