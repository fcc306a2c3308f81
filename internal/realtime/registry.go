// Package realtime tracks live client sessions so the notifier can push a
// created notification to a connected party. The registry is owned by the
// transport layer and injected into the notifier; delivery is best-effort.
package realtime

import (
	"sync"

	"rentaride-backend/internal/domain"
)

// Session is a live client connection able to receive pushed notifications.
type Session interface {
	Send(note *domain.Notification) error
}

type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.Recipient]Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[domain.Recipient]Session)}
}

// Register replaces any previous session for the recipient; a reconnecting
// client wins over its stale connection.
func (r *Registry) Register(recipient domain.Recipient, s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[recipient] = s
}

// Unregister drops the session only if it is still the registered one, so a
// late disconnect of a replaced connection cannot evict its successor.
func (r *Registry) Unregister(recipient domain.Recipient, s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.sessions[recipient]; ok && current == s {
		delete(r.sessions, recipient)
	}
}

// Lookup returns the live session for the recipient, or nil.
func (r *Registry) Lookup(recipient domain.Recipient) Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[recipient]
}
