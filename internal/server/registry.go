package server

import (
	"sync"

	"intervue/internal/session"
)

// sessionEntry holds a live session plus a per-session lock so that
// only one interaction runs against a session at a time.
type sessionEntry struct {
	mu   sync.Mutex
	sess *session.Session
}

// sessionRegistry tracks in-flight interview sessions by ID.
type sessionRegistry struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{
		entries: make(map[string]*sessionEntry),
	}
}

// add registers a session. Returns false if the ID is already present.
func (r *sessionRegistry) add(sess *session.Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[sess.ID()]; exists {
		return false
	}
	r.entries[sess.ID()] = &sessionEntry{sess: sess}
	return true
}

// get retrieves the entry for a session ID.
func (r *sessionRegistry) get(id string) (*sessionEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	return entry, ok
}

// remove drops a session from the registry.
func (r *sessionRegistry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, id)
}

// count returns the number of registered sessions.
func (r *sessionRegistry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}
