package server

import (
	"errors"
	"sync"
	"time"

	"github.com/abhisek/assessor/internal/assessment"
	"github.com/abhisek/assessor/internal/catalog"
)

// ErrSessionNotFound is returned for unknown or discarded session IDs.
var ErrSessionNotFound = errors.New("session not found")

// Registry holds the live sessions of one server process. Each session has
// its own lock, so requests against one interview are serialised while
// different interviews proceed in parallel.
type Registry struct {
	catalog *catalog.Catalog

	mu       sync.RWMutex
	sessions map[string]*entry
}

type entry struct {
	mu       sync.Mutex
	session  *assessment.Session
	lastUsed time.Time
}

// NewRegistry creates an empty registry whose sessions draw from c.
func NewRegistry(c *catalog.Catalog) *Registry {
	return &Registry{catalog: c, sessions: make(map[string]*entry)}
}

// Create starts a new session and returns its ID.
func (r *Registry) Create() *assessment.Session {
	s := assessment.New(r.catalog)
	r.mu.Lock()
	r.sessions[s.ID] = &entry{session: s, lastUsed: time.Now()}
	r.mu.Unlock()
	return s
}

// With runs fn while holding the session's lock.
func (r *Registry) With(id string, fn func(*assessment.Session) error) error {
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	// discarded while we waited for the lock
	if e.session == nil {
		return ErrSessionNotFound
	}
	e.lastUsed = time.Now()
	return fn(e.session)
}

// Delete discards a session. It reports whether the session existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return false
	}
	e.mu.Lock()
	e.session = nil
	e.mu.Unlock()
	return true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Prune discards sessions idle for longer than maxIdle and returns their IDs.
// Staleness is decided and acted on under the entry lock, and a session whose
// lock is held by a running request is in use, so it is kept.
func (r *Registry) Prune(maxIdle time.Duration) []string {
	cutoff := time.Now().Add(-maxIdle)
	var stale []string

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.sessions {
		if !e.mu.TryLock() {
			continue
		}
		if e.lastUsed.Before(cutoff) {
			e.session = nil
			delete(r.sessions, id)
			stale = append(stale, id)
		}
		e.mu.Unlock()
	}
	return stale
}
