// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Sessions live only for the lifetime of the process.
//
// Characteristics:
//   - Stores *game.Session values keyed by ID in a map.
//   - Every read or mutation runs inside View/Update while the store lock is
//     held, so a session never sees two writers at once.
//   - Idle sessions are dropped by Sweep; View and Update both count as use.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/emoji-quiz/internal/game"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Store defines the holder of active sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *game.Session) error

	// View runs fn with access to the session without modifying it.
	// Reading counts as activity for Sweep.
	View(ctx context.Context, id string, fn func(*game.Session) error) error

	// Update runs fn with exclusive access to the session.
	Update(ctx context.Context, id string, fn func(*game.Session) error) error

	// Delete discards a session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Sweep drops sessions untouched for longer than maxIdle and reports how many.
	Sweep(ctx context.Context, maxIdle time.Duration) int
}

type entry struct {
	session  *game.Session
	lastSeen time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.Mutex        // guards sessions and everything they point to
	sessions map[string]*entry // keyed by Session.ID
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*entry), now: time.Now}
}

func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = &entry{session: s, lastSeen: m.now()}
	return nil
}

func (m *memory) View(ctx context.Context, id string, fn func(*game.Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	e.lastSeen = m.now()
	return fn(e.session)
}

func (m *memory) Update(ctx context.Context, id string, fn func(*game.Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	e.lastSeen = m.now()
	return fn(e.session)
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Sweep(ctx context.Context, maxIdle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.now().Add(-maxIdle)
	n := 0
	for id, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}
