// internal/app/store/presence/store.go
package presence

import (
	"sync"
	"time"

	"github.com/dalemusser/stratapulse/internal/domain/models"
)

// Store is an ordered "who is active" list with at most one entry per
// identity. The most recently active identity is always first. Entries are
// never expired by time.
type Store struct {
	mu      sync.RWMutex
	entries []models.PresenceEntry
}

// New creates an empty presence Store.
func New() *Store {
	return &Store{}
}

// Upsert removes any entry for identity and prepends a fresh one carrying the
// latest activity.
func (s *Store) Upsert(identity string, lastActive time.Time, lastAction string) models.PresenceEntry {
	entry := models.PresenceEntry{
		Identity:    identity,
		DisplayName: models.DisplayNameFor(identity),
		LastActive:  lastActive,
		LastAction:  lastAction,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.PresenceEntry, 0, len(s.entries)+1)
	next = append(next, entry)
	for _, e := range s.entries {
		if e.Identity != identity {
			next = append(next, e)
		}
	}
	s.entries = next
	return entry
}

// Observe upserts the presence entry for the identity that produced rec.
func (s *Store) Observe(rec models.EventRecord) models.PresenceEntry {
	return s.Upsert(rec.Identity, rec.Timestamp, rec.Detail)
}

// List returns a copy of the presence entries, most recently active first.
func (s *Store) List() []models.PresenceEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PresenceEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Get returns the entry for identity, if present.
func (s *Store) Get(identity string) (models.PresenceEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.Identity == identity {
			return e, true
		}
	}
	return models.PresenceEntry{}, false
}

// Len returns the number of tracked identities.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Reset forgets every identity.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}
