// internal/app/store/activitylog/store.go
package activitylog

import (
	"errors"
	"slices"
	"sync"

	"github.com/dalemusser/stratapulse/internal/domain/models"
)

// DefaultCapacity is the per-kind bound on retained records.
const DefaultCapacity = 50

// ErrUnknownKind is returned by Insert for a kind that has no log.
var ErrUnknownKind = errors.New("activitylog: unknown event kind")

// entry pairs a record with its global insertion sequence. The sequence
// breaks timestamp ties in LiveFeed.
type entry struct {
	rec models.EventRecord
	seq uint64
}

// BoundedLog is a most-recent-first sequence of records holding at most
// capacity entries. Inserting at capacity evicts the oldest entry.
//
// BoundedLog is not safe for concurrent use on its own; Store guards it.
type BoundedLog struct {
	capacity int
	items    []entry // oldest first; read back reversed
}

// NewBoundedLog creates a BoundedLog. A non-positive capacity uses DefaultCapacity.
func NewBoundedLog(capacity int) *BoundedLog {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &BoundedLog{capacity: capacity, items: make([]entry, 0, capacity)}
}

func (b *BoundedLog) insert(e entry) {
	if len(b.items) == b.capacity {
		copy(b.items, b.items[1:])
		b.items = b.items[:len(b.items)-1]
	}
	b.items = append(b.items, e)
}

// Len returns the number of retained records.
func (b *BoundedLog) Len() int { return len(b.items) }

// Cap returns the bound.
func (b *BoundedLog) Cap() int { return b.capacity }

// Records returns a copy of the retained records, newest first.
func (b *BoundedLog) Records() []models.EventRecord {
	out := make([]models.EventRecord, len(b.items))
	for i, e := range b.items {
		out[len(b.items)-1-i] = e.rec
	}
	return out
}

// Store holds one BoundedLog per event kind and projects them into a merged
// live feed.
type Store struct {
	mu          sync.RWMutex
	seq         uint64
	navigation  *BoundedLog
	interaction *BoundedLog
}

// New creates a Store whose logs each hold capacity records.
func New(capacity int) *Store {
	return &Store{
		navigation:  NewBoundedLog(capacity),
		interaction: NewBoundedLog(capacity),
	}
}

func (s *Store) logFor(kind models.EventKind) *BoundedLog {
	switch kind {
	case models.KindNavigation:
		return s.navigation
	case models.KindInteraction:
		return s.interaction
	}
	return nil
}

// Insert prepends rec to the log for kind, evicting that log's oldest record
// when it is full.
func (s *Store) Insert(kind models.EventKind, rec models.EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.logFor(kind)
	if log == nil {
		return ErrUnknownKind
	}
	s.seq++
	log.insert(entry{rec: rec, seq: s.seq})
	return nil
}

// Navigation returns the navigation log, newest first.
func (s *Store) Navigation() []models.EventRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.navigation.Records()
}

// Interaction returns the interaction log, newest first.
func (s *Store) Interaction() []models.EventRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.interaction.Records()
}

// Len returns the combined number of retained records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.navigation.Len() + s.interaction.Len()
}

// LiveFeed returns both logs merged and sorted by timestamp, newest first.
// Records with equal timestamps are ordered by insertion, most recently
// inserted first, regardless of kind. The underlying logs are not modified.
func (s *Store) LiveFeed() []models.EventRecord {
	s.mu.RLock()
	merged := make([]entry, 0, s.navigation.Len()+s.interaction.Len())
	merged = append(merged, s.navigation.items...)
	merged = append(merged, s.interaction.items...)
	s.mu.RUnlock()

	slices.SortFunc(merged, func(a, b entry) int {
		if c := b.rec.Timestamp.Compare(a.rec.Timestamp); c != 0 {
			return c
		}
		switch {
		case a.seq > b.seq:
			return -1
		case a.seq < b.seq:
			return 1
		}
		return 0
	})

	out := make([]models.EventRecord, len(merged))
	for i, e := range merged {
		out[i] = e.rec
	}
	return out
}

// Reset discards every retained record.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navigation.items = s.navigation.items[:0]
	s.interaction.items = s.interaction.items[:0]
}
