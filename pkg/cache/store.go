package cache

import (
	"sync"

	"tgscraper/pkg/models"
)

// Store is the deduplicating member cache. It keeps at most one record per
// member id for its whole lifetime: later discoveries of an id already
// present are discarded, never overwritten.
//
// The store is safe for concurrent writers; the id set doubles as the
// membership test, so there is no separate dedup structure to keep in sync.
type Store struct {
	members map[int64]models.Member
	order   []int64
	mu      sync.RWMutex
}

// NewStore creates an empty member cache
func NewStore() *Store {
	return &Store{
		members: make(map[int64]models.Member),
	}
}

// TryInsert stores the record iff no record with the same id exists yet.
// Returns true when the record was stored, false when the id was already
// present (in which case nothing is mutated).
func (s *Store) TryInsert(member models.Member) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.members[member.ID]; exists {
		return false
	}

	s.members[member.ID] = member
	s.order = append(s.order, member.ID)
	return true
}

// Has reports whether a record with the given id is stored
func (s *Store) Has(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.members[id]
	return exists
}

// Len returns the number of stored records
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members)
}

// Snapshot returns a copy of all stored records in insertion order, i.e.
// the order in which each id first became unique. Callers rely on this
// ordering to get deterministic output across identical runs.
func (s *Store) Snapshot() []models.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Member, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.members[id])
	}
	return out
}
