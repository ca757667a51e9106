package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a single-process Store backed by a mutex-guarded map.
// Expired entries are evicted lazily on read; there is no background sweep.
// State is lost on restart, which is acceptable for its intended use
// (development and single-instance deployments).
type MemoryStore struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]memoryEntry

	// now is swappable in tests.
	now func() time.Time
}

type memoryEntry struct {
	rec       Record
	expiresAt time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an in-process store whose records expire after ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns the record for sessionID, removing and hiding it when its TTL
// has elapsed.
func (s *MemoryStore) Get(_ context.Context, sessionID string) (*Record, error) {
	s.mu.RLock()
	entry, ok := s.entries[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if !s.now().Before(entry.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have
		// replaced the entry since the read.
		if current, still := s.entries[sessionID]; still && !s.now().Before(current.expiresAt) {
			delete(s.entries, sessionID)
		}
		s.mu.Unlock()
		return nil, nil
	}

	rec := entry.rec
	return &rec, nil
}

// Set stores a copy of rec with a fresh TTL.
func (s *MemoryStore) Set(_ context.Context, rec *Record) error {
	s.mu.Lock()
	s.entries[rec.SessionID] = memoryEntry{
		rec:       *rec,
		expiresAt: s.now().Add(s.ttl),
	}
	s.mu.Unlock()
	return nil
}

// Delete removes the record; deleting an absent record is a no-op.
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
	return nil
}

// List returns all live records for customerID, recomputing liveness on
// every call.
func (s *MemoryStore) List(_ context.Context, customerID string) ([]*Record, error) {
	now := s.now()

	s.mu.RLock()
	records := make([]*Record, 0, 4)
	for _, entry := range s.entries {
		if entry.rec.CustomerID != customerID {
			continue
		}
		if !now.Before(entry.expiresAt) {
			continue
		}
		rec := entry.rec
		records = append(records, &rec)
	}
	s.mu.RUnlock()

	return records, nil
}

// Len reports the number of entries currently held, including ones whose
// TTL has elapsed but which have not been read since.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
