package custsession

import (
	"context"
	"sync"
)

// MemoryMFAStore is an in-process MFAStore for tests and single-node
// deployments.
type MemoryMFAStore struct {
	mu      sync.RWMutex
	records map[string]MFARecord
}

func NewMemoryMFAStore() *MemoryMFAStore {
	return &MemoryMFAStore{
		records: make(map[string]MFARecord),
	}
}

func (s *MemoryMFAStore) Get(_ context.Context, customerID string) (*MFARecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[customerID]
	if !ok {
		return nil, nil
	}

	copied := record
	return &copied, nil
}

func (s *MemoryMFAStore) Set(_ context.Context, customerID string, record *MFARecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[customerID] = *record
	return nil
}
