package store

import (
	"context"
	"sort"
	"sync"

	"github.com/i474232898/dronitor/internal/readings"
)

// MemoryStore is a concurrency-safe in-memory implementation of the readings
// store. It backs tests and any environment without a database.
type MemoryStore struct {
	mu   sync.RWMutex
	data []readings.Reading
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// CreateMany appends the batch. Appends are all-or-nothing by construction.
func (s *MemoryStore) CreateMany(ctx context.Context, rs []readings.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = append(s.data, rs...)
	return nil
}

// Query returns readings inside the window ordered newest first; a nil
// window returns everything.
func (s *MemoryStore) Query(ctx context.Context, window *readings.DateWindow) ([]readings.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]readings.Reading, 0)
	for _, r := range s.data {
		if window.Contains(r.Timestamp) {
			out = append(out, r)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	return out, nil
}
