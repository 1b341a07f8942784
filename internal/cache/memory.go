package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	value      []byte
	expiration time.Time
}

// MemoryStore is a thread-safe in-memory Store.
type MemoryStore struct {
	data  map[string]memoryItem
	mutex sync.RWMutex
	now   func() time.Time

	sweeper *sweeper
}

// NewMemoryStore creates a MemoryStore that sweeps expired entries every
// cleanupInterval. A non-positive interval disables sweeping.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		data: make(map[string]memoryItem),
		now:  time.Now,
	}
	if cleanupInterval > 0 {
		s.sweeper = startSweeper(cleanupInterval, s.Backend(), func(context.Context) (int64, error) {
			return s.sweep(), nil
		}, nil)
	}
	return s
}

// Backend implements Store.
func (s *MemoryStore) Backend() string { return "memory" }

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	item, exists := s.data[key]
	if !exists || s.now().After(item.expiration) {
		return nil, ErrMiss
	}
	return item.value, nil
}

// Set implements Store. The value is copied.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data[key] = memoryItem{value: stored, expiration: s.now().Add(ttl)}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() error {
	s.sweeper.Stop()
	return nil
}

// sweep deletes expired entries and returns how many were removed.
func (s *MemoryStore) sweep() int64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var removed int64
	now := s.now()
	for key, item := range s.data {
		if now.After(item.expiration) {
			delete(s.data, key)
			removed++
		}
	}
	return removed
}
