package store

import (
	"errors"
	"sync"

	"github.com/i474232898/openmeteo-exporter/internal/weather"
)

var (
	// ErrNotFound is returned when no data is available for a given location.
	ErrNotFound = errors.New("no weather data for location")
)

// MemoryStore is a concurrency-safe in-memory cache of the latest snapshot
// per location. It backs the JSON API; the scraping system owns anything
// historical.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key, value: latest snapshot
	data map[string]weather.Snapshot
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]weather.Snapshot),
	}
}

// SaveSnapshot replaces the stored snapshot for a location.
func (s *MemoryStore) SaveSnapshot(loc weather.Location, snapshot weather.Snapshot) {
	key := loc.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = snapshot
}

// GetLatest returns the most recent snapshot for a location.
func (s *MemoryStore) GetLatest(loc weather.Location) (weather.Snapshot, error) {
	key := loc.Key()

	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.data[key]
	if !ok {
		return weather.Snapshot{}, ErrNotFound
	}
	return snapshot, nil
}
