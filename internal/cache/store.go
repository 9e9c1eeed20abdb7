package cache

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/vzahanych/openweather-client/internal/openweather"
	"go.uber.org/zap"
)

// Entry is one cached observation. Data is nil while the entry is a
// placeholder reserved ahead of its first fetch.
type Entry struct {
	Time time.Time             `json:"time"`
	Data *openweather.Snapshot `json:"data"`
}

// Store is a capacity-bounded map from city name to Entry, mirrored to a JSON
// file after every mutation. Mutation and persistence run under one lock so
// concurrent refreshes cannot interleave partial states into the file.
type Store struct {
	path   string
	limit  int
	logger *zap.Logger

	mu      sync.RWMutex
	entries map[string]Entry
}

// Open loads the store from path. A missing or unparsable file yields an
// empty store; that is the normal first-run state, not an error.
func Open(path string, limit int, logger *zap.Logger) *Store {
	s := &Store{
		path:    path,
		limit:   limit,
		logger:  logger,
		entries: make(map[string]Entry),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		s.logger.Debug("No readable cache file, starting empty",
			zap.String("path", path))
		return s
	}

	var entries map[string]Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.logger.Debug("Cache file is not valid JSON, starting empty",
			zap.String("path", path))
		return s
	}

	s.entries = entries
	return s
}

func (s *Store) Get(city string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[city]
	return entry, ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

func (s *Store) Limit() int {
	return s.limit
}

// Cities returns the city keys currently cached.
func (s *Store) Cities() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cities := make([]string, 0, len(s.entries))
	for city := range s.entries {
		cities = append(cities, city)
	}
	return cities
}

// Reserve inserts a placeholder entry for a new city, evicting the oldest
// entry first when the store is at capacity, and persists the result. It is a
// no-op for a city that is already present.
func (s *Store) Reserve(city string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[city]; ok {
		return
	}

	s.evictIfFull()
	s.entries[city] = Entry{Time: time.Now()}
	s.save()
}

// Put records a snapshot for a city with the current time and persists. A new
// city inserted at capacity evicts the oldest entry first.
func (s *Store) Put(city string, data *openweather.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[city]; !ok {
		s.evictIfFull()
	}

	s.entries[city] = Entry{Time: time.Now(), Data: data}
	s.save()
}

func (s *Store) Stats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cities := make([]string, 0, len(s.entries))
	for city := range s.entries {
		cities = append(cities, city)
	}

	return map[string]interface{}{
		"cache_size":  len(s.entries),
		"cache_limit": s.limit,
		"cities":      cities,
	}
}

// evictIfFull drops the entry with the smallest fetch time when the store is
// at capacity. Caller must hold the write lock.
func (s *Store) evictIfFull() {
	if s.limit <= 0 || len(s.entries) < s.limit {
		return
	}

	var oldest string
	var oldestTime time.Time
	first := true
	for city, entry := range s.entries {
		if first || entry.Time.Before(oldestTime) {
			oldest = city
			oldestTime = entry.Time
			first = false
		}
	}

	delete(s.entries, oldest)
	s.logger.Debug("Evicted oldest cache entry", zap.String("city", oldest))
}

// save writes the whole map to the cache file. The file is opened, written,
// and closed per call; no handle is held between saves. Caller must hold the
// write lock.
func (s *Store) save() {
	raw, err := json.Marshal(s.entries)
	if err != nil {
		s.logger.Warn("Failed to encode cache", zap.Error(err))
		return
	}

	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		s.logger.Warn("Failed to write cache file",
			zap.String("path", s.path),
			zap.Error(err))
	}
}
