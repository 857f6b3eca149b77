package cache

import (
	"encoding/json"
	"sync"
	"time"
)

// memoryStore is a process-lifetime store. Values are kept JSON-encoded so
// Get/Set behave identically to the other drivers.
type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemory returns an empty in-process store.
func NewMemory() Store {
	return &memoryStore{entries: map[string]memoryEntry{}}
}

func (s *memoryStore) Get(key string, dest interface{}) bool {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return false
	}
	if time.Now().After(entry.expiresAt) {
		_ = s.Delete(key)
		return false
	}
	return json.Unmarshal(entry.data, dest) == nil
}

func (s *memoryStore) Set(key string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.entries[key] = memoryEntry{data: data, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Delete(key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Sweep() error {
	now := time.Now()
	s.mu.Lock()
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Flush() error {
	s.mu.Lock()
	s.entries = map[string]memoryEntry{}
	s.mu.Unlock()
	return nil
}

// reencode copies value into dest through JSON, mirroring what a driver
// round-trip would produce. Used by Remember after a cache miss.
func reencode(value, dest interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
