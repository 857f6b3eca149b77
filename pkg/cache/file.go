package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// fileStore keeps one JSON file per entry under dir. The file name is the
// md5 of the logical key; freshness is judged from the file's modification
// time against the TTL recorded inside the entry. Two goroutines writing
// the same key race benignly — same key, same content.
type fileStore struct {
	dir string
}

type fileEntry struct {
	TTL  int64           `json:"ttl"` // seconds; 0 means DefaultTTL
	Data json.RawMessage `json:"data"`
}

// NewFile returns a file-backed store rooted at dir.
func NewFile(dir string) Store {
	return &fileStore{dir: dir}
}

func (s *fileStore) path(key string) string {
	sum := md5.Sum([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".json")
}

func (s *fileStore) Get(key string, dest interface{}) bool {
	path := s.path(key)

	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	var entry fileEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return false
	}

	if expired(info.ModTime(), entry.TTL) {
		_ = os.Remove(path)
		return false
	}

	return json.Unmarshal(entry.Data, dest) == nil
}

func (s *fileStore) Set(key string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache/file: marshal %s: %w", key, err)
	}
	raw, err := json.Marshal(fileEntry{TTL: int64(ttl.Seconds()), Data: data})
	if err != nil {
		return fmt.Errorf("cache/file: marshal entry %s: %w", key, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("cache/file: mkdir: %w", err)
	}
	if err := os.WriteFile(s.path(key), raw, 0o644); err != nil {
		return fmt.Errorf("cache/file: write %s: %w", key, err)
	}
	return nil
}

func (s *fileStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cache/file: delete %s: %w", key, err)
	}
	return nil
}

// Sweep walks the cache directory and removes every expired entry.
func (s *fileStore) Sweep() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("cache/file: sweep: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.dir, e.Name())

		info, err := e.Info()
		if err != nil {
			continue
		}

		var entry fileEntry
		if raw, err := os.ReadFile(path); err != nil || json.Unmarshal(raw, &entry) != nil {
			// Unreadable entries are garbage; drop them too.
			_ = os.Remove(path)
			continue
		}

		if expired(info.ModTime(), entry.TTL) {
			_ = os.Remove(path)
		}
	}
	return nil
}

func (s *fileStore) Flush() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("cache/file: flush: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		_ = os.Remove(filepath.Join(s.dir, e.Name()))
	}
	return nil
}

func expired(modTime time.Time, ttlSeconds int64) bool {
	ttl := DefaultTTL
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	return time.Since(modTime) > ttl
}
