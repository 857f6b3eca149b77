package cache_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agrovia/agrovia/pkg/cache"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestFileSetGet(t *testing.T) {
	s := cache.NewFile(t.TempDir())

	if err := s.Set("news:abc", payload{Name: "hibiscus", Count: 3}, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got payload
	if !s.Get("news:abc", &got) {
		t.Fatal("expected a cache hit")
	}
	if got.Name != "hibiscus" || got.Count != 3 {
		t.Errorf("wrong value: %+v", got)
	}
}

func TestFileMissOnUnknownKey(t *testing.T) {
	s := cache.NewFile(t.TempDir())

	var got payload
	if s.Get("nothing-here", &got) {
		t.Error("expected a miss for an unset key")
	}
}

// Expiry is judged from the entry file's modification time, so tests can
// age an entry by rewinding its mtime.
func TestFileExpiry(t *testing.T) {
	dir := t.TempDir()
	s := cache.NewFile(dir)

	if err := s.Set("stale", payload{Name: "old"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	backdate(t, dir, 2*time.Minute)

	var got payload
	if s.Get("stale", &got) {
		t.Error("expected expired entry to miss")
	}
}

func TestFileSweep(t *testing.T) {
	dir := t.TempDir()
	s := cache.NewFile(dir)

	if err := s.Set("expired", payload{}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	backdate(t, dir, 2*time.Minute)
	if err := s.Set("fresh", payload{Name: "keep"}, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := s.Sweep(); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	if n := countEntries(t, dir); n != 1 {
		t.Errorf("expected 1 entry after sweep, got %d", n)
	}
	var got payload
	if !s.Get("fresh", &got) {
		t.Error("sweep removed a fresh entry")
	}
}

func TestFileFlush(t *testing.T) {
	dir := t.TempDir()
	s := cache.NewFile(dir)

	for _, key := range []string{"a", "b", "c"} {
		if err := s.Set(key, payload{Name: key}, time.Hour); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}

	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if n := countEntries(t, dir); n != 0 {
		t.Errorf("expected empty cache after flush, got %d entries", n)
	}
}

func TestRememberComputesOnceThenHits(t *testing.T) {
	cache.Use(cache.NewMemory())
	t.Cleanup(func() { cache.Use(cache.NewMemory()) })

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return payload{Name: "ginger"}, nil
	}

	var got payload
	if err := cache.Remember("prices", time.Hour, &got, fetch); err != nil {
		t.Fatalf("remember: %v", err)
	}
	if err := cache.Remember("prices", time.Hour, &got, fetch); err != nil {
		t.Fatalf("remember: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected fn to run once, ran %d times", calls)
	}
	if got.Name != "ginger" {
		t.Errorf("wrong value: %+v", got)
	}
}

func TestKeyIsStableAndOrderIndependent(t *testing.T) {
	a := cache.Key("news", map[string]string{"page": "1", "country": "ng"})
	b := cache.Key("news", map[string]string{"country": "ng", "page": "1"})
	if a != b {
		t.Errorf("same params should produce the same key: %s vs %s", a, b)
	}

	c := cache.Key("news", map[string]string{"page": "2", "country": "ng"})
	if a == c {
		t.Error("different params should produce different keys")
	}
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func backdate(t *testing.T, dir string, age time.Duration) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	past := time.Now().Add(-age)
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if err := os.Chtimes(path, past, past); err != nil {
			t.Fatalf("chtimes %s: %v", path, err)
		}
	}
}

func countEntries(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	n := 0
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" {
			n++
		}
	}
	return n
}
