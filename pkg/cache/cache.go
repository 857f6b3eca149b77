// Package cache is the single caching abstraction for the application.
//
// One Store interface, three drivers:
//   - "file"   — on-disk entries keyed by md5 of the logical key, expiry
//     judged from file modification time (default; survives restarts)
//   - "memory" — in-process map (tests, single-node dev)
//   - "redis"  — shared cache for multi-instance deployments
//
// The driver is selected once at boot by CACHE_DRIVER; callers only ever
// talk to the package-level helpers or a Store value.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"github.com/agrovia/agrovia/config"
	"github.com/agrovia/agrovia/pkg/logger"
)

// DefaultTTL is the validity window for cached external API responses.
const DefaultTTL = 24 * time.Hour

// Store is the cache driver contract.
type Store interface {
	// Get loads the value at key into dest. Reports true on a fresh hit;
	// an expired or missing entry is a miss.
	Get(key string, dest interface{}) bool

	// Set stores value under key for ttl (DefaultTTL when ttl <= 0).
	Set(key string, value interface{}, ttl time.Duration) error

	// Delete removes a single entry. Absent keys are not an error.
	Delete(key string) error

	// Sweep removes every expired entry.
	Sweep() error

	// Flush removes every entry unconditionally.
	Flush() error
}

var defaultStore Store = NewMemory()

// Connect selects the default store from CACHE_DRIVER. Call once at boot.
func Connect() error {
	switch config.CacheDriver() {
	case "redis":
		s, err := NewRedis()
		if err != nil {
			return err
		}
		defaultStore = s
	case "memory":
		defaultStore = NewMemory()
	default:
		defaultStore = NewFile(config.CacheDir())
	}
	return nil
}

// Use swaps the default store. Handy in tests.
func Use(s Store) { defaultStore = s }

// Default returns the active store.
func Default() Store { return defaultStore }

func Get(key string, dest interface{}) bool { return defaultStore.Get(key, dest) }

func Set(key string, value interface{}, ttl time.Duration) error {
	return defaultStore.Set(key, value, ttl)
}

func Delete(key string) error { return defaultStore.Delete(key) }

func Sweep() error { return defaultStore.Sweep() }

func Flush() error { return defaultStore.Flush() }

// Remember returns the cached value at key, or computes it with fn and
// stores it. A failed Set is logged, not returned — serving the value
// matters more than caching it.
func Remember(key string, ttl time.Duration, dest interface{}, fn func() (interface{}, error)) error {
	if Get(key, dest) {
		return nil
	}

	value, err := fn()
	if err != nil {
		return err
	}
	if err := Set(key, value, ttl); err != nil {
		logger.Warn("cache: set failed", "key", key, "error", err)
	}
	return reencode(value, dest)
}

// Key derives a stable cache key from a set of request parameters: the
// canonical "k=v" pairs sorted and joined, hashed with md5. Identical
// parameter sets always map to the same key.
func Key(prefix string, params map[string]string) string {
	pairs := make([]string, 0, len(params))
	for k, v := range params {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)

	sum := md5.Sum([]byte(strings.Join(pairs, "&")))
	return prefix + ":" + hex.EncodeToString(sum[:])
}
