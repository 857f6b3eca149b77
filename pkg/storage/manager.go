package storage

import (
	"fmt"
	"sync"

	"github.com/agrovia/agrovia/config"
	"github.com/agrovia/agrovia/pkg/logger"
)

var (
	mu          sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk string
)

// Connect boots the storage manager. The local disk is always available;
// the s3 disk is registered only when S3_BUCKET is configured.
func Connect() {
	mu.Lock()
	defer mu.Unlock()

	defaultDisk = config.StorageDisk()
	disks["local"] = newLocalDisk()

	if config.S3Bucket() != "" {
		d, err := newS3Disk()
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			disks["s3"] = d
		}
	}
}

// Use returns the named disk ("local" or "s3").
func Use(name string) Disk {
	mu.RLock()
	d, ok := disks[name]
	mu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("storage: disk %q is not configured", name))
	}
	return d
}

// Register plugs in a custom Disk. Tests use this to inject fakes.
func Register(name string, d Disk) {
	mu.Lock()
	disks[name] = d
	mu.Unlock()
}

// SetDefault switches the default disk by name.
func SetDefault(name string) {
	mu.Lock()
	defaultDisk = name
	mu.Unlock()
}

// Default returns the default disk (STORAGE_DISK, "local" unless set).
func Default() Disk {
	mu.RLock()
	name := defaultDisk
	mu.RUnlock()
	return Use(name)
}
