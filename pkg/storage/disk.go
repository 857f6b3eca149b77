// Package storage abstracts where uploaded files live.
//
// Two drivers: "local" (filesystem, default) and "s3" (any S3-compatible
// object store). The app's file intake and image lifecycle hold a Disk,
// usually the default one:
//
//	disk := storage.Default()
//	_ = disk.PutStream("quotes/169...-1-spec.pdf", src)
//	url := disk.URL("quotes/169...-1-spec.pdf")
package storage

import (
	"io"
	"time"
)

// Disk is the driver contract. Only the operations the application
// actually performs are part of it.
type Disk interface {
	// Put writes content to path, creating parents as needed.
	Put(path string, content []byte) error

	// PutStream writes from r to path.
	PutStream(path string, r io.Reader) error

	// Get returns the full content of the file at path.
	Get(path string) ([]byte, error)

	// Exists reports whether a file exists at path.
	Exists(path string) bool

	// Delete removes a file. A missing file is not an error.
	Delete(path string) error

	// URL returns the public URL for path.
	URL(path string) string

	// Size returns the byte size of the file.
	Size(path string) (int64, error)

	// LastModified returns the file's last-modified time.
	LastModified(path string) (time.Time, error)

	// Files lists the keys directly under directory (non-recursive).
	Files(directory string) ([]string, error)
}
