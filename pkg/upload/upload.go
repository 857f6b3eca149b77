// Package upload is the file-intake layer: it takes multipart file parts,
// enforces count/size/type limits, gives each file a collision-resistant
// key, and writes it through a storage disk.
package upload

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/agrovia/agrovia/config"
	"github.com/agrovia/agrovia/pkg/logger"
	"github.com/agrovia/agrovia/pkg/storage"
)

// ErrRejected marks an upload refused for a user-correctable reason
// (too many files, too large, disallowed type) as opposed to a storage
// failure. Controllers map it to 422; everything else is a 500.
var ErrRejected = errors.New("upload rejected")

// MaxFilesPerRequest caps attachments on a single submission.
const MaxFilesPerRequest = 4

// allowedExts is the upload allow-list: images for the catalog, documents
// for quote attachments.
var allowedExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
}

// SavedFile describes one stored upload.
type SavedFile struct {
	Key  string `json:"key"`  // storage key, e.g. "quotes/1724790000123-7-spec.pdf"
	URL  string `json:"url"`  // public URL
	Name string `json:"name"` // original client file name
	Size int64  `json:"size"`
}

// Intake writes uploads through a Disk.
type Intake struct {
	disk storage.Disk
}

// New returns an Intake over the given disk.
func New(disk storage.Disk) *Intake {
	return &Intake{disk: disk}
}

// Save stores a single file part under dir and returns its key and URL.
func (in *Intake) Save(fh *multipart.FileHeader, dir string) (SavedFile, error) {
	if fh.Size > config.MaxUploadBytes() {
		return SavedFile{}, fmt.Errorf("%w: %s exceeds the %d byte limit", ErrRejected, fh.Filename, config.MaxUploadBytes())
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExts[ext] {
		return SavedFile{}, fmt.Errorf("%w: file type %q is not allowed", ErrRejected, ext)
	}

	src, err := fh.Open()
	if err != nil {
		return SavedFile{}, fmt.Errorf("upload: open %s: %w", fh.Filename, err)
	}
	defer src.Close()

	key := dir + "/" + Name(fh.Filename)
	if err := in.disk.PutStream(key, src); err != nil {
		return SavedFile{}, fmt.Errorf("upload: store %s: %w", fh.Filename, err)
	}

	return SavedFile{
		Key:  key,
		URL:  in.disk.URL(key),
		Name: fh.Filename,
		Size: fh.Size,
	}, nil
}

// SaveAll stores up to MaxFilesPerRequest parts. Any failure aborts the
// whole batch: files already written in this batch are removed so a
// failed request leaves nothing behind.
func (in *Intake) SaveAll(fhs []*multipart.FileHeader, dir string) ([]SavedFile, error) {
	if len(fhs) > MaxFilesPerRequest {
		return nil, fmt.Errorf("%w: at most %d files per request", ErrRejected, MaxFilesPerRequest)
	}

	saved := make([]SavedFile, 0, len(fhs))
	for _, fh := range fhs {
		sf, err := in.Save(fh, dir)
		if err != nil {
			in.Remove(keys(saved)...)
			return nil, err
		}
		saved = append(saved, sf)
	}
	return saved, nil
}

// Remove deletes stored files best-effort: individual failures are logged
// and swallowed. Returns how many deletes succeeded.
func (in *Intake) Remove(storageKeys ...string) int {
	deleted := 0
	for _, key := range storageKeys {
		if key == "" {
			continue
		}
		if err := in.disk.Delete(key); err != nil {
			logger.Warn("upload: delete failed", "key", key, "error", err)
			continue
		}
		deleted++
	}
	return deleted
}

// URL resolves a stored key to its public URL.
func (in *Intake) URL(key string) string { return in.disk.URL(key) }

var (
	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._\-]+`)
	nameSeq     atomic.Uint64
)

// Name builds the storage file name: current time in milliseconds, a
// process-wide sequence number, then the sanitised original name. The
// sequence keeps same-named files in one batch from colliding when they
// land on the same millisecond.
func Name(original string) string {
	base := filepath.Base(original)
	base = unsafeChars.ReplaceAllString(base, "-")
	return fmt.Sprintf("%d-%d-%s", time.Now().UnixMilli(), nameSeq.Add(1), base)
}

func keys(files []SavedFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Key
	}
	return out
}
