package upload_test

import (
	"bytes"
	"errors"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/agrovia/agrovia/pkg/storage"
	"github.com/agrovia/agrovia/pkg/upload"
)

func TestSaveAllStoresEveryFile(t *testing.T) {
	disk := storage.NewLocal(t.TempDir(), "http://localhost:8080/uploads")
	in := upload.New(disk)

	saved, err := in.SaveAll(fileHeaders(t, "spec.pdf", "photos.docx"), "quotes")
	if err != nil {
		t.Fatalf("save all: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("expected 2 saved files, got %d", len(saved))
	}
	for _, f := range saved {
		if !strings.HasPrefix(f.Key, "quotes/") {
			t.Errorf("key %q not under quotes/", f.Key)
		}
		if !disk.Exists(f.Key) {
			t.Errorf("file %q not on disk", f.Key)
		}
	}
}

// Two attachments with the same client name must end up under distinct
// keys, each resolving to its own stored file.
func TestSaveAllSameNameGetsDistinctKeys(t *testing.T) {
	disk := storage.NewLocal(t.TempDir(), "http://localhost:8080/uploads")
	in := upload.New(disk)

	saved, err := in.SaveAll(fileHeaders(t, "spec.pdf", "spec.pdf"), "quotes")
	if err != nil {
		t.Fatalf("save all: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("expected 2 saved files, got %d", len(saved))
	}
	if saved[0].Key == saved[1].Key {
		t.Fatalf("same-named files collided on key %q", saved[0].Key)
	}
	if files, _ := disk.Files("quotes"); len(files) != 2 {
		t.Errorf("expected 2 files on disk, got %v", files)
	}
}

func TestSaveRejectsDisallowedExtension(t *testing.T) {
	disk := storage.NewLocal(t.TempDir(), "http://localhost:8080/uploads")
	in := upload.New(disk)

	_, err := in.SaveAll(fileHeaders(t, "malware.exe"), "quotes")
	if err == nil {
		t.Fatal("expected .exe to be rejected")
	}
	if !errors.Is(err, upload.ErrRejected) {
		t.Errorf("expected ErrRejected, got %v", err)
	}
	if files, _ := disk.Files("quotes"); len(files) != 0 {
		t.Errorf("rejected upload left files behind: %v", files)
	}
}

func TestSaveAllRollsBackOnFailure(t *testing.T) {
	disk := storage.NewLocal(t.TempDir(), "http://localhost:8080/uploads")
	in := upload.New(disk)

	// Second file fails the type check; the first must be removed again.
	if _, err := in.SaveAll(fileHeaders(t, "good.pdf", "bad.sh"), "quotes"); err == nil {
		t.Fatal("expected batch to fail")
	}
	if files, _ := disk.Files("quotes"); len(files) != 0 {
		t.Errorf("failed batch left files behind: %v", files)
	}
}

func TestSaveAllEnforcesFileCount(t *testing.T) {
	disk := storage.NewLocal(t.TempDir(), "http://localhost:8080/uploads")
	in := upload.New(disk)

	names := []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf", "e.pdf"}
	_, err := in.SaveAll(fileHeaders(t, names...), "quotes")
	if err == nil {
		t.Fatalf("expected more than %d files to be rejected", upload.MaxFilesPerRequest)
	}
	if !errors.Is(err, upload.ErrRejected) {
		t.Errorf("expected ErrRejected, got %v", err)
	}
}

func TestNameSanitisesOriginal(t *testing.T) {
	got := upload.Name("my spec (final) v2.pdf")
	if strings.ContainsAny(got, " ()") {
		t.Errorf("unsafe characters survived: %q", got)
	}
	if !strings.HasSuffix(got, ".pdf") {
		t.Errorf("extension lost: %q", got)
	}
}

func TestRemoveCountsSuccesses(t *testing.T) {
	disk := storage.NewLocal(t.TempDir(), "http://localhost:8080/uploads")
	in := upload.New(disk)

	saved, err := in.SaveAll(fileHeaders(t, "one.pdf", "two.pdf"), "quotes")
	if err != nil {
		t.Fatalf("save all: %v", err)
	}

	deleted := in.Remove(saved[0].Key, saved[1].Key, "")
	if deleted != 2 {
		t.Errorf("expected 2 deletes, got %d", deleted)
	}
}

// fileHeaders builds real multipart file headers by writing a form and
// reading it back, the same shape a controller sees.
func fileHeaders(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range names {
		fw, err := w.CreateFormFile("attachments", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte("content of " + name)); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() }) //nolint:errcheck
	return form.File["attachments"]
}
