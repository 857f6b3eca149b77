package services_test

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/agrovia/agrovia/app/models"
	"github.com/agrovia/agrovia/pkg/storage"
	"github.com/agrovia/agrovia/pkg/upload"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Quote{},
		&models.Message{},
		&models.Reply{},
		&models.Subscription{},
		&models.Setting{},
	))
	return db
}

// newIntake returns a file intake over a temp-dir disk.
func newIntake(t *testing.T) (*upload.Intake, storage.Disk) {
	t.Helper()
	disk := storage.NewLocal(t.TempDir(), "http://localhost:8080/uploads")
	return upload.New(disk), disk
}

// fileHeaders builds multipart file headers the way a controller would
// receive them.
func fileHeaders(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range names {
		fw, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("content of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() }) //nolint:errcheck
	return form.File["files"]
}

// brokenDeleteDisk wraps a real disk but refuses every delete, modelling
// a flaky object store.
type brokenDeleteDisk struct {
	storage.Disk
}

func (d *brokenDeleteDisk) Delete(path string) error {
	return errors.New("disk unavailable")
}
