package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovia/agrovia/app/repositories"
	"github.com/agrovia/agrovia/app/services"
	"github.com/agrovia/agrovia/pkg/storage"
	"github.com/agrovia/agrovia/pkg/upload"
)

func newCatalog(t *testing.T) (*services.CatalogService, storage.Disk) {
	t.Helper()
	db := newTestDB(t)
	disk := storage.NewLocal(t.TempDir(), "http://localhost:8080/uploads")
	return services.NewCatalogService(repositories.NewProductRepository(db), upload.New(disk)), disk
}

func TestCreateDerivesSlugFromName(t *testing.T) {
	svc, _ := newCatalog(t)

	product, errs, err := svc.Create(services.ProductInput{Name: "Dried Hibiscus Flower!"}, nil)
	require.NoError(t, err)
	require.Empty(t, errs)
	assert.Equal(t, "dried-hibiscus-flower", product.Slug)

	got, err := svc.Get("dried-hibiscus-flower")
	require.NoError(t, err)
	assert.Equal(t, product.ID, got.ID)
}

func TestCreateRejectsDuplicateSlug(t *testing.T) {
	svc, _ := newCatalog(t)

	_, errs, err := svc.Create(services.ProductInput{Name: "Raw Cashew Nuts"}, nil)
	require.NoError(t, err)
	require.Empty(t, errs)

	// Different punctuation, same slug.
	_, _, err = svc.Create(services.ProductInput{Name: "Raw Cashew Nuts!!"}, nil)
	assert.ErrorIs(t, err, services.ErrSlugTaken)
}

func TestCreateStoresImages(t *testing.T) {
	svc, disk := newCatalog(t)

	product, errs, err := svc.Create(
		services.ProductInput{Name: "Dried Split Ginger"},
		fileHeaders(t, "front.jpg", "pile.png"),
	)
	require.NoError(t, err)
	require.Empty(t, errs)

	require.Len(t, product.Images, 2)
	for _, key := range product.Images {
		assert.True(t, disk.Exists(key))
	}
}

func TestUpdateEnforcesImageCap(t *testing.T) {
	svc, _ := newCatalog(t)

	product, errs, err := svc.Create(
		services.ProductInput{Name: "Sesame Seeds"},
		fileHeaders(t, "a.jpg", "b.jpg", "c.jpg"),
	)
	require.NoError(t, err)
	require.Empty(t, errs)

	// 3 kept + 2 new would exceed the cap of 4.
	_, _, err = svc.Update(product.ID, services.ProductInput{Name: "Sesame Seeds"},
		fileHeaders(t, "d.jpg", "e.jpg"))
	assert.ErrorIs(t, err, services.ErrTooManyImages)

	// 3 kept + 1 new is exactly the cap.
	updated, errs, err := svc.Update(product.ID, services.ProductInput{Name: "Sesame Seeds"},
		fileHeaders(t, "d.jpg"))
	require.NoError(t, err)
	require.Empty(t, errs)
	assert.Len(t, updated.Images, 4)
}

func TestUpdateRemovesListedImages(t *testing.T) {
	svc, disk := newCatalog(t)

	product, errs, err := svc.Create(
		services.ProductInput{Name: "Soybeans"},
		fileHeaders(t, "keep.jpg", "drop.jpg"),
	)
	require.NoError(t, err)
	require.Empty(t, errs)
	require.Len(t, product.Images, 2)

	dropKey := product.Images[1]
	updated, errs, err := svc.Update(product.ID, services.ProductInput{
		Name:         "Soybeans",
		RemoveImages: []string{dropKey},
	}, nil)
	require.NoError(t, err)
	require.Empty(t, errs)

	assert.Len(t, updated.Images, 1)
	assert.False(t, disk.Exists(dropKey), "removed image still on disk")
	assert.True(t, disk.Exists(updated.Images[0]))
}

func TestUpdateRenameChecksSlug(t *testing.T) {
	svc, _ := newCatalog(t)

	_, errs, err := svc.Create(services.ProductInput{Name: "Dried Chilli"}, nil)
	require.NoError(t, err)
	require.Empty(t, errs)

	second, errs, err := svc.Create(services.ProductInput{Name: "Dried Turmeric"}, nil)
	require.NoError(t, err)
	require.Empty(t, errs)

	_, _, err = svc.Update(second.ID, services.ProductInput{Name: "Dried Chilli"}, nil)
	assert.ErrorIs(t, err, services.ErrSlugTaken)
}

func TestBulkDeleteSkipsUnknownIDs(t *testing.T) {
	svc, _ := newCatalog(t)

	first, _, err := svc.Create(services.ProductInput{Name: "Gum Arabic"}, nil)
	require.NoError(t, err)
	second, _, err := svc.Create(services.ProductInput{Name: "Shea Butter"}, nil)
	require.NoError(t, err)

	deleted, err := svc.BulkDelete([]uint{first.ID, second.ID, 9999})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, err = svc.GetByID(first.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestDeleteRemovesImagesFromDisk(t *testing.T) {
	svc, disk := newCatalog(t)

	product, errs, err := svc.Create(
		services.ProductInput{Name: "Tiger Nuts"},
		fileHeaders(t, "sack.webp"),
	)
	require.NoError(t, err)
	require.Empty(t, errs)
	key := product.Images[0]

	require.NoError(t, svc.Delete(product.ID))
	assert.False(t, disk.Exists(key))
}
