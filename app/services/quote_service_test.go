package services_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovia/agrovia/app/models"
	"github.com/agrovia/agrovia/app/repositories"
	"github.com/agrovia/agrovia/app/services"
	"github.com/agrovia/agrovia/pkg/upload"
)

func validQuote() services.QuoteInput {
	return services.QuoteInput{
		FullName:         "Amina Bello",
		Email:            "amina@example.com",
		ProductName:      "Dried Hibiscus Flower",
		CultivationTypes: []string{"organic"},
		Unit:             "mt",
		Volume:           "2 x 40ft",
		Incoterm:         "FOB",
		DeliveryDate:     "2026-10-01",
	}
}

func newQuoteService(t *testing.T) (*services.QuoteService, *repositories.QuoteRepository) {
	t.Helper()
	repo := repositories.NewQuoteRepository(newTestDB(t))
	intake, _ := newIntake(t)
	return services.NewQuoteService(repo, intake), repo
}

func TestSubmitInvalidEmailLeavesNoRow(t *testing.T) {
	svc, repo := newQuoteService(t)

	in := validQuote()
	in.Email = "not-an-email"

	_, errs, err := svc.Submit(in, nil)
	require.NoError(t, err)
	require.Contains(t, errs, "email")

	_, p, err := repo.List(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.Total)
}

func TestSubmitStoresAttachments(t *testing.T) {
	db := newTestDB(t)
	intake, disk := newIntake(t)
	svc := services.NewQuoteService(repositories.NewQuoteRepository(db), intake)

	quote, errs, err := svc.Submit(validQuote(), fileHeaders(t, "spec.pdf", "photos.docx"))
	require.NoError(t, err)
	require.Empty(t, errs)

	require.Len(t, quote.Attachments, 2)
	for _, key := range quote.Attachments {
		assert.True(t, disk.Exists(key), "attachment %s missing from disk", key)
	}
	assert.Equal(t, models.QuoteStatusPending, quote.Status)
}

func TestSubmitRejectsUnknownCultivation(t *testing.T) {
	svc, _ := newQuoteService(t)

	in := validQuote()
	in.CultivationTypes = []string{"organic", "hydroponic"}

	_, errs, err := svc.Submit(in, nil)
	require.NoError(t, err)
	assert.Contains(t, errs, "cultivation_types")
}

// Two attachments uploaded under the same client file name must each get
// their own stored file, not share one key.
func TestSubmitDuplicateAttachmentNames(t *testing.T) {
	db := newTestDB(t)
	intake, disk := newIntake(t)
	svc := services.NewQuoteService(repositories.NewQuoteRepository(db), intake)

	quote, errs, err := svc.Submit(validQuote(), fileHeaders(t, "spec.pdf", "spec.pdf"))
	require.NoError(t, err)
	require.Empty(t, errs)

	require.Len(t, quote.Attachments, 2)
	assert.NotEqual(t, quote.Attachments[0], quote.Attachments[1])
	for _, key := range quote.Attachments {
		assert.True(t, disk.Exists(key), "attachment %s missing from disk", key)
	}
}

func TestListPagination(t *testing.T) {
	db := newTestDB(t)
	intake, _ := newIntake(t)
	repo := repositories.NewQuoteRepository(db)
	svc := services.NewQuoteService(repo, intake)

	// Spread creation times a minute apart so the newest-first order is
	// unambiguous: buyer24 is the newest, buyer00 the oldest.
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		in := validQuote()
		in.Email = fmt.Sprintf("buyer%02d@example.com", i)
		quote, errs, err := svc.Submit(in, nil)
		require.NoError(t, err)
		require.Empty(t, errs)
		require.NoError(t, db.Model(&models.Quote{}).Where("id = ?", quote.ID).
			Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	quotes, p, err := repo.List(2, 10)
	require.NoError(t, err)
	require.Len(t, quotes, 10)
	assert.Equal(t, int64(25), p.Total)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 2, p.Page)

	// Page 1 holds buyers 24..15, so page 2 must hold 14..05, newest first.
	for i, q := range quotes {
		assert.Equal(t, fmt.Sprintf("buyer%02d@example.com", 14-i), q.Email)
	}

	svcQuotes, _, err := svc.List(3, 10)
	require.NoError(t, err)
	assert.Len(t, svcQuotes, 5)
}

func TestUpdateStatusMovesForwardOnly(t *testing.T) {
	svc, _ := newQuoteService(t)

	quote, errs, err := svc.Submit(validQuote(), nil)
	require.NoError(t, err)
	require.Empty(t, errs)

	quote, err = svc.UpdateStatus(quote.ID, models.QuoteStatusRead)
	require.NoError(t, err)
	assert.Equal(t, models.QuoteStatusRead, quote.Status)

	_, err = svc.UpdateStatus(quote.ID, models.QuoteStatusPending)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	// Skipping ahead is fine.
	quote, err = svc.UpdateStatus(quote.ID, models.QuoteStatusClosed)
	require.NoError(t, err)
	assert.Equal(t, models.QuoteStatusClosed, quote.Status)
}

func TestUpdateRevalidatesInput(t *testing.T) {
	svc, repo := newQuoteService(t)

	quote, errs, err := svc.Submit(validQuote(), nil)
	require.NoError(t, err)
	require.Empty(t, errs)

	bad := validQuote()
	bad.Email = "broken"
	_, errs, err = svc.Update(quote.ID, bad)
	require.NoError(t, err)
	require.Contains(t, errs, "email")

	stored, err := repo.FindByID(quote.ID)
	require.NoError(t, err)
	assert.Equal(t, "amina@example.com", stored.Email)
}

func TestUpdatePreservesStatusAndAttachments(t *testing.T) {
	db := newTestDB(t)
	intake, _ := newIntake(t)
	svc := services.NewQuoteService(repositories.NewQuoteRepository(db), intake)

	quote, errs, err := svc.Submit(validQuote(), fileHeaders(t, "spec.pdf"))
	require.NoError(t, err)
	require.Empty(t, errs)

	_, err = svc.UpdateStatus(quote.ID, models.QuoteStatusRead)
	require.NoError(t, err)

	in := validQuote()
	in.Volume = "5 x 20ft"
	updated, errs, err := svc.Update(quote.ID, in)
	require.NoError(t, err)
	require.Empty(t, errs)

	assert.Equal(t, "5 x 20ft", updated.Volume)
	assert.Equal(t, models.QuoteStatusRead, updated.Status)
	assert.Len(t, updated.Attachments, 1)
}

func TestDeleteSurvivesDiskFailure(t *testing.T) {
	db := newTestDB(t)
	_, disk := newIntake(t)
	intake := upload.New(&brokenDeleteDisk{Disk: disk})

	svc := services.NewQuoteService(repositories.NewQuoteRepository(db), intake)

	quote, errs, err := svc.Submit(validQuote(), fileHeaders(t, "spec.pdf"))
	require.NoError(t, err)
	require.Empty(t, errs)

	require.NoError(t, svc.Delete(quote.ID))

	_, err = svc.Get(quote.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
