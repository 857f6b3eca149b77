// Package repositories holds the gorm data access layer. Every repository
// takes its *gorm.DB in the constructor so tests can hand it an isolated
// database.
package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/agrovia/agrovia/app/models"
	"github.com/agrovia/agrovia/pkg/orm"
)

// ErrNotFound is returned when an identity does not resolve to a row.
var ErrNotFound = errors.New("record not found")

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// Create persists a new quote row.
func (r *QuoteRepository) Create(q *models.Quote) error {
	return r.db.Create(q).Error
}

// FindByID loads one quote.
func (r *QuoteRepository) FindByID(id uint) (models.Quote, error) {
	var q models.Quote
	err := r.db.First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return q, ErrNotFound
	}
	return q, err
}

// List returns one page of quotes, newest first.
func (r *QuoteRepository) List(page, limit int) ([]models.Quote, orm.Pagination, error) {
	var quotes []models.Quote
	p, err := orm.Paginate(r.db.Model(&models.Quote{}), &quotes, page, limit)
	return quotes, p, err
}

// Update overwrites the stored row with q (last writer wins).
func (r *QuoteRepository) Update(q *models.Quote) error {
	return r.db.Save(q).Error
}

// Delete removes the row.
func (r *QuoteRepository) Delete(id uint) error {
	return r.db.Delete(&models.Quote{}, id).Error
}
