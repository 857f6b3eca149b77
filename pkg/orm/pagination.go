// Package orm holds small helpers layered over gorm, shared by every
// repository.
package orm

import (
	"math"

	"gorm.io/gorm"
)

const (
	// DefaultLimit is the page size used when the caller sends none.
	DefaultLimit = 20

	// MaxLimit is the server-wide ceiling on page size. Every paginated
	// endpoint clamps to this — there is exactly one limit policy.
	MaxLimit = 100
)

// Pagination describes one page of a list response.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Clamp normalises caller-supplied page/limit to valid bounds.
func Clamp(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Paginate counts the rows matched by q, then loads one page into dest
// ordered newest-first. q must already carry the model and any filters.
func Paginate(q *gorm.DB, dest interface{}, page, limit int) (Pagination, error) {
	page, limit = Clamp(page, limit)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	err := q.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(dest).Error
	if err != nil {
		return Pagination{}, err
	}

	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}
