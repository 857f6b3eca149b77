package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/agrovia/agrovia/app/models"
	"github.com/agrovia/agrovia/pkg/orm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(p *models.Product) error {
	return r.db.Create(p).Error
}

func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var p models.Product
	err := r.db.First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, ErrNotFound
	}
	return p, err
}

func (r *ProductRepository) FindBySlug(slug string) (models.Product, error) {
	var p models.Product
	err := r.db.Where("slug = ?", slug).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, ErrNotFound
	}
	return p, err
}

// SlugExists reports whether any product already uses slug.
func (r *ProductRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Product{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *ProductRepository) List(page, limit int) ([]models.Product, orm.Pagination, error) {
	var products []models.Product
	p, err := orm.Paginate(r.db.Model(&models.Product{}), &products, page, limit)
	return products, p, err
}

func (r *ProductRepository) Update(p *models.Product) error {
	return r.db.Save(p).Error
}

func (r *ProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// FindByIDs loads every product whose ID is in ids.
func (r *ProductRepository) FindByIDs(ids []uint) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("id IN ?", ids).Find(&products).Error
	return products, err
}

// DeleteByIDs removes all matching rows in one statement and returns how
// many were deleted.
func (r *ProductRepository) DeleteByIDs(ids []uint) (int64, error) {
	res := r.db.Delete(&models.Product{}, ids)
	return res.RowsAffected, res.Error
}
