package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/agrovia/agrovia/app/models"
	"github.com/agrovia/agrovia/pkg/orm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(s *models.Subscription) error {
	return r.db.Create(s).Error
}

// Exists reports whether the email or the client IP already subscribed.
func (r *SubscriptionRepository) Exists(email, ip string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Subscription{}).
		Where("email = ? OR ip = ?", email, ip).
		Count(&count).Error
	return count > 0, err
}

func (r *SubscriptionRepository) FindByToken(token string) (models.Subscription, error) {
	var s models.Subscription
	err := r.db.Where("token = ?", token).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s, ErrNotFound
	}
	return s, err
}

func (r *SubscriptionRepository) List(page, limit int) ([]models.Subscription, orm.Pagination, error) {
	var subs []models.Subscription
	p, err := orm.Paginate(r.db.Model(&models.Subscription{}), &subs, page, limit)
	return subs, p, err
}

func (r *SubscriptionRepository) Delete(id uint) error {
	return r.db.Delete(&models.Subscription{}, id).Error
}
