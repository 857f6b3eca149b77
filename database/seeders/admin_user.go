package seeders

import (
	"gorm.io/gorm"

	"github.com/agrovia/agrovia/app/models"
	"github.com/agrovia/agrovia/config"
	"github.com/agrovia/agrovia/pkg/auth"
)

func init() {
	Register("admin_user", SeedAdminUser)
}

// SeedAdminUser creates the initial dashboard account if none exists.
// Credentials come from ADMIN_EMAIL / ADMIN_PASSWORD.
func SeedAdminUser(db *gorm.DB) error {
	email := config.Get("ADMIN_EMAIL", "admin@agrovia.example")

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(config.Get("ADMIN_PASSWORD", "change-me-now"))
	if err != nil {
		return err
	}

	return db.Create(&models.User{
		Name:     "Administrator",
		Email:    email,
		Password: hash,
		Role:     "admin",
	}).Error
}
