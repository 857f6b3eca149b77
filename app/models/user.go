package models

import "gorm.io/gorm"

// User is a dashboard account. Only the admin role exists today; the
// column is kept so editor-level roles can be added without a migration.
type User struct {
	gorm.Model
	Name     string `gorm:"size:255;not null"             json:"name"`
	Email    string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password string `gorm:"size:255;not null"             json:"-"` // bcrypt hash
	Role     string `gorm:"size:50;not null;default:admin" json:"role"`
}
