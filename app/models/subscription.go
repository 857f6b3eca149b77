package models

import "gorm.io/gorm"

// Subscription is a newsletter signup, deduplicated by email or by the
// originating network address.
type Subscription struct {
	gorm.Model
	Email string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	IP    string `gorm:"size:64;index"                 json:"-"`
	Token string `gorm:"size:64;not null;uniqueIndex"  json:"-"` // unsubscribe token
}
