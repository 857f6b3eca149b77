package models

import "gorm.io/gorm"

// Setting is one key/value pair of site configuration editable from the
// admin dashboard (contact email, social links, banner text, …).
type Setting struct {
	gorm.Model
	Key   string `gorm:"size:100;not null;uniqueIndex" json:"key"`
	Value string `gorm:"type:text"                     json:"value"`
}
