package models

import "gorm.io/gorm"

// MaxProductImages caps the image set per product.
const MaxProductImages = 4

// Product is a sellable commodity listing.
type Product struct {
	gorm.Model
	Name        string     `gorm:"size:255;not null;index"     json:"name"`
	Slug        string     `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description string     `gorm:"type:text"                   json:"description"`
	Images      StringList `gorm:"type:text"                   json:"images"` // storage keys, ≤ MaxProductImages

	// Commodity attributes, displayed verbatim on the product page.
	Origin          string `gorm:"size:255" json:"origin"`
	Moisture        string `gorm:"size:100" json:"moisture"`
	Color           string `gorm:"size:100" json:"color"`
	Form            string `gorm:"size:100" json:"form"`
	Cultivation     string `gorm:"size:100" json:"cultivation"`
	CultivationType string `gorm:"size:100" json:"cultivation_type"`
	Purity          string `gorm:"size:100" json:"purity"`
	Grades          string `gorm:"size:100" json:"grades"`
	Admixture       string `gorm:"size:100" json:"admixture"`
	Defection       string `gorm:"size:100" json:"defection"`
	MeasurementUnit string `gorm:"size:50"  json:"measurement_unit"`

	Stock int `gorm:"not null;default:0" json:"stock"`
}
