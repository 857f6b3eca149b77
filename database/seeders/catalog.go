package seeders

import (
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/agrovia/agrovia/app/models"
)

func init() {
	Register("catalog", SeedCatalog)
}

// SeedCatalog inserts a starter product set so a fresh install has a
// browsable catalog. Existing slugs are left untouched.
func SeedCatalog(db *gorm.DB) error {
	products := []models.Product{
		{
			Name:            "Dried Hibiscus Flower",
			Description:     "Sun-dried hibiscus calyces, deep red, export grade.",
			Origin:          "Nigeria",
			Moisture:        "max 10%",
			Color:           "dark red",
			Form:            "whole flower",
			Cultivation:     "rain-fed",
			CultivationType: "conventional",
			Purity:          "99%",
			Admixture:       "max 1%",
			MeasurementUnit: "mt",
			Stock:           120,
		},
		{
			Name:            "Raw Cashew Nuts",
			Description:     "In-shell raw cashew nuts, current season crop.",
			Origin:          "Nigeria",
			Moisture:        "max 8%",
			Form:            "in-shell",
			CultivationType: "conventional",
			Grades:          "W320 outturn 48-52 lbs",
			Defection:       "max 8%",
			MeasurementUnit: "mt",
			Stock:           300,
		},
		{
			Name:            "Dried Split Ginger",
			Description:     "Machine-split, fully dried ginger rhizomes.",
			Origin:          "Kaduna, Nigeria",
			Moisture:        "max 10%",
			Color:           "pale yellow",
			Form:            "split",
			CultivationType: "organic",
			Purity:          "98%",
			Admixture:       "max 2%",
			MeasurementUnit: "mt",
			Stock:           80,
		},
	}

	for i := range products {
		products[i].Slug = slug.Make(products[i].Name)

		var count int64
		if err := db.Model(&models.Product{}).
			Where("slug = ?", products[i].Slug).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&products[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
