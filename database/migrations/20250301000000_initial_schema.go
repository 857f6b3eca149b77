package migrations

import (
	"gorm.io/gorm"

	"github.com/agrovia/agrovia/app/models"
	"github.com/agrovia/agrovia/pkg/migration"
)

func init() {
	migration.Register("20250301000000_initial_schema", &initialSchema{})
}

// initialSchema creates every table the application ships with.
type initialSchema struct{}

func (m *initialSchema) Up(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Quote{},
		&models.Message{},
		&models.Reply{},
		&models.Subscription{},
		&models.Setting{},
	)
}

func (m *initialSchema) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(
		"settings",
		"subscriptions",
		"replies",
		"messages",
		"quotes",
		"products",
		"users",
	)
}
