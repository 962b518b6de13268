package repository

import (
	"kosthub/internal/domain"

	"gorm.io/gorm"
)

// AutoMigrate keeps the schema in sync with the row models. Order matters
// for foreign key creation on fresh databases.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&kostModel{},
		&bookingModel{},
		&domain.Payment{},
		&notificationModel{},
	)
}
