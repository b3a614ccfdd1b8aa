package postgres

import (
	"shipping/internal/adapters/out/postgres/orderrepo"
	"shipping/internal/adapters/out/postgres/userrepo"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the users and orders tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&userrepo.UserDTO{}, &orderrepo.OrderDTO{})
}
