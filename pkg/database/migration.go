package database

import (
	"github.com/restockr/auth-service/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the users table. The unique indexes on
// email and phone_number come from the model tags; the repository's
// conflict mapping depends on them being in place.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.User{})
}
