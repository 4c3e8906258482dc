package migrations

import (
	"tournament-api/packages/auth/models"

	"gorm.io/gorm"
)

func GetAuthMigrations() []MigrationDefinition {
	return []MigrationDefinition{
		{
			Name: "2025_01_01_000000_create_users_table",
			Up: func(db *gorm.DB) error {
				return db.Migrator().CreateTable(&models.User{})
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable(&models.User{})
			},
		},
		{
			Name: "2025_01_01_000001_create_refresh_tokens_table",
			Up: func(db *gorm.DB) error {
				return db.Migrator().CreateTable(&models.RefreshToken{})
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable(&models.RefreshToken{})
			},
		},
	}
}
