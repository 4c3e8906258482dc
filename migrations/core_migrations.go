package migrations

import (
	"tournament-api/packages/core/models"

	"gorm.io/gorm"
)

func GetCoreMigrations() []MigrationDefinition {
	return []MigrationDefinition{
		{
			Name: "2025_01_02_000000_create_players_table",
			Up: func(db *gorm.DB) error {
				return db.Migrator().CreateTable(&models.Player{})
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable(&models.Player{})
			},
		},
		{
			Name: "2025_01_02_000001_create_teams_table",
			Up: func(db *gorm.DB) error {
				return db.Migrator().CreateTable(&models.Team{})
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable(&models.Team{})
			},
		},
		{
			Name: "2025_01_02_000002_create_matches_table",
			Up: func(db *gorm.DB) error {
				return db.Migrator().CreateTable(&models.Match{})
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable(&models.Match{})
			},
		},
		{
			Name: "2025_01_03_000000_add_matches_schedule_index",
			Up: func(db *gorm.DB) error {
				return db.Exec("CREATE INDEX IF NOT EXISTS idx_matches_schedule ON matches (start_time, field)").Error
			},
			Down: func(db *gorm.DB) error {
				return db.Exec("DROP INDEX IF EXISTS idx_matches_schedule").Error
			},
		},
	}
}
