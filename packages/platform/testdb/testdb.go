// Package testdb opens throwaway sqlite databases migrated with the real
// migrator, for tests across packages.
package testdb

import (
	"path/filepath"
	"testing"

	"tournament-api/migrations"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New returns a migrated database living in the test's temp dir.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tournament.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	migrator, err := migrations.NewDefaultMigrator(db)
	if err != nil {
		t.Fatalf("migrator: %v", err)
	}
	if err := migrator.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}
