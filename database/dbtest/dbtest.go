// Package dbtest opens throwaway SQLite stores for package tests.
package dbtest

import (
	"testing"
	"time"

	"github.com/rpupo63/portfolio-backend/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated in-memory database that is closed when the test ends
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.New(db).Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// New wraps Open in the repository aggregate
func New(t testing.TB) database.Database {
	t.Helper()
	return database.New(Open(t))
}
