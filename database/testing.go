package database

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTest replaces the package DB with an in-memory sqlite database for
// the duration of one test. The single-connection cap keeps every query
// on the same in-memory store.
func OpenTest(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(models()...); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	prev := DB
	DB = db
	t.Cleanup(func() {
		DB = prev
		_ = sqlDB.Close()
	})

	return db
}
