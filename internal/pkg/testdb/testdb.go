// Package testdb opens throwaway in-memory sqlite databases for service
// tests. Each test gets its own database, named after the test so parallel
// packages never collide.
package testdb

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a gorm handle backed by an in-memory sqlite database with the
// given models migrated. Shared cache keeps the database alive across the
// pooled connections gorm opens.
func Open(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
