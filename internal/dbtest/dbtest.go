// Package dbtest opens throwaway in-memory SQLite stores for tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"batani-inventory/pkg/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Open returns a migrated database private to the calling test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString())

	db, err := database.Connect(database.Options{
		Driver:   database.DriverSQLite,
		DSN:      dsn,
		LogLevel: "silent",
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
