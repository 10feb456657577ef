// Package storetest opens throwaway migrated stores for tests.
package storetest

import (
	"log/slog"
	"testing"

	"aiqr-api/config"
	"aiqr-api/store"

	"gorm.io/gorm"
)

// New returns a store over a private in-memory database
func New(t testing.TB) (*store.GormStore, *gorm.DB) {
	t.Helper()
	db, err := config.OpenDB(":memory:", slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return store.NewGormStore(db), db
}
