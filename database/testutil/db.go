package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/kbukum/catalog/database"
	"github.com/kbukum/catalog/database/migration"
	"github.com/kbukum/catalog/logger"
	"github.com/kbukum/catalog/migrations"
)

// NewDB opens a SQLite database in t.TempDir() with the service schema
// applied. It is closed when the test ends.
func NewDB(t testing.TB) *database.DB {
	t.Helper()

	cfg := database.Config{
		DSN:        filepath.Join(t.TempDir(), "test.db"),
		MaxRetries: 1,
		LogLevel:   "silent",
	}
	db, err := database.Open(context.Background(), cfg, logger.Nop())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := migration.MigrateUp(db.GormDB, migrations.FS, ".", migration.SQLite); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}
