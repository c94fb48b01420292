package database

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/catalog/component"
	"github.com/kbukum/catalog/logger"
	"github.com/kbukum/catalog/migrations"
)

func newTestComponent(t *testing.T, autoMigrate bool) *Component {
	t.Helper()
	cfg := Config{
		DSN:         "sqlite:///" + filepath.Join(t.TempDir(), "component.db"),
		AutoMigrate: autoMigrate,
		MaxRetries:  1,
		LogLevel:    "silent",
	}
	return NewComponent(cfg, logger.Nop()).WithMigrations(migrations.FS)
}

func TestComponent_Lifecycle(t *testing.T) {
	ctx := context.Background()
	c := newTestComponent(t, true)

	if h := c.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s (%s)", h.Status, h.Message)
	}
	if !c.DB().GormDB.Migrator().HasTable("accounts") {
		t.Error("expected migrations to create accounts")
	}

	if err := c.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("second Stop should be a no-op: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy after stop, got %s", h.Status)
	}
}

func TestComponent_StartWithoutMigrate(t *testing.T) {
	ctx := context.Background()
	c := newTestComponent(t, false)
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer c.Stop(ctx)

	if c.DB().GormDB.Migrator().HasTable("accounts") {
		t.Error("migrations should not run when auto_migrate is off")
	}
}

func TestComponent_StartRejectsBadDSN(t *testing.T) {
	c := NewComponent(Config{DSN: "postgres://localhost/db"}, logger.Nop())
	if err := c.Start(context.Background()); err == nil {
		t.Fatal("expected start to fail for unsupported scheme")
	}
}

func TestComponent_Describe(t *testing.T) {
	c := newTestComponent(t, true)
	d := c.Describe()
	if d.Type != "database" {
		t.Errorf("expected type database, got %q", d.Type)
	}
	if !strings.Contains(d.Details, "migrate=on") {
		t.Errorf("expected migrate flag in %q", d.Details)
	}
}
