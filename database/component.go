package database

import (
	"context"
	"fmt"
	"io/fs"
	"sync"

	"github.com/kbukum/catalog/component"
	"github.com/kbukum/catalog/database/migration"
	"github.com/kbukum/catalog/logger"
)

// Component wraps DB and implements component.Component for lifecycle management.
type Component struct {
	cfg        Config
	log        *logger.Logger
	migrations fs.FS

	mu sync.RWMutex
	db *DB
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a database component for use with the component registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{
		cfg: cfg,
		log: log.WithComponent("database"),
	}
}

// WithMigrations sets the SQL migrations applied on Start when
// cfg.AutoMigrate is true. Files must sit at the root of fsys.
func (c *Component) WithMigrations(fsys fs.FS) *Component {
	c.migrations = fsys
	return c
}

// DB returns the underlying *DB, or nil if not started.
func (c *Component) DB() *DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// Name returns the component name.
func (c *Component) Name() string { return "database" }

// Start connects to the database and applies pending migrations.
func (c *Component) Start(ctx context.Context) error {
	db, err := Open(ctx, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("database start: %w", err)
	}

	if c.cfg.AutoMigrate && c.migrations != nil {
		if err := migration.MigrateUp(db.GormDB, c.migrations, ".", migration.SQLite); err != nil {
			_ = db.Close()
			return fmt.Errorf("database migrate: %w", err)
		}
		version, _, _ := migration.MigrateVersion(db.GormDB, c.migrations, ".", migration.SQLite)
		c.log.Info("Schema up to date", logger.Fields("version", version))
	}

	c.mu.Lock()
	c.db = db
	c.mu.Unlock()
	return nil
}

// Stop closes the connection pool.
func (c *Component) Stop(_ context.Context) error {
	c.mu.RLock()
	db := c.db
	c.mu.RUnlock()
	if db == nil {
		return nil
	}
	return db.Close()
}

// Health pings the database.
func (c *Component) Health(ctx context.Context) component.Health {
	db := c.DB()
	if db == nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "database not initialized",
		}
	}
	if err := db.PingContext(ctx); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("ping failed: %v", err),
		}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe returns the startup summary line.
func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("sqlite %s pool=%d/%d", c.cfg.DSN, c.cfg.MaxOpenConns, c.cfg.MaxIdleConns)
	if c.cfg.AutoMigrate {
		details += " migrate=on"
	}
	return component.Description{Name: "Database", Type: "database", Details: details}
}
