package main

import (
	"context"
	"fmt"
	"io"

	"github.com/kbukum/catalog/bootstrap"
	"github.com/kbukum/catalog/database"
	"github.com/kbukum/catalog/database/migration"
	"github.com/kbukum/catalog/logger"
	"github.com/kbukum/catalog/migrations"
)

// runMigrate applies, rolls back or reports the embedded schema migrations
// without starting the HTTP server.
func runMigrate(ctx context.Context, cfg *AppConfig, action string, stdout io.Writer) error {
	if action != "up" && action != "down" && action != "version" {
		return errUsage
	}
	// The task drives the migrations itself.
	cfg.Database.AutoMigrate = false

	app, err := bootstrap.NewApp(cfg, bootstrap.WithSummaryOutput(io.Discard))
	if err != nil {
		return err
	}
	db := database.NewComponent(cfg.Database, app.Logger)
	if err := app.RegisterComponent(db); err != nil {
		return err
	}

	return app.RunTask(ctx, func(context.Context) error {
		gormDB := db.DB().GormDB
		switch action {
		case "up":
			if err := migration.MigrateUp(gormDB, migrations.FS, ".", migration.SQLite); err != nil {
				return err
			}
		case "down":
			if err := migration.MigrateDown(gormDB, migrations.FS, ".", migration.SQLite); err != nil {
				return err
			}
		}
		version, dirty, err := migration.MigrateVersion(gormDB, migrations.FS, ".", migration.SQLite)
		if err != nil {
			return err
		}
		app.Logger.Info("Migration finished", logger.Fields("action", action, "version", version, "dirty", dirty))
		_, err = fmt.Fprintf(stdout, "version=%d dirty=%t\n", version, dirty)
		return err
	})
}
