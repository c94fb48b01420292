package main

import (
	"context"
	"fmt"
	"io"

	"github.com/kbukum/catalog/account"
	"github.com/kbukum/catalog/auth"
	"github.com/kbukum/catalog/auth/jwt"
	"github.com/kbukum/catalog/auth/password"
	"github.com/kbukum/catalog/bootstrap"
	"github.com/kbukum/catalog/catalog"
	"github.com/kbukum/catalog/database"
	"github.com/kbukum/catalog/migrations"
	"github.com/kbukum/catalog/observability"
	"github.com/kbukum/catalog/server"
	"github.com/kbukum/catalog/server/middleware"
)

// newApp builds the service: telemetry and database start first, then the
// configure phase assembles the domain on top of them and registers the
// HTTP server, which starts last.
func newApp(cfg *AppConfig, stdout io.Writer) (*bootstrap.App[*AppConfig], error) {
	app, err := bootstrap.NewApp(cfg, bootstrap.WithSummaryOutput(stdout))
	if err != nil {
		return nil, err
	}

	db, err := registerInfrastructure(app)
	if err != nil {
		return nil, err
	}

	app.OnConfigure(func(_ context.Context, a *bootstrap.App[*AppConfig]) error {
		return configure(a, db.DB())
	})
	return app, nil
}

func registerInfrastructure(app *bootstrap.App[*AppConfig]) (*database.Component, error) {
	cfg := app.Cfg
	tel := observability.NewComponent(cfg.Telemetry, observability.Resource{
		ServiceName:    cfg.Name,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
	})
	if err := app.RegisterComponent(tel); err != nil {
		return nil, err
	}
	db := database.NewComponent(cfg.Database, app.Logger).WithMigrations(migrations.FS)
	if err := app.RegisterComponent(db); err != nil {
		return nil, err
	}
	return db, nil
}

func configure(app *bootstrap.App[*AppConfig], db *database.DB) error {
	cfg := app.Cfg

	jwtCfg := cfg.Auth.JWTConfig()
	tokens, err := jwt.NewService(&jwtCfg)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}
	metrics, err := observability.NewAuthMetrics(observability.Meter())
	if err != nil {
		return fmt.Errorf("auth metrics: %w", err)
	}

	accounts := account.NewStore(db)
	accountSvc, err := account.NewService(accounts, password.NewHasher(cfg.Auth.Password), tokens,
		account.WithMetrics(metrics),
		account.WithLogger(app.Logger.WithComponent("account")),
	)
	if err != nil {
		return err
	}
	requireAuth := middleware.RequireAuth(auth.NewGate(tokens, account.NewLookup(accounts)), metrics)

	catalogSvc := catalog.NewService(catalog.NewStore(db), app.Logger.WithComponent("catalog"))

	srv := server.New(cfg.Server, app.Logger)
	srv.ApplyDefaults(cfg.Name, cfg.Environment, app.Components.HealthAll)
	engine := srv.GinEngine()
	account.NewHandler(accountSvc).RegisterRoutes(engine, requireAuth)
	catalog.NewHandler(catalogSvc).RegisterRoutes(engine, requireAuth)

	app.Summary.TrackBusinessComponent("AccountService", "service", "database", "jwt", "password")
	app.Summary.TrackBusinessComponent("CatalogService", "service", "database")
	app.Summary.TrackBusinessComponent("AuthGate", "middleware", "jwt", "AccountService")

	return app.RegisterComponent(server.NewComponent(srv))
}
