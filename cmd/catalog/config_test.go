package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/catalog/auth/jwt"
	"github.com/kbukum/catalog/auth/password"
	"github.com/kbukum/catalog/config"
)

// loadTestConfig loads the shipped config.yml with no .env file.
func loadTestConfig(t *testing.T) *AppConfig {
	t.Helper()
	cfg, err := loadConfig(
		config.WithConfigFile("config.yml"),
		config.WithEnvFile(filepath.Join(t.TempDir(), ".env")),
	)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	return cfg
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("ALGORITHM", "HS256")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "30")
	t.Setenv("DATABASE_URL", "sqlite:///"+filepath.Join(t.TempDir(), "catalog.db"))
}

func TestLoadConfig_ShippedFile(t *testing.T) {
	setRequiredEnv(t)

	cfg := loadTestConfig(t)
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("shipped config should validate once the environment is set: %v", err)
	}

	if cfg.Name != "catalog" {
		t.Errorf("expected name catalog, got %q", cfg.Name)
	}
	if cfg.Version == "" {
		t.Error("expected version to default from build info")
	}
	if cfg.Auth.Algorithm != string(jwt.HS256) {
		t.Errorf("expected HS256, got %q", cfg.Auth.Algorithm)
	}
	if cfg.Auth.AccessTokenExpireMinutes != 30 {
		t.Errorf("expected 30 minute sessions, got %d", cfg.Auth.AccessTokenExpireMinutes)
	}
	if cfg.Auth.Password.Algorithm != password.AlgorithmArgon2id {
		t.Errorf("expected argon2id, got %q", cfg.Auth.Password.Algorithm)
	}
	if !cfg.Database.AutoMigrate {
		t.Error("expected auto_migrate from config.yml")
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Telemetry.Enabled {
		t.Error("expected telemetry export off by default")
	}
}

func TestLoadConfig_RequiredFromEnvironment(t *testing.T) {
	tests := []struct {
		unset   string
		wantErr string
	}{
		{"SECRET_KEY", "auth.secret_key is required"},
		{"ALGORITHM", "auth.algorithm is required"},
		{"ACCESS_TOKEN_EXPIRE_MINUTES", "access_token_expire_minutes must be positive"},
		{"DATABASE_URL", "database.dsn is required"},
	}
	for _, tc := range tests {
		t.Run(tc.unset, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tc.unset, "")

			cfg := loadTestConfig(t)
			cfg.ApplyDefaults()
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadConfig_EnvAliases(t *testing.T) {
	dsn := "sqlite:///" + filepath.Join(t.TempDir(), "alias.db")
	t.Setenv("SECRET_KEY", "from-env")
	t.Setenv("ALGORITHM", "HS512")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "5")
	t.Setenv("DATABASE_URL", dsn)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := loadTestConfig(t)

	if cfg.Auth.SecretKey != "from-env" {
		t.Errorf("SECRET_KEY not applied, got %q", cfg.Auth.SecretKey)
	}
	if cfg.Auth.Algorithm != "HS512" {
		t.Errorf("ALGORITHM not applied, got %q", cfg.Auth.Algorithm)
	}
	if cfg.Auth.AccessTokenExpireMinutes != 5 {
		t.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES not applied, got %d", cfg.Auth.AccessTokenExpireMinutes)
	}
	if cfg.Database.DSN != dsn {
		t.Errorf("DATABASE_URL not applied, got %q", cfg.Database.DSN)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("PORT not applied, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("LOG_LEVEL not applied, got %q", cfg.Logging.Level)
	}
}

func validConfig() *AppConfig {
	cfg := &AppConfig{}
	cfg.Auth.SecretKey = "k"
	cfg.Auth.Algorithm = "HS256"
	cfg.Auth.AccessTokenExpireMinutes = 30
	cfg.Database.DSN = "sqlite:///catalog.db"
	return cfg
}

func TestAppConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{"valid", func(*AppConfig) {}, ""},
		{"missing secret", func(c *AppConfig) { c.Auth.SecretKey = "" }, "auth.secret_key is required"},
		{"missing algorithm", func(c *AppConfig) { c.Auth.Algorithm = "" }, "auth.algorithm is required"},
		{"zero ttl", func(c *AppConfig) { c.Auth.AccessTokenExpireMinutes = 0 }, "access_token_expire_minutes must be positive"},
		{"negative ttl", func(c *AppConfig) { c.Auth.AccessTokenExpireMinutes = -5 }, "access_token_expire_minutes must be positive"},
		{"asymmetric algorithm", func(c *AppConfig) { c.Auth.Algorithm = "RS256" }, "unsupported signing method"},
		{"missing dsn", func(c *AppConfig) { c.Database.DSN = "" }, "database.dsn is required"},
		{"non-sqlite dsn", func(c *AppConfig) { c.Database.DSN = "postgres://localhost/db" }, "unsupported database scheme"},
		{"port out of range", func(c *AppConfig) { c.Server.Port = 70000 }, "server.port"},
		{"bad environment", func(c *AppConfig) { c.Environment = "qa" }, "config.environment"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			cfg.ApplyDefaults()
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}
