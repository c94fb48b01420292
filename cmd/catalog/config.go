package main

import (
	"fmt"

	"github.com/kbukum/catalog/auth"
	"github.com/kbukum/catalog/config"
	"github.com/kbukum/catalog/database"
	"github.com/kbukum/catalog/observability"
	"github.com/kbukum/catalog/server"
	"github.com/kbukum/catalog/version"
)

const serviceName = "catalog"

// envAliases accepts the deployment's historical variable names next to the
// automatically bound ones (AUTH_SECRET_KEY, DATABASE_DSN, ...).
var envAliases = map[string]string{
	"SECRET_KEY":                  "auth.secret_key",
	"ALGORITHM":                   "auth.algorithm",
	"ACCESS_TOKEN_EXPIRE_MINUTES": "auth.access_token_expire_minutes",
	"DATABASE_URL":                "database.dsn",
	"PORT":                        "server.port",
	"LOG_LEVEL":                   "logging.level",
	"LOG_FORMAT":                  "logging.format",
}

// AppConfig is the complete service configuration. It is built once at
// startup and passed by pointer.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Auth      auth.Config          `mapstructure:"auth"`
	Database  database.Config      `mapstructure:"database"`
	Server    server.Config        `mapstructure:"server"`
	Telemetry observability.Config `mapstructure:"telemetry"`
}

// loadConfig reads config.yml, .env and the environment into an AppConfig.
// Defaults and validation are applied by bootstrap.NewApp.
func loadConfig(opts ...config.LoaderOption) (*AppConfig, error) {
	cfg := &AppConfig{}
	opts = append([]config.LoaderOption{config.WithEnvAliases(envAliases)}, opts...)
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.GetShortVersion()
	}
	c.ServiceConfig.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate reports the first invalid section. Every section is checked
// before anything is started.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	return c.Telemetry.Validate()
}
