// Package config loads a service's configuration with viper.
//
// Sources, lowest precedence first: a YAML file (cmd/<service>/config.yml by
// default), the process environment, and a .env file loaded with godotenv.
// Environment variables are bound automatically, so AUTH_SECRET_KEY fills
// auth.secret_key. Extra names can be bound to a key with WithEnvAliases.
//
//	var cfg AppConfig
//	err := config.LoadConfig("catalog", &cfg, config.WithEnvAliases(map[string]string{
//	    "DATABASE_URL": "database.dsn",
//	}))
package config
