package auth

import (
	"fmt"
	"time"

	"github.com/kbukum/catalog/auth/jwt"
	"github.com/kbukum/catalog/auth/password"
)

// Config holds session and credential settings. The key names match the
// deployment's environment variables (SECRET_KEY, ALGORITHM,
// ACCESS_TOKEN_EXPIRE_MINUTES).
//
//	auth:
//	  secret_key: "change-me"
//	  algorithm: "HS256"
//	  access_token_expire_minutes: 30
//	  password:
//	    algorithm: "argon2id"
type Config struct {
	// SecretKey signs and verifies session tokens. Required.
	SecretKey string `mapstructure:"secret_key"`

	// Algorithm is the token signing algorithm: HS256, HS384 or HS512. Required.
	Algorithm string `mapstructure:"algorithm"`

	// AccessTokenExpireMinutes is the session token lifetime. Required, > 0.
	AccessTokenExpireMinutes int `mapstructure:"access_token_expire_minutes"`

	// Issuer is stamped into and required from tokens when set.
	Issuer string `mapstructure:"issuer"`

	// Password selects the credential hashing algorithm.
	Password password.Config `mapstructure:"password"`
}

// ApplyDefaults sets defaults for optional fields only; the secret,
// algorithm and TTL have no defaults so a misconfigured deployment fails
// at startup.
func (c *Config) ApplyDefaults() {
	c.Password.ApplyDefaults()
}

// Validate checks every field the service needs to issue tokens.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("auth.secret_key is required")
	}
	if c.Algorithm == "" {
		return fmt.Errorf("auth.algorithm is required")
	}
	if c.AccessTokenExpireMinutes <= 0 {
		return fmt.Errorf("auth.access_token_expire_minutes must be positive (got: %d)", c.AccessTokenExpireMinutes)
	}
	jc := c.JWTConfig()
	if err := jc.Validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Password.Validate(); err != nil {
		return fmt.Errorf("auth.password: %w", err)
	}
	return nil
}

// AccessTokenTTL returns the configured session lifetime.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// JWTConfig converts the settings into the token service's configuration.
func (c *Config) JWTConfig() jwt.Config {
	return jwt.Config{
		Secret:         c.SecretKey,
		Method:         jwt.SigningMethod(c.Algorithm),
		Issuer:         c.Issuer,
		AccessTokenTTL: c.AccessTokenTTL(),
	}
}

// Describe returns a one-liner for the startup summary. The secret is never included.
// Example: "JWT(HS256) TTL=30m0s password=argon2id"
func (c *Config) Describe() string {
	return fmt.Sprintf("JWT(%s) TTL=%s password=%s", c.Algorithm, c.AccessTokenTTL(), c.Password.Algorithm)
}
