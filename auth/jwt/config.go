package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod names a supported JWT signing algorithm. Only HMAC methods
// are supported: tokens are signed and verified with one shared secret.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
)

var signingMethods = map[SigningMethod]*gojwt.SigningMethodHMAC{
	HS256: gojwt.SigningMethodHS256,
	HS384: gojwt.SigningMethodHS384,
	HS512: gojwt.SigningMethodHS512,
}

// Config configures the token service.
type Config struct {
	// Secret is the HMAC signing key.
	Secret string

	// Method is the signing algorithm (default: HS256).
	Method SigningMethod

	// Issuer is the "iss" claim. When set, Verify also requires it.
	Issuer string

	// AccessTokenTTL is the lifetime IssueAccess uses (default: 30m).
	AccessTokenTTL time.Duration
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.AccessTokenTTL == 0 {
		c.AccessTokenTTL = 30 * time.Minute
	}
}

// Validate checks the secret and signing method.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return errors.New("secret is required")
	}
	if _, ok := signingMethods[c.Method]; !ok {
		return fmt.Errorf("unsupported signing method %q (use HS256, HS384 or HS512)", c.Method)
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("access token ttl must be positive (got: %s)", c.AccessTokenTTL)
	}
	return nil
}

func (c *Config) signingMethod() gojwt.SigningMethod {
	return signingMethods[c.Method]
}
