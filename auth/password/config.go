package password

import (
	"fmt"
	"strings"
)

// Algorithm names a password hashing algorithm.
type Algorithm string

const (
	AlgorithmArgon2id Algorithm = "argon2id"
	AlgorithmBcrypt   Algorithm = "bcrypt"
)

// Config selects the algorithm new digests are produced with.
// Loadable from YAML/env via mapstructure tags.
type Config struct {
	// Algorithm for new digests (default: argon2id).
	Algorithm Algorithm `mapstructure:"algorithm"`

	// BcryptCost is the bcrypt cost parameter (default: 12, range: 4-31).
	BcryptCost int `mapstructure:"bcrypt_cost"`

	// Argon2Time is the number of argon2id passes (default: 1).
	Argon2Time uint32 `mapstructure:"argon2_time"`

	// Argon2Memory is the argon2id memory cost in KiB (default: 65536).
	Argon2Memory uint32 `mapstructure:"argon2_memory"`

	// Argon2Threads is the argon2id parallelism (default: 4).
	Argon2Threads uint8 `mapstructure:"argon2_threads"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Algorithm == "" {
		c.Algorithm = AlgorithmArgon2id
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = 12
	}
	if c.Argon2Time == 0 {
		c.Argon2Time = 1
	}
	if c.Argon2Memory == 0 {
		c.Argon2Memory = 64 * 1024
	}
	if c.Argon2Threads == 0 {
		c.Argon2Threads = 4
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Algorithm {
	case AlgorithmBcrypt, AlgorithmArgon2id:
	default:
		return fmt.Errorf("unsupported algorithm: %s (use argon2id or bcrypt)", c.Algorithm)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("bcrypt_cost must be between 4 and 31 (got: %d)", c.BcryptCost)
	}
	if c.Argon2Time > MaxArgon2Time {
		return fmt.Errorf("argon2_time must be at most %d (got: %d)", MaxArgon2Time, c.Argon2Time)
	}
	if c.Argon2Memory > MaxArgon2Memory {
		return fmt.Errorf("argon2_memory must be at most %d KiB (got: %d)", MaxArgon2Memory, c.Argon2Memory)
	}
	if c.Argon2Memory < 8*uint32(c.Argon2Threads) {
		return fmt.Errorf("argon2_memory must be at least 8 KiB per thread (got: %d)", c.Argon2Memory)
	}
	return nil
}

// NewHasher builds a Hasher that produces digests with the configured
// algorithm and verifies digests of either supported format.
func NewHasher(cfg Config) Hasher {
	cfg.ApplyDefaults()
	argon := NewArgon2Hasher(
		WithArgon2Time(cfg.Argon2Time),
		WithArgon2Memory(cfg.Argon2Memory),
		WithArgon2Threads(cfg.Argon2Threads),
	)
	bc := NewBcryptHasher(WithCost(cfg.BcryptCost))

	h := &formatHasher{argon2: argon, bcrypt: bc}
	if cfg.Algorithm == AlgorithmBcrypt {
		h.primary = bc
	} else {
		h.primary = argon
	}
	return h
}

// formatHasher dispatches Verify on the digest's prefix.
type formatHasher struct {
	primary Hasher
	argon2  *Argon2Hasher
	bcrypt  *BcryptHasher
}

func (h *formatHasher) Hash(password string) (string, error) {
	return h.primary.Hash(password)
}

func (h *formatHasher) Verify(password, digest string) error {
	switch {
	case strings.HasPrefix(digest, argon2Prefix):
		return h.argon2.Verify(password, digest)
	case strings.HasPrefix(digest, "$2a$"), strings.HasPrefix(digest, "$2b$"), strings.HasPrefix(digest, "$2y$"):
		return h.bcrypt.Verify(password, digest)
	default:
		return ErrUnknownFormat
	}
}
