// Package password hashes and verifies account passwords.
//
// Digests are self-describing strings: argon2id digests use the PHC-style
// "$argon2id$v=19$m=..,t=..,p=..$salt$hash" encoding and bcrypt digests the
// usual "$2a$"/"$2b$" form. Every digest carries its own random salt, so two
// hashes of the same password never compare equal.
//
//	hasher := password.NewHasher(password.Config{Algorithm: password.AlgorithmArgon2id})
//	digest, err := hasher.Hash("hunter2")
//	err = hasher.Verify("hunter2", digest) // nil on match
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrMismatch is returned by Verify when the password does not match the digest.
	ErrMismatch = errors.New("password: mismatch")
	// ErrUnknownFormat is returned by Verify for a digest no hasher recognizes.
	ErrUnknownFormat = errors.New("password: unknown digest format")
	// ErrTooLong is returned by Hash when the algorithm cannot take the
	// whole password.
	ErrTooLong = errors.New("password: too long")
)

// Hasher hashes passwords and checks them against stored digests.
type Hasher interface {
	// Hash returns a salted digest of password.
	Hash(password string) (string, error)

	// Verify returns nil if password matches digest, ErrMismatch if it does
	// not, and another error if digest cannot be parsed.
	Verify(password, digest string) error
}

// Matches reports whether password matches digest under h.
func Matches(h Hasher, password, digest string) bool {
	return h.Verify(password, digest) == nil
}

// --- Bcrypt ---

// BcryptMaxLength is the longest password bcrypt accepts, in bytes.
const BcryptMaxLength = 72

// BcryptHasher implements Hasher using bcrypt. bcrypt only looks at the first
// 72 bytes of input, so longer passwords are rejected with ErrTooLong
// instead of truncated.
type BcryptHasher struct {
	cost int
}

// BcryptOption configures the bcrypt hasher.
type BcryptOption func(*BcryptHasher)

// WithCost sets the bcrypt cost (default 12). Out-of-range values are ignored.
func WithCost(cost int) BcryptOption {
	return func(h *BcryptHasher) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			h.cost = cost
		}
	}
}

// NewBcryptHasher creates a bcrypt-based password hasher.
func NewBcryptHasher(opts ...BcryptOption) *BcryptHasher {
	h := &BcryptHasher{cost: 12}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if len(password) > BcryptMaxLength {
		return "", fmt.Errorf("%w: bcrypt takes at most %d bytes", ErrTooLong, BcryptMaxLength)
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("password: bcrypt: %w", err)
	}
	return string(digest), nil
}

func (h *BcryptHasher) Verify(password, digest string) error {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrMismatch
	default:
		return fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	}
}

// --- Argon2id ---

const argon2Prefix = "$argon2id$"

// Upper bounds on the cost parameters a stored digest may ask for.
const (
	MaxArgon2Memory = 1024 * 1024 // KiB
	MaxArgon2Time   = 16
)

// Argon2Hasher implements Hasher using argon2id.
type Argon2Hasher struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
	saltLen int
}

// Argon2Option configures the argon2id hasher.
type Argon2Option func(*Argon2Hasher)

// WithArgon2Time sets the number of passes (default 1).
func WithArgon2Time(t uint32) Argon2Option {
	return func(h *Argon2Hasher) { h.time = t }
}

// WithArgon2Memory sets the memory cost in KiB (default 64 MiB).
func WithArgon2Memory(m uint32) Argon2Option {
	return func(h *Argon2Hasher) { h.memory = m }
}

// WithArgon2Threads sets the parallelism (default 4).
func WithArgon2Threads(t uint8) Argon2Option {
	return func(h *Argon2Hasher) { h.threads = t }
}

// NewArgon2Hasher creates an argon2id hasher with OWASP's baseline
// parameters unless overridden.
func NewArgon2Hasher(opts ...Argon2Option) *Argon2Hasher {
	h := &Argon2Hasher{
		time:    1,
		memory:  64 * 1024,
		threads: 4,
		keyLen:  32,
		saltLen: 16,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("password: generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.time, h.memory, h.threads, h.keyLen)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Prefix, argon2.Version,
		h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify recomputes the key with the parameters stored in digest, so digests
// produced under older parameters keep verifying after the defaults change.
func (h *Argon2Hasher) Verify(password, digest string) error {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return ErrUnknownFormat
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return fmt.Errorf("%w: argon2 version %q", ErrUnknownFormat, parts[2])
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return fmt.Errorf("%w: argon2 params: %v", ErrUnknownFormat, err)
	}
	if time < 1 || time > MaxArgon2Time || threads < 1 || memory > MaxArgon2Memory {
		return fmt.Errorf("%w: argon2 params out of range: %s", ErrUnknownFormat, parts[3])
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("%w: argon2 salt: %v", ErrUnknownFormat, err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) == 0 {
		return fmt.Errorf("%w: argon2 key", ErrUnknownFormat)
	}

	key := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(expected)))
	if subtle.ConstantTimeCompare(key, expected) != 1 {
		return ErrMismatch
	}
	return nil
}
