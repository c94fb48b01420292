// Package jwt issues and verifies the bearer tokens that carry an account's
// session. A token is an HMAC-signed JWT whose "sub" claim is the account ID
// and whose "exp" claim bounds its lifetime.
//
//	svc, err := jwt.NewService(&jwt.Config{Secret: secret, AccessTokenTTL: 30 * time.Minute})
//	token, err := svc.IssueAccess("42")
//	subject, err := svc.Verify(token) // "42"
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers every verification failure other than expiry:
	// bad signature, unexpected algorithm, malformed payload, missing claims.
	ErrInvalidToken = errors.New("jwt: invalid token")
	// ErrTokenExpired is returned for a correctly signed token past its exp.
	ErrTokenExpired = errors.New("jwt: token expired")
)

// Service issues and verifies tokens for one secret and algorithm.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	cfg    Config
	method gojwt.SigningMethod
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService validates cfg and builds a Service.
func NewService(cfg *Config, opts ...Option) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	s := &Service{cfg: *cfg, method: cfg.signingMethod(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for subject that expires ttl from now. A negative ttl
// yields a token that is already expired.
func (s *Service) Issue(subject string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := gojwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    s.cfg.Issuer,
		IssuedAt:  gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := gojwt.NewWithClaims(s.method, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// IssueAccess signs a token for subject with the configured access TTL.
func (s *Service) IssueAccess(subject string) (string, error) {
	return s.Issue(subject, s.cfg.AccessTokenTTL)
}

// AccessTTL returns the lifetime IssueAccess uses.
func (s *Service) AccessTTL() time.Duration {
	return s.cfg.AccessTokenTTL
}

// Verify checks token and returns its subject. Errors wrap either
// ErrTokenExpired or ErrInvalidToken.
func (s *Service) Verify(token string) (string, error) {
	claims, err := s.Parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// Parse checks token and returns its registered claims.
func (s *Service) Parse(token string) (*gojwt.RegisteredClaims, error) {
	claims := &gojwt.RegisteredClaims{}
	parsed, err := gojwt.ParseWithClaims(token, claims, s.keyFunc, s.parserOptions()...)
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

func (s *Service) keyFunc(token *gojwt.Token) (any, error) {
	if token.Method.Alg() != s.method.Alg() {
		return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
	}
	return []byte(s.cfg.Secret), nil
}

func (s *Service) parserOptions() []gojwt.ParserOption {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{s.method.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	return opts
}
