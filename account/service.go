package account

import (
	"context"
	"errors"
	"strconv"

	"github.com/kbukum/catalog/auth/password"
	apperrors "github.com/kbukum/catalog/errors"
	"github.com/kbukum/catalog/logger"
	"github.com/kbukum/catalog/observability"
)

// TokenIssuer issues session tokens for a subject. *jwt.Service implements it.
type TokenIssuer interface {
	IssueAccess(subject string) (string, error)
}

// Service implements registration and login.
type Service struct {
	repo    Repository
	hasher  password.Hasher
	tokens  TokenIssuer
	metrics *observability.AuthMetrics
	log     *logger.Logger

	// dummyDigest is verified against on unknown emails so that login costs
	// the same whether or not the account exists.
	dummyDigest string
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records registration and login outcomes on m.
func WithMetrics(m *observability.AuthMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the service logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates a Service. It hashes a throwaway password once to
// obtain a digest with the hasher's current parameters.
func NewService(repo Repository, hasher password.Hasher, tokens TokenIssuer, opts ...Option) (*Service, error) {
	dummy, err := hasher.Hash("catalog-timing-equalizer")
	if err != nil {
		return nil, err
	}
	s := &Service{
		repo:        repo,
		hasher:      hasher,
		tokens:      tokens,
		log:         logger.WithComponent("account"),
		dummyDigest: dummy,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register creates an account and returns its ID. An email that is already
// registered fails with DuplicateEmail, whether caught by the pre-check or
// by the unique index when two registrations race.
func (s *Service) Register(ctx context.Context, email, pw string) (id int64, err error) {
	ctx, span := observability.StartSpan(ctx, "account.register")
	defer span.End()
	defer func() { s.metrics.RecordRegistration(ctx, outcomeOf(err)) }()

	switch _, err := s.repo.FindByEmail(ctx, email); {
	case err == nil:
		return 0, apperrors.DuplicateEmail()
	case !errors.Is(err, ErrNotFound):
		return 0, s.storageFailure(ctx, "register", err)
	}

	digest, err := s.hasher.Hash(pw)
	if errors.Is(err, password.ErrTooLong) {
		return 0, apperrors.Validation(err.Error()).WithDetail("field", "password")
	}
	if err != nil {
		s.log.WithContext(ctx).Error("password hashing failed", logger.ErrorFields("register", err))
		return 0, apperrors.Internal(err)
	}

	a := &Account{Email: email, PasswordDigest: digest}
	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return 0, apperrors.DuplicateEmail()
		}
		return 0, s.storageFailure(ctx, "register", err)
	}

	observability.SetSpanAttribute(ctx, observability.AttrAccountID, a.ID)
	s.log.WithContext(ctx).Info("account registered", logger.Fields(logger.FieldAccountID, a.ID))
	return a.ID, nil
}

// Login checks the credentials and returns a session token whose subject
// is the account ID. Unknown emails and wrong passwords fail with the same
// InvalidCredentials error.
func (s *Service) Login(ctx context.Context, email, pw string) (token string, err error) {
	ctx, span := observability.StartSpan(ctx, "account.login")
	defer span.End()
	defer func() { s.metrics.RecordLogin(ctx, outcomeOf(err)) }()

	a, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return "", s.storageFailure(ctx, "login", err)
		}
		_ = s.hasher.Verify(pw, s.dummyDigest)
		return "", apperrors.InvalidCredentials()
	}

	if !password.Matches(s.hasher, pw, a.PasswordDigest) {
		return "", apperrors.InvalidCredentials()
	}

	token, err = s.tokens.IssueAccess(strconv.FormatInt(a.ID, 10))
	if err != nil {
		s.log.WithContext(ctx).Error("token issue failed", logger.ErrorFields("login", err))
		return "", apperrors.Internal(err)
	}
	return token, nil
}

func (s *Service) storageFailure(ctx context.Context, op string, err error) error {
	s.log.WithContext(ctx).Error("account storage failed", logger.ErrorFields(op, err))
	return apperrors.DatabaseError(err)
}

func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return string(appErr.Code)
	}
	return string(apperrors.ErrCodeInternal)
}
