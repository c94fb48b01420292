package account

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kbukum/catalog/auth"
	"github.com/kbukum/catalog/database"
	apperrors "github.com/kbukum/catalog/errors"
)

var (
	// ErrNotFound is returned by the finders when no account matches.
	ErrNotFound = errors.New("account not found")

	// ErrDuplicateEmail is returned by Create when the email is taken.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Repository is the storage the service and gate need.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	Create(ctx context.Context, a *Account) error
}

// Store is the GORM-backed Repository.
type Store struct {
	db *database.DB
}

var _ Repository = (*Store)(nil)

// NewStore creates a Store over db.
func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// FindByID returns the account with id, or ErrNotFound.
func (s *Store) FindByID(ctx context.Context, id int64) (*Account, error) {
	var a Account
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&a).Error; err != nil {
		if database.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find account by id: %w", err)
	}
	return &a, nil
}

// FindByEmail returns the account registered with email, or ErrNotFound.
// Emails are matched exactly.
func (s *Store) FindByEmail(ctx context.Context, email string) (*Account, error) {
	var a Account
	if err := s.db.WithContext(ctx).Where("email = ?", email).Take(&a).Error; err != nil {
		if database.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find account by email: %w", err)
	}
	return &a, nil
}

// Create inserts a and sets its ID. A unique-index violation on email
// returns ErrDuplicateEmail.
func (s *Store) Create(ctx context.Context, a *Account) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		if database.IsDuplicateError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// NewLookup adapts repo to the auth gate: the subject must be a decimal
// account ID naming an existing account.
func NewLookup(repo Repository) auth.LookupFunc[*Account] {
	return func(ctx context.Context, subject string) (*Account, error) {
		id, err := strconv.ParseInt(subject, 10, 64)
		if err != nil || id <= 0 {
			return nil, apperrors.InvalidToken()
		}
		a, err := repo.FindByID(ctx, id)
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, apperrors.UserNotFound()
		case err != nil:
			return nil, apperrors.DatabaseError(err)
		}
		return a, nil
	}
}
