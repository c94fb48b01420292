package auth

import (
	"context"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/catalog/auth/jwt"
	apperrors "github.com/kbukum/catalog/errors"
	"github.com/kbukum/catalog/observability"
)

// SubjectVerifier checks a token and returns the subject it was issued for.
// *jwt.Service implements it.
type SubjectVerifier interface {
	Verify(token string) (string, error)
}

// LookupFunc resolves a verified subject to the authenticated principal.
// It should return AppErrors (UserNotFound, InvalidToken, DatabaseError);
// anything else is reported as an internal error.
type LookupFunc[A any] func(ctx context.Context, subject string) (A, error)

// Gate authenticates requests: it extracts the bearer token, verifies it and
// looks up the principal it names. It holds no mutable state.
type Gate[A any] struct {
	verifier SubjectVerifier
	lookup   LookupFunc[A]
}

// NewGate creates a Gate.
func NewGate[A any](verifier SubjectVerifier, lookup LookupFunc[A]) *Gate[A] {
	return &Gate[A]{verifier: verifier, lookup: lookup}
}

// Authenticate resolves the principal for r. Failures are AppErrors:
// MissingCredential, InvalidToken, TokenExpired or whatever the lookup returns.
func (g *Gate[A]) Authenticate(r *http.Request) (A, error) {
	var zero A

	ctx, span := observability.StartSpan(r.Context(), "auth.authenticate")
	defer span.End()

	token, err := BearerToken(r)
	if err != nil {
		return zero, recordFailure(ctx, apperrors.Wrap(err))
	}

	subject, err := g.verifier.Verify(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return zero, recordFailure(ctx, apperrors.TokenExpired().WithCause(err))
		}
		return zero, recordFailure(ctx, apperrors.InvalidToken().WithCause(err))
	}
	span.SetAttributes(attribute.String(observability.AttrSubject, subject))

	principal, err := g.lookup(ctx, subject)
	if err != nil {
		return zero, recordFailure(ctx, apperrors.Wrap(err))
	}
	return principal, nil
}

func recordFailure(ctx context.Context, err *apperrors.AppError) error {
	observability.SetSpanAttribute(ctx, observability.AttrErrorCode, string(err.Code))
	observability.SetSpanError(ctx, err)
	return err
}
