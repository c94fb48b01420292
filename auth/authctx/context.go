// Package authctx carries the authenticated principal through a request
// context. The principal's type is chosen by the caller:
//
//	ctx = authctx.Set(ctx, acct)                 // in the auth middleware
//	acct, ok := authctx.Get[*account.Account](ctx) // in handlers
package authctx

import (
	"context"
	"errors"
)

type contextKey struct{}

// ErrNoPrincipal is returned when the context carries no principal of the requested type.
var ErrNoPrincipal = errors.New("authctx: no principal in context")

// Set returns a copy of ctx carrying principal.
func Set(ctx context.Context, principal any) context.Context {
	return context.WithValue(ctx, contextKey{}, principal)
}

// Get returns the principal stored in ctx if it has type T.
func Get[T any](ctx context.Context) (T, bool) {
	principal, ok := ctx.Value(contextKey{}).(T)
	return principal, ok
}

// MustGet is Get for handlers mounted behind the auth middleware. It panics
// when the principal is missing, which means the route was wired without it.
func MustGet[T any](ctx context.Context) T {
	principal, ok := Get[T](ctx)
	if !ok {
		panic("authctx: principal not found in context or wrong type")
	}
	return principal
}

// GetOrError is Get with ErrNoPrincipal in place of the boolean.
func GetOrError[T any](ctx context.Context) (T, error) {
	principal, ok := Get[T](ctx)
	if !ok {
		return principal, ErrNoPrincipal
	}
	return principal, nil
}
