// Package middleware provides the HTTP middleware stack: panic recovery,
// request IDs, tracing, CORS, request logging, body size limits and the
// bearer-token gate for protected routes.
package middleware

import "net/http"

// Middleware wraps an http.Handler. It is used for concerns applied to the
// whole server handler, outside the gin engine.
type Middleware func(http.Handler) http.Handler

// Chain composes middleware. The first in the list is the outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
