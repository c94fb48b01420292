// Package auth authenticates requests with bearer session tokens.
//
// Subpackages:
//
//   - auth/jwt      issues and verifies HMAC-signed session tokens
//   - auth/password hashes credentials (argon2id, bcrypt)
//   - auth/authctx  carries the authenticated principal in a context
//
// Gate ties them together for a transport: it extracts the bearer token,
// verifies it and resolves the subject through a LookupFunc. The
// server/middleware package wraps a Gate as gin middleware.
//
//	gate := auth.NewGate(tokens, accounts.Lookup)
//	acct, err := gate.Authenticate(r)
package auth
