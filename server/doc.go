// Package server provides the service's HTTP server: a Gin engine mounted on
// a root ServeMux, served over HTTP/1.1 and h2c, with a request body limit
// applied before Gin sees the request.
//
// The server is a component.Component, so the bootstrap registry starts and
// stops it alongside the database and telemetry.
//
// # Middleware
//
// ApplyMiddleware installs (server/middleware):
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: request ID generation and propagation
//   - Tracing: one OpenTelemetry server span per request
//   - CORS: gin-contrib/cors configured from Config.CORS
//   - RequestLogger: per-request log line with status and duration
//
// RequireAuth is applied per route group by the handlers that need it.
//
// # Endpoints
//
// RegisterDefaultEndpoints adds (server/endpoint):
//
//   - /health: aggregated component health
//   - /ready: readiness probe
//   - /alive: liveness probe
//   - /info: service name, environment and build version
package server
