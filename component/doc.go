// Package component defines the lifecycle contract for the service's
// infrastructure pieces (database, HTTP server, telemetry exporters) and a
// Registry that starts them in order, stops them in reverse and aggregates
// their health for the /health endpoint.
package component
