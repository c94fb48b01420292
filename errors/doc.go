// Package errors defines AppError, the structured error every layer of the
// service returns. An AppError carries a machine-readable code, a client-safe
// message, the HTTP status it maps to and an optional internal cause that is
// logged but never serialized.
package errors
