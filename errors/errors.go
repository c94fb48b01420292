package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is safe to show to clients.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the status written when the error reaches a handler.
	HTTPStatus int `json:"-"`
	// Details contains additional client-safe context.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error. It is logged, never serialized.
	Cause error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates an AppError; Retryable is derived from the code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Resource and input errors ---

// NotFound creates an AppError for a missing resource.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Details: details,
	}
}

// AlreadyExists creates an AppError for a unique-key collision.
func AlreadyExists(resource string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("A %s with these details already exists.", resource),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"resource": resource},
	}
}

// Conflict creates an AppError for an operation the current state forbids.
func Conflict(reason string) *AppError {
	return &AppError{Code: ErrCodeConflict, Message: reason, HTTPStatus: http.StatusConflict}
}

// MethodNotAllowed creates an AppError for a route that exists under other methods.
func MethodNotAllowed(method string) *AppError {
	return &AppError{
		Code: ErrCodeMethodNotAllowed, Message: fmt.Sprintf("Method %s is not allowed on this route.", method),
		HTTPStatus: http.StatusMethodNotAllowed,
	}
}

// InvalidInput creates an AppError for a rejected field value.
func InvalidInput(field, reason string) *AppError {
	e := &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest,
	}
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// Validation creates an AppError for a request body that failed validation.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message, HTTPStatus: http.StatusBadRequest}
}

// MissingField creates an AppError for an absent required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": field},
	}
}

// --- Account and session errors ---

// DuplicateEmail is returned by registration when the email is already taken.
func DuplicateEmail() *AppError {
	return &AppError{Code: ErrCodeDuplicateEmail, Message: "Email already registered", HTTPStatus: http.StatusBadRequest}
}

// InvalidCredentials is returned by login for an unknown email or a wrong
// password. The two cases are deliberately indistinguishable.
func InvalidCredentials() *AppError {
	return &AppError{Code: ErrCodeInvalidCredentials, Message: "Invalid credentials", HTTPStatus: http.StatusBadRequest}
}

// MissingCredential is returned when a protected request carries no bearer token.
func MissingCredential() *AppError {
	return &AppError{Code: ErrCodeMissingCredential, Message: "Not authenticated", HTTPStatus: http.StatusUnauthorized}
}

// InvalidToken is returned for a token with a bad signature, algorithm or payload.
func InvalidToken() *AppError {
	return &AppError{Code: ErrCodeInvalidToken, Message: "Invalid token", HTTPStatus: http.StatusUnauthorized}
}

// TokenExpired is returned for a well-formed token past its expiry.
func TokenExpired() *AppError {
	return &AppError{Code: ErrCodeTokenExpired, Message: "Token expired", HTTPStatus: http.StatusUnauthorized}
}

// UserNotFound is returned when a valid token's subject has no account.
func UserNotFound() *AppError {
	return &AppError{Code: ErrCodeUserNotFound, Message: "User not found", HTTPStatus: http.StatusNotFound}
}

// --- Internal errors ---

// ServiceUnavailable creates an AppError for a dependency that is down.
func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service},
	}
}

// Internal creates an AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again or contact support.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// DatabaseError creates an AppError for a storage failure.
func DatabaseError(cause error) *AppError {
	return &AppError{
		Code: ErrCodeDatabaseError, Message: "A database error occurred. Please try again.",
		HTTPStatus: http.StatusInternalServerError, Retryable: true, Cause: cause,
	}
}
