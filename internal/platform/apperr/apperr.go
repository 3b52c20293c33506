// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

/*
Package apperr defines the centralized error handling framework for the gateway.

It provides a rich error type that bridges the gap between low-level failures
(upstream HTTP errors, corrupted session tokens, invalid input) and the
HTTP responses the dashboard renders.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - Taxonomy: auth errors are fatal to the session; upstream errors preserve
    prior state; validation errors block the call before it leaves the gateway.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves a panel service should be wrapped as an [AppError] to
ensure consistent responses. Panels are isolated failure domains: no error
crosses a panel boundary, and only session errors cascade to the role router.
*/
package apperr

import (
	"errors"
	"net/http"
)

// AppError is the canonical error type for the gateway.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking upstream URLs or token material.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "UPSTREAM_ERROR").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Auth Errors (fatal to the session)

// Unauthenticated creates a 401 [AppError] for requests with no usable session.
func Unauthenticated(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHENTICATED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// SessionExpired creates a 401 [AppError] for expired, corrupted, or rejected
// tokens. By the time it is returned, both stored tokens have been erased —
// there is no partial-trust state.
func SessionExpired(msg string) *AppError {
	return &AppError{
		Code:       "SESSION_EXPIRED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// UnauthorizedRole creates a 403 [AppError] for authenticated users whose role
// grants no shell. This is a terminal display state; the only way out is a
// manual sign-out.
func UnauthorizedRole(role string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED_ROLE",
		Message:    "Role " + role + " has no dashboard access",
		HTTPStatus: http.StatusForbidden,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       "FORBIDDEN",
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
// Validation failures block the upstream call entirely.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// ConfirmationRequired creates a 400 [AppError] for destructive actions
// issued without the explicit confirmation flag. No upstream request is made.
func ConfirmationRequired(action string) *AppError {
	return &AppError{
		Code:       "CONFIRMATION_REQUIRED",
		Message:    "Confirmation is required to " + action,
		HTTPStatus: http.StatusBadRequest,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(msg string) *AppError {
	return &AppError{
		Code:       "RATE_LIMITED",
		Message:    msg,
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Upstream & Server Errors (5xx)

// Upstream creates a 502 [AppError] wrapping a failed call to the mining API.
// Network failure and server rejection are deliberately indistinguishable
// here; the caller's prior state is preserved either way.
func Upstream(cause error) *AppError {
	return &AppError{
		Code:       "UPSTREAM_ERROR",
		Message:    "The mining operations API could not be reached",
		HTTPStatus: http.StatusBadGateway,
		Cause:      cause,
	}
}

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
