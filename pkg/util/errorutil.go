package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewValidationError flags a required field that is absent or malformed.
func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

// NewCredentialError flags a disabled account or a password mismatch,
// distinct from validation so callers can tell "malformed request" from
// "wrong credentials".
func NewCredentialError(message string) error {
	return NewDomainError("CREDENTIAL_REJECTED", message, http.StatusUnauthorized, nil)
}

// NewNotFound flags a missing entity on the identity service surface.
func NewNotFound(resource string, details map[string]any) error {
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewSubjectUnknown flags a missing account as seen from the
// authentication service, which surfaces identity lookup misses as
// bad-request-shaped client faults.
func NewSubjectUnknown(email string) error {
	return NewDomainError("NOT_FOUND", fmt.Sprintf("no account for %s", email), http.StatusBadRequest, nil)
}

// NewInvalidToken covers signature mismatch, malformed structure and
// expiry alike; the taxonomy deliberately does not distinguish them.
func NewInvalidToken(err error) error {
	return &DomainError{
		Code:       "TOKEN_INVALID",
		Message:    "could not verify token",
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
	}
}

// NewUpstreamUnavailable flags a dependency that could not be reached or
// answered with something uninterpretable.
func NewUpstreamUnavailable(dependency string, err error) error {
	return &DomainError{
		Code:       "UPSTREAM_UNAVAILABLE",
		Message:    fmt.Sprintf("%s unavailable", dependency),
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
	}
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	if de, ok := NewInternalError(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
