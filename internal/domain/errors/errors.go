package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrAccountNotFound indicates that no PaymentAccount is linked to the user
	ErrAccountNotFound = errors.New("no payment account found for user")

	// ErrUserNotFound indicates that the referenced user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateAccount indicates the store rejected a second PaymentAccount for the same user
	ErrDuplicateAccount = errors.New("payment account already exists for user")
)

// ValidationError reports a missing or malformed identifier. It is raised
// before any remote or store call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// SignatureError reports a webhook delivery that failed signature
// verification. No state is touched when it is returned.
type SignatureError struct {
	Err error
}

func (e *SignatureError) Error() string {
	return "webhook signature verification failed: " + e.Err.Error()
}

func (e *SignatureError) Unwrap() error { return e.Err }

// ConfigError reports missing process-wide configuration, surfaced at the
// first call that needs the setting rather than at startup.
type ConfigError struct {
	Setting string
}

func (e *ConfigError) Error() string {
	return "missing required configuration: " + e.Setting
}

// GatewayErrorKind classifies a remote gateway failure.
type GatewayErrorKind string

const (
	GatewayInvalidRequest        GatewayErrorKind = "invalid_request"
	GatewayAuthenticationFailure GatewayErrorKind = "authentication_failure"
	GatewayRateLimited           GatewayErrorKind = "rate_limited"
	GatewayNetworkError          GatewayErrorKind = "network_error"
	GatewayDeclined              GatewayErrorKind = "declined"
	GatewayUnknown               GatewayErrorKind = "unknown"
)

// GatewayError wraps a remote failure with its classification preserved.
// This layer never retries; retry policy belongs to the caller.
type GatewayError struct {
	Kind    GatewayErrorKind
	Code    string
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gateway error (%s/%s): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("gateway error (%s): %s", e.Kind, e.Message)
}

func (e *GatewayError) Unwrap() error { return e.Err }
