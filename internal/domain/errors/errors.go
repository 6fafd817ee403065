package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Onboarding errors
	ErrEmailRequired           = errors.New("valid email is required")
	ErrUnsupportedBusinessType = errors.New("unsupported business type")
	ErrAccountIDRequired       = errors.New("account ID is required")
	ErrAccountTypeMismatch     = errors.New("account must be a standard account type")

	// Funds-movement errors
	ErrAccountNotChargeable = errors.New("invalid account or account not fully onboarded")
	ErrChargeIDRequired     = errors.New("charge ID is required")

	// Merchant errors
	ErrMerchantIDRequired = errors.New("merchant ID is required")
	ErrMerchantNotFound   = errors.New("merchant not found")
)

// ProviderError carries a provider-reported failure across the gateway
// boundary. StatusCode is the upstream HTTP status when the provider sent
// one, 500 otherwise. Callers never see the raw transport error shape.
type ProviderError struct {
	StatusCode int
	Message    string
	Code       string
	Type       string
	Details    any
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (code=%s)", e.Message, e.Code)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a provider error, defaulting the status to 500
// when the upstream response carried none.
func NewProviderError(statusCode int, message string, err error) *ProviderError {
	if statusCode == 0 {
		statusCode = 500
	}
	return &ProviderError{StatusCode: statusCode, Message: message, Err: err}
}

// ValidationErrors is the ordered list of input violations collected before
// any external call is made. All violated rules are reported together.
type ValidationErrors struct {
	Violations []string
}

func (e *ValidationErrors) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// NewValidationErrors wraps a violation list.
func NewValidationErrors(violations ...string) *ValidationErrors {
	return &ValidationErrors{Violations: violations}
}

// ValidationError represents a single-field validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
