// Package validation holds the pure input checks that run before any
// external provider call is spent.
package validation

import (
	"regexp"
	"slices"
	"strings"

	"github.com/intelebee/connect/internal/domain/account"
	"github.com/intelebee/connect/internal/domain/payment"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\-\s().]{6,19}$`)
)

// IsValidEmail reports whether s has user@domain.tld shape. No DNS or
// mailbox verification is attempted.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidPhone reports whether s looks like a dialable phone number. Only
// shape is checked, not reachability or region rules.
func IsValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// IsSupportedCurrency reports whether code (case-insensitive) is in the
// supported currency allow-list.
func IsSupportedCurrency(code string) bool {
	return slices.Contains(payment.SupportedCurrencies, strings.ToLower(code))
}

// IsSupportedBusinessType reports whether t is an accepted business type.
func IsSupportedBusinessType(t string) bool {
	return slices.Contains(account.SupportedBusinessTypes, t)
}

// PaymentInput is the subset of a payment request subject to up-front
// validation.
type PaymentInput struct {
	Amount    int64
	Currency  string
	AccountID string
}

// ValidatePaymentInput returns every violated rule as a human-readable
// string, in check order. An empty slice means the input is valid. Checks
// are independent so all violations are reported together.
func ValidatePaymentInput(in PaymentInput) []string {
	var violations []string
	if in.Amount <= 0 {
		violations = append(violations, "Amount must be greater than 0")
	}
	if in.Currency == "" {
		violations = append(violations, "Currency is required")
	}
	if in.AccountID == "" {
		violations = append(violations, "Connected account ID is required")
	}
	if !IsSupportedCurrency(in.Currency) {
		violations = append(violations,
			"Currency not supported. Supported currencies: "+strings.Join(payment.SupportedCurrencies, ", "))
	}
	return violations
}
