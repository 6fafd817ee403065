package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"merchant@example.com", true},
		{"a@b.co", true},
		{"first.last+tag@sub.example.io", true},
		{"", false},
		{"no-at-sign.example.com", false},
		{"missing@tld", false},
		{"spaces in@example.com", false},
		{"@example.com", false},
		{"user@", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidEmail(tt.email))
		})
	}
}

func TestIsSupportedCurrency(t *testing.T) {
	assert.True(t, IsSupportedCurrency("usd"))
	assert.True(t, IsSupportedCurrency("USD"))
	assert.True(t, IsSupportedCurrency("Eur"))
	assert.True(t, IsSupportedCurrency("gbp"))
	assert.True(t, IsSupportedCurrency("aud"))
	assert.False(t, IsSupportedCurrency("jpy"))
	assert.False(t, IsSupportedCurrency(""))
}

func TestIsSupportedBusinessType(t *testing.T) {
	for _, bt := range []string{"individual", "company", "non_profit", "government_entity"} {
		assert.True(t, IsSupportedBusinessType(bt), bt)
	}
	assert.False(t, IsSupportedBusinessType("llc"))
	assert.False(t, IsSupportedBusinessType("Individual"))
	assert.False(t, IsSupportedBusinessType(""))
}

func TestValidatePaymentInput(t *testing.T) {
	tests := []struct {
		name     string
		input    PaymentInput
		expected []string
	}{
		{
			name:     "valid",
			input:    PaymentInput{Amount: 1000, Currency: "usd", AccountID: "acct_1"},
			expected: nil,
		},
		{
			name:  "everything wrong reports every rule",
			input: PaymentInput{Amount: 0, Currency: "jpy", AccountID: ""},
			expected: []string{
				"Amount must be greater than 0",
				"Connected account ID is required",
				"Currency not supported. Supported currencies: usd, eur, gbp, aud",
			},
		},
		{
			name:  "missing currency reports both currency rules",
			input: PaymentInput{Amount: 500, Currency: "", AccountID: "acct_1"},
			expected: []string{
				"Currency is required",
				"Currency not supported. Supported currencies: usd, eur, gbp, aud",
			},
		},
		{
			name:     "negative amount",
			input:    PaymentInput{Amount: -5, Currency: "eur", AccountID: "acct_1"},
			expected: []string{"Amount must be greater than 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidatePaymentInput(tt.input))
		})
	}
}
