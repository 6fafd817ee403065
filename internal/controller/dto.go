package controller

import (
	"github.com/intelebee/connect/internal/domain/merchant"
	"github.com/intelebee/connect/internal/domain/payment"
)

// --- Request DTOs ---
// The wire shapes mirror the frontend contract: camelCase keys, amounts in
// minor units. Business validation with exact violation messages happens in
// the service layer; tags here only guard structural requirements.

// ExpressOnboardingRequest holds the input for express account onboarding.
type ExpressOnboardingRequest struct {
	Email           string                  `json:"email" validate:"omitempty,email"`
	BusinessProfile *BusinessProfileRequest `json:"businessProfile,omitempty"`
	Settings        *SettingsRequest        `json:"settings,omitempty"`
}

// BusinessProfileRequest holds optional business profile overrides.
type BusinessProfileRequest struct {
	MCC          string `json:"mcc,omitempty"`
	Name         string `json:"name,omitempty"`
	URL          string `json:"url,omitempty" validate:"omitempty,url"`
	SupportEmail string `json:"supportEmail,omitempty" validate:"omitempty,email"`
	SupportURL   string `json:"supportUrl,omitempty" validate:"omitempty,url"`
}

// SettingsRequest holds optional express account settings overrides.
type SettingsRequest struct {
	PayoutSchedule      string `json:"payoutSchedule,omitempty" validate:"omitempty,oneof=manual daily weekly monthly"`
	StatementDescriptor string `json:"statementDescriptor,omitempty" validate:"omitempty,max=22"`
}

// StandardOnboardingRequest holds the input for standard account onboarding.
type StandardOnboardingRequest struct {
	Email        string `json:"email"`
	BusinessType string `json:"businessType,omitempty"`
}

// DashboardLinkRequest holds the input for a dashboard login link.
type DashboardLinkRequest struct {
	AccountID string `json:"accountId"`
	ReturnURL string `json:"returnUrl,omitempty" validate:"omitempty,url"`
}

// DashboardSettingsRequest holds the input for an express branding update.
type DashboardSettingsRequest struct {
	AccountID   string `json:"accountId"`
	AccentColor string `json:"accentColor,omitempty"`
	Logo        string `json:"logo,omitempty"`
	Icon        string `json:"icon,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// AccountIDRequest holds a bare account reference for capability, settings
// and session endpoints.
type AccountIDRequest struct {
	AccountID string `json:"accountId"`
}

// PaymentRequest holds the input for a destination charge. Amount is in
// minor units.
type PaymentRequest struct {
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	AccountID     string            `json:"accountId"`
	Description   string            `json:"description,omitempty"`
	FeePercentage *float64          `json:"platformFeePercentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// DirectPaymentRequest holds the input for an immediately-confirmed charge.
type DirectPaymentRequest struct {
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency,omitempty"`
	AccountID     string            `json:"accountId"`
	PaymentMethod string            `json:"paymentMethodId"`
	Description   string            `json:"description,omitempty"`
	FeePercentage *float64          `json:"platformFeePercentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// RefundRequest holds the input for refunding a charge. A nil amount
// refunds in full.
type RefundRequest struct {
	ChargeID string `json:"chargeId"`
	Amount   *int64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Reason   string `json:"reason,omitempty" validate:"omitempty,oneof=duplicate fraudulent requested_by_customer"`
}

// CheckoutSessionRequest holds the input for a hosted checkout session.
type CheckoutSessionRequest struct {
	AccountID string             `json:"accountId"`
	Currency  string             `json:"currency,omitempty"`
	LineItems []payment.LineItem `json:"lineItems"`
	ReturnURL string             `json:"returnUrl,omitempty" validate:"omitempty,url"`
	Metadata  map[string]string  `json:"metadata,omitempty"`
}

// CreateMerchantRequest holds the input for merchant entity creation.
// Supplying phone or address switches on the full-validation path.
type CreateMerchantRequest struct {
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone,omitempty"`
	Address      *merchant.Address `json:"address,omitempty"`
	BusinessType string            `json:"business_type,omitempty"`
	TaxID        string            `json:"tax_id,omitempty"`
	Website      string            `json:"website,omitempty" validate:"omitempty,url"`
}

// MerchantOnboardingRequest holds the input for an onboarding status
// update at the acquiring gateway.
type MerchantOnboardingRequest struct {
	Status              string                `json:"status,omitempty"`
	BankAccount         *merchant.BankAccount `json:"bank_account,omitempty"`
	Documents           *merchant.Documents   `json:"documents,omitempty"`
	VerificationDetails map[string]any        `json:"verification_details,omitempty"`
}
