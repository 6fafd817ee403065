package account

import "time"

// Type identifies the connected account model at the card-network PSP.
type Type string

const (
	TypeExpress  Type = "express"
	TypeStandard Type = "standard"
)

// SupportedBusinessTypes is the fixed allow-list for the standard model.
var SupportedBusinessTypes = []string{"individual", "company", "non_profit", "government_entity"}

// Requirements lists the provider-reported outstanding onboarding steps.
type Requirements struct {
	CurrentlyDue        []string `json:"currently_due"`
	EventuallyDue       []string `json:"eventually_due"`
	PendingVerification []string `json:"pending_verification"`
}

// Account is a connected merchant account as read back from the provider.
// Only the fields this system actually uses are mapped; the provider's full
// schema stays behind the gateway.
type Account struct {
	ID                  string            `json:"id"`
	Type                Type              `json:"type"`
	Email               string            `json:"email,omitempty"`
	BusinessType        string            `json:"business_type,omitempty"`
	BusinessProfileName string            `json:"business_profile_name,omitempty"`
	ChargesEnabled      bool              `json:"charges_enabled"`
	PayoutsEnabled      bool              `json:"payouts_enabled"`
	DetailsSubmitted    bool              `json:"details_submitted"`
	Capabilities        map[string]string `json:"capabilities,omitempty"`
	Requirements        Requirements      `json:"requirements"`
	Metadata            map[string]string `json:"metadata,omitempty"`
}

// Chargeable reports whether the account may receive payments.
func (a *Account) Chargeable() bool {
	return a != nil && a.ChargesEnabled
}

// Status is the onboarding-progress view of an account.
type Status struct {
	DetailsSubmitted bool         `json:"details_submitted"`
	ChargesEnabled   bool         `json:"charges_enabled"`
	PayoutsEnabled   bool         `json:"payouts_enabled"`
	Requirements     Requirements `json:"requirements"`
}

// Status derives the onboarding-progress view from the account.
func (a *Account) Status() Status {
	return Status{
		DetailsSubmitted: a.DetailsSubmitted,
		ChargesEnabled:   a.ChargesEnabled,
		PayoutsEnabled:   a.PayoutsEnabled,
		Requirements:     a.Requirements,
	}
}

// OnboardingLink is the time-boxed URL a merchant follows to complete
// provider-required steps. ExpiresAt is client-advisory only; the provider
// enforces the real single-use semantics.
type OnboardingLink struct {
	URL          string    `json:"url"`
	AccountID    string    `json:"accountId"`
	Type         string    `json:"type"`
	Email        string    `json:"email,omitempty"`
	BusinessType string    `json:"businessType,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// LoginLink is a one-time dashboard login URL for a connected account.
// ReturnURL is the post-dashboard redirect target, echoed for the client.
type LoginLink struct {
	URL       string    `json:"url"`
	AccountID string    `json:"accountId"`
	Type      string    `json:"type"`
	ReturnURL string    `json:"returnUrl,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Session carries the client secret for embedded dashboard components.
type Session struct {
	AccountID    string `json:"accountId"`
	ClientSecret string `json:"clientSecret"`
}
