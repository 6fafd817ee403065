package testutil

import (
	"github.com/intelebee/connect/internal/config"
	"github.com/intelebee/connect/internal/domain/account"
)

// NewChargeableAccount returns a connected account ready to receive funds.
func NewChargeableAccount(id string, model account.Type) *account.Account {
	return &account.Account{
		ID:               id,
		Type:             model,
		Email:            "merchant@example.com",
		ChargesEnabled:   true,
		PayoutsEnabled:   true,
		DetailsSubmitted: true,
		Capabilities:     map[string]string{"card_payments": "active", "transfers": "active"},
	}
}

// NewPendingAccount returns a connected account that has not finished
// onboarding and cannot take charges yet.
func NewPendingAccount(id string, model account.Type) *account.Account {
	return &account.Account{
		ID:   id,
		Type: model,
		Requirements: account.Requirements{
			CurrentlyDue: []string{"external_account", "tos_acceptance.date"},
		},
	}
}

// TestPlatformConfig returns the platform settings used across service
// tests.
func TestPlatformConfig() config.PlatformConfig {
	return config.PlatformConfig{
		FrontendBaseURL:     "https://app.example.com",
		StatementDescriptor: "INTELEBEE PAY",
		DefaultMCC:          "5734",
		FeePercentage:       5.0,
	}
}
