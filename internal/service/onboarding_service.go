package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/intelebee/connect/internal/config"
	"github.com/intelebee/connect/internal/domain/account"
	domainErrors "github.com/intelebee/connect/internal/domain/errors"
	stripegw "github.com/intelebee/connect/internal/gateway/stripe"
	"github.com/intelebee/connect/internal/infrastructure/observability"
	"github.com/intelebee/connect/internal/validation"
)

// linkExpiry is the client-advisory lifetime attached to every redirect
// link. The provider enforces the real single-use semantics.
const linkExpiry = 24 * time.Hour

const defaultAccountListLimit = 100

// OnboardingService turns onboarding intents into provider account-creation
// calls plus follow-up redirect links, with model-specific defaults.
type OnboardingService struct {
	gateway  PSPGateway
	platform config.PlatformConfig
	logger   zerolog.Logger
	metrics  *observability.Metrics
}

// NewOnboardingService creates a new OnboardingService. Metrics may be nil.
func NewOnboardingService(gateway PSPGateway, platform config.PlatformConfig, logger zerolog.Logger, metrics *observability.Metrics) *OnboardingService {
	return &OnboardingService{gateway: gateway, platform: platform, logger: logger, metrics: metrics}
}

// OnboardingSettings are the caller-overridable express account defaults.
type OnboardingSettings struct {
	PayoutSchedule      string
	StatementDescriptor string
}

// ExpressOnboardingRequest holds the input for express-model onboarding.
// Email is optional for this model.
type ExpressOnboardingRequest struct {
	Email           string
	BusinessProfile *stripegw.BusinessProfile
	Settings        *OnboardingSettings
}

// StandardOnboardingRequest holds the input for standard-model onboarding.
type StandardOnboardingRequest struct {
	Email        string
	BusinessType string
}

// OnboardingResult is the created link plus the echoed account state when
// the provider returned one.
type OnboardingResult struct {
	account.OnboardingLink
	Account *account.Account `json:"account,omitempty"`
}

// CreateExpressOnboardingLink onboards a merchant on the express model:
// create the account with caller-or-default settings, then create the
// redirect link.
func (s *OnboardingService) CreateExpressOnboardingLink(ctx context.Context, req ExpressOnboardingRequest) (*OnboardingResult, error) {
	payoutSchedule := "manual"
	statementDescriptor := s.platform.StatementDescriptor
	if req.Settings != nil {
		if req.Settings.PayoutSchedule != "" {
			payoutSchedule = req.Settings.PayoutSchedule
		}
		if req.Settings.StatementDescriptor != "" {
			statementDescriptor = req.Settings.StatementDescriptor
		}
	}

	acct, err := s.gateway.CreateAccount(ctx, stripegw.CreateAccountParams{
		Type:                account.TypeExpress,
		Email:               req.Email,
		BusinessProfile:     req.BusinessProfile,
		PayoutInterval:      payoutSchedule,
		StatementDescriptor: statementDescriptor,
		Metadata: map[string]string{
			"createdAt":   time.Now().UTC().Format(time.RFC3339),
			"createdBy":   "system",
			"accountType": string(account.TypeExpress),
		},
		IdempotencyKey: uuid.New().String(),
	})
	if err != nil {
		return nil, err
	}

	link, err := s.createRedirectLink(ctx, acct.ID)
	if err != nil {
		return nil, err
	}

	s.countLink(string(account.TypeExpress))
	s.logger.Info().Str("account_id", acct.ID).Msg("express onboarding link created")

	return &OnboardingResult{
		OnboardingLink: account.OnboardingLink{
			URL:       link,
			AccountID: acct.ID,
			Type:      "express_account_link",
			ExpiresAt: time.Now().Add(linkExpiry),
		},
		Account: acct,
	}, nil
}

// CreateStandardOnboardingLink onboards a merchant on the standard model.
// A valid email and a supported business type are mandatory here; profile
// and payout defaults are fixed by the platform.
func (s *OnboardingService) CreateStandardOnboardingLink(ctx context.Context, req StandardOnboardingRequest) (*OnboardingResult, error) {
	if !validation.IsValidEmail(req.Email) {
		return nil, domainErrors.ErrEmailRequired
	}
	businessType := req.BusinessType
	if businessType == "" {
		businessType = "individual"
	}
	if !validation.IsSupportedBusinessType(businessType) {
		return nil, domainErrors.ErrUnsupportedBusinessType
	}

	acct, err := s.gateway.CreateAccount(ctx, stripegw.CreateAccountParams{
		Type:         account.TypeStandard,
		Email:        req.Email,
		BusinessType: businessType,
		BusinessProfile: &stripegw.BusinessProfile{
			MCC:          s.platform.DefaultMCC,
			URL:          s.platform.FrontendBaseURL + "/connected-accounts",
			SupportEmail: req.Email,
			SupportURL:   s.platform.FrontendBaseURL + "/support",
		},
		PayoutInterval:      "manual",
		StatementDescriptor: s.platform.StatementDescriptor,
		Metadata: map[string]string{
			"createdAt":    time.Now().UTC().Format(time.RFC3339),
			"createdBy":    "system",
			"accountType":  string(account.TypeStandard),
			"businessType": businessType,
		},
		IdempotencyKey: uuid.New().String(),
	})
	if err != nil {
		return nil, err
	}

	link, err := s.createRedirectLink(ctx, acct.ID)
	if err != nil {
		return nil, err
	}

	s.countLink(string(account.TypeStandard))
	s.logger.Info().Str("account_id", acct.ID).Str("business_type", businessType).Msg("standard onboarding link created")

	return &OnboardingResult{
		OnboardingLink: account.OnboardingLink{
			URL:          link,
			AccountID:    acct.ID,
			Type:         "standard_account_link",
			Email:        req.Email,
			BusinessType: businessType,
			ExpiresAt:    time.Now().Add(linkExpiry),
		},
		Account: acct,
	}, nil
}

// createRedirectLink issues the follow-up account link. The return URL
// carries a correlation id and the new account id so the frontend can
// resume the flow.
func (s *OnboardingService) createRedirectLink(ctx context.Context, accountID string) (string, error) {
	uid := uuid.New().String()
	return s.gateway.CreateOnboardingLink(ctx, stripegw.OnboardingLinkParams{
		AccountID:      accountID,
		RefreshURL:     s.platform.FrontendBaseURL + "/onboarding/refresh",
		ReturnURL:      fmt.Sprintf("%s/onboarding/complete?uid=%s&accountId=%s", s.platform.FrontendBaseURL, uid, accountID),
		IdempotencyKey: uuid.New().String(),
	})
}

// CreateDashboardLink requests a provider login link for the account.
// For the standard model the account is retrieved first and its type
// asserted; a mismatch fails before any link call is attempted.
func (s *OnboardingService) CreateDashboardLink(ctx context.Context, model account.Type, accountID, returnURL string) (*account.LoginLink, error) {
	if accountID == "" {
		return nil, domainErrors.ErrAccountIDRequired
	}

	if model == account.TypeStandard {
		acct, err := s.gateway.RetrieveAccount(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if acct.Type != account.TypeStandard {
			return nil, domainErrors.ErrAccountTypeMismatch
		}
	}

	url, err := s.gateway.CreateLoginLink(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if returnURL == "" {
		returnURL = s.platform.FrontendBaseURL + "/dashboard"
	}

	return &account.LoginLink{
		URL:       url,
		AccountID: accountID,
		Type:      string(model) + "_dashboard_link",
		ReturnURL: returnURL,
		ExpiresAt: time.Now().Add(linkExpiry),
	}, nil
}

// Branding holds the caller-supplied dashboard branding overrides.
type Branding struct {
	AccentColor string
	Logo        string
	Icon        string
	DisplayName string
}

// BrandingResult echoes a branding update.
type BrandingResult struct {
	AccountID string    `json:"accountId"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UpdateDashboardBranding applies caller branding to an express account.
func (s *OnboardingService) UpdateDashboardBranding(ctx context.Context, accountID string, b Branding) (*BrandingResult, error) {
	if accountID == "" {
		return nil, domainErrors.ErrAccountIDRequired
	}

	_, err := s.gateway.UpdateBranding(ctx, accountID, stripegw.BrandingParams{
		PrimaryColor: b.AccentColor,
		Logo:         b.Logo,
		Icon:         b.Icon,
		DisplayName:  b.DisplayName,
	})
	if err != nil {
		return nil, err
	}

	return &BrandingResult{AccountID: accountID, UpdatedAt: time.Now().UTC()}, nil
}

// CheckAccountStatus returns the onboarding-progress view of an account.
func (s *OnboardingService) CheckAccountStatus(ctx context.Context, accountID string) (*account.Status, error) {
	if accountID == "" {
		return nil, domainErrors.ErrAccountIDRequired
	}
	acct, err := s.gateway.RetrieveAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	status := acct.Status()
	return &status, nil
}

// GetAccount retrieves one connected account.
func (s *OnboardingService) GetAccount(ctx context.Context, accountID string) (*account.Account, error) {
	if accountID == "" {
		return nil, domainErrors.ErrAccountIDRequired
	}
	return s.gateway.RetrieveAccount(ctx, accountID)
}

// DeleteAccount removes a connected account.
func (s *OnboardingService) DeleteAccount(ctx context.Context, accountID string) error {
	if accountID == "" {
		return domainErrors.ErrAccountIDRequired
	}
	return s.gateway.DeleteAccount(ctx, accountID)
}

// ListAccounts lists connected accounts.
func (s *OnboardingService) ListAccounts(ctx context.Context, limit int64) ([]*account.Account, error) {
	if limit <= 0 {
		limit = defaultAccountListLimit
	}
	return s.gateway.ListAccounts(ctx, limit)
}

// UpdateAccountSettings sets the platform-controlled dashboard/fee/loss
// configuration flags. Repeating the same update is a provider-side no-op.
func (s *OnboardingService) UpdateAccountSettings(ctx context.Context, accountID string) (*account.Account, error) {
	if accountID == "" {
		return nil, domainErrors.ErrAccountIDRequired
	}
	return s.gateway.UpdateController(ctx, accountID)
}

// UpdateCapabilities requests the extended capability set for a standard
// account. Grants are additive, never implicitly revoked.
func (s *OnboardingService) UpdateCapabilities(ctx context.Context, accountID string) (*account.Account, error) {
	if accountID == "" {
		return nil, domainErrors.ErrAccountIDRequired
	}
	return s.gateway.UpdateCapabilities(ctx, accountID)
}

// CreateAccountSession opens an embedded-components session for an account.
func (s *OnboardingService) CreateAccountSession(ctx context.Context, accountID string) (*account.Session, error) {
	if accountID == "" {
		return nil, domainErrors.ErrAccountIDRequired
	}
	return s.gateway.CreateAccountSession(ctx, accountID)
}

func (s *OnboardingService) countLink(model string) {
	if s.metrics != nil {
		s.metrics.OnboardingLinksTotal.WithLabelValues(model).Inc()
	}
}
