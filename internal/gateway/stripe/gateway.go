// Package stripe adapts the card-network PSP behind a small interface the
// orchestrators call. Provider responses are mapped down to the fields the
// platform reads; provider failures are re-thrown as structured
// ProviderError values, never as raw transport errors.
package stripe

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/intelebee/connect/internal/domain/account"
	domainErrors "github.com/intelebee/connect/internal/domain/errors"
	"github.com/intelebee/connect/internal/domain/payment"
	"github.com/intelebee/connect/internal/infrastructure/observability"
)

// Gateway wraps the PSP SDK client with error translation and call metrics.
type Gateway struct {
	api     *client.API
	logger  zerolog.Logger
	metrics *observability.Metrics
}

// New builds a gateway around the given secret key. Metrics may be nil.
func New(secretKey string, logger zerolog.Logger, metrics *observability.Metrics) *Gateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Gateway{api: api, logger: logger, metrics: metrics}
}

// BusinessProfile is the subset of the provider business profile the
// orchestrator sets.
type BusinessProfile struct {
	MCC          string
	Name         string
	URL          string
	SupportEmail string
	SupportURL   string
}

// CreateAccountParams shapes a connected-account creation call. Card
// payments and transfers are always requested; extended capabilities go
// through UpdateCapabilities.
type CreateAccountParams struct {
	Type                account.Type
	Email               string
	BusinessType        string
	BusinessProfile     *BusinessProfile
	PayoutInterval      string
	StatementDescriptor string
	Metadata            map[string]string
	IdempotencyKey      string
}

// CreateAccount creates a connected account at the provider.
func (g *Gateway) CreateAccount(ctx context.Context, p CreateAccountParams) (*account.Account, error) {
	params := &stripe.AccountParams{
		Type: stripe.String(string(p.Type)),
		Capabilities: &stripe.AccountCapabilitiesParams{
			CardPayments: &stripe.AccountCapabilitiesCardPaymentsParams{Requested: stripe.Bool(true)},
			Transfers:    &stripe.AccountCapabilitiesTransfersParams{Requested: stripe.Bool(true)},
		},
		Settings: &stripe.AccountSettingsParams{
			Payouts: &stripe.AccountSettingsPayoutsParams{
				Schedule: &stripe.AccountSettingsPayoutsScheduleParams{
					Interval: stripe.String(p.PayoutInterval),
				},
			},
			Payments: &stripe.AccountSettingsPaymentsParams{
				StatementDescriptor: stripe.String(p.StatementDescriptor),
			},
		},
	}
	params.Context = ctx
	if p.IdempotencyKey != "" {
		params.IdempotencyKey = stripe.String(p.IdempotencyKey)
	}
	if p.Email != "" {
		params.Email = stripe.String(p.Email)
	}
	if p.BusinessType != "" {
		params.BusinessType = stripe.String(p.BusinessType)
	}
	if p.BusinessProfile != nil {
		params.BusinessProfile = &stripe.AccountBusinessProfileParams{}
		if p.BusinessProfile.MCC != "" {
			params.BusinessProfile.MCC = stripe.String(p.BusinessProfile.MCC)
		}
		if p.BusinessProfile.Name != "" {
			params.BusinessProfile.Name = stripe.String(p.BusinessProfile.Name)
		}
		if p.BusinessProfile.URL != "" {
			params.BusinessProfile.URL = stripe.String(p.BusinessProfile.URL)
		}
		if p.BusinessProfile.SupportEmail != "" {
			params.BusinessProfile.SupportEmail = stripe.String(p.BusinessProfile.SupportEmail)
		}
		if p.BusinessProfile.SupportURL != "" {
			params.BusinessProfile.SupportURL = stripe.String(p.BusinessProfile.SupportURL)
		}
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	start := time.Now()
	acct, err := g.api.Accounts.New(params)
	g.observe("create_account", start, err)
	if err != nil {
		return nil, g.translate("create_account", err)
	}
	return toDomainAccount(acct), nil
}

// RetrieveAccount fetches a connected account by id.
func (g *Gateway) RetrieveAccount(ctx context.Context, accountID string) (*account.Account, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx

	start := time.Now()
	acct, err := g.api.Accounts.GetByID(accountID, params)
	g.observe("retrieve_account", start, err)
	if err != nil {
		return nil, g.translate("retrieve_account", err)
	}
	return toDomainAccount(acct), nil
}

// DeleteAccount removes a connected account.
func (g *Gateway) DeleteAccount(ctx context.Context, accountID string) error {
	params := &stripe.AccountParams{}
	params.Context = ctx

	start := time.Now()
	_, err := g.api.Accounts.Del(accountID, params)
	g.observe("delete_account", start, err)
	if err != nil {
		return g.translate("delete_account", err)
	}
	return nil
}

// ListAccounts pages through connected accounts up to limit.
func (g *Gateway) ListAccounts(ctx context.Context, limit int64) ([]*account.Account, error) {
	params := &stripe.AccountListParams{}
	params.Context = ctx
	params.Limit = stripe.Int64(limit)

	start := time.Now()
	iter := g.api.Accounts.List(params)

	accounts := make([]*account.Account, 0, limit)
	for iter.Next() {
		accounts = append(accounts, toDomainAccount(iter.Account()))
	}
	err := iter.Err()
	g.observe("list_accounts", start, err)
	if err != nil {
		return nil, g.translate("list_accounts", err)
	}
	return accounts, nil
}

// UpdateController sets the platform-controlled dashboard/fee/loss
// configuration on an account. Repeating the same update is a provider-side
// no-op.
func (g *Gateway) UpdateController(ctx context.Context, accountID string) (*account.Account, error) {
	params := &stripe.AccountParams{
		Controller: &stripe.AccountControllerParams{
			StripeDashboard: &stripe.AccountControllerStripeDashboardParams{
				Type: stripe.String("full"),
			},
			Fees: &stripe.AccountControllerFeesParams{
				Payer: stripe.String("account"),
			},
			Losses: &stripe.AccountControllerLossesParams{
				Payments: stripe.String("stripe"),
			},
			RequirementCollection: stripe.String("stripe"),
		},
	}
	params.Context = ctx

	start := time.Now()
	acct, err := g.api.Accounts.Update(accountID, params)
	g.observe("update_controller", start, err)
	if err != nil {
		return nil, g.translate("update_controller", err)
	}
	return toDomainAccount(acct), nil
}

// BrandingParams shapes a dashboard branding update.
type BrandingParams struct {
	PrimaryColor string
	Logo         string
	Icon         string
	DisplayName  string
}

// UpdateBranding applies dashboard branding to an account. The display name
// maps onto the business profile name, which is what card statements and
// the hosted dashboard render.
func (g *Gateway) UpdateBranding(ctx context.Context, accountID string, b BrandingParams) (*account.Account, error) {
	params := &stripe.AccountParams{
		Settings: &stripe.AccountSettingsParams{
			Branding: &stripe.AccountSettingsBrandingParams{},
		},
	}
	params.Context = ctx
	if b.PrimaryColor != "" {
		params.Settings.Branding.PrimaryColor = stripe.String(b.PrimaryColor)
	}
	if b.Logo != "" {
		params.Settings.Branding.Logo = stripe.String(b.Logo)
	}
	if b.Icon != "" {
		params.Settings.Branding.Icon = stripe.String(b.Icon)
	}
	if b.DisplayName != "" {
		params.BusinessProfile = &stripe.AccountBusinessProfileParams{
			Name: stripe.String(b.DisplayName),
		}
	}

	start := time.Now()
	acct, err := g.api.Accounts.Update(accountID, params)
	g.observe("update_branding", start, err)
	if err != nil {
		return nil, g.translate("update_branding", err)
	}
	return toDomainAccount(acct), nil
}

// UpdateCapabilities requests the extended capability set for a standard
// account: ACH debits, 1099-K tax reporting, and link payments on top of
// the base card/transfer pair. Capability grants are additive.
func (g *Gateway) UpdateCapabilities(ctx context.Context, accountID string) (*account.Account, error) {
	requested := &stripe.AccountCapabilitiesParams{
		CardPayments:             &stripe.AccountCapabilitiesCardPaymentsParams{Requested: stripe.Bool(true)},
		Transfers:                &stripe.AccountCapabilitiesTransfersParams{Requested: stripe.Bool(true)},
		USBankAccountACHPayments: &stripe.AccountCapabilitiesUSBankAccountACHPaymentsParams{Requested: stripe.Bool(true)},
		TaxReportingUS1099K:      &stripe.AccountCapabilitiesTaxReportingUS1099KParams{Requested: stripe.Bool(true)},
		LinkPayments:             &stripe.AccountCapabilitiesLinkPaymentsParams{Requested: stripe.Bool(true)},
	}
	params := &stripe.AccountParams{Capabilities: requested}
	params.Context = ctx

	start := time.Now()
	acct, err := g.api.Accounts.Update(accountID, params)
	g.observe("update_capabilities", start, err)
	if err != nil {
		return nil, g.translate("update_capabilities", err)
	}
	return toDomainAccount(acct), nil
}

// OnboardingLinkParams shapes an account-link creation call.
type OnboardingLinkParams struct {
	AccountID      string
	RefreshURL     string
	ReturnURL      string
	IdempotencyKey string
}

// CreateOnboardingLink creates the provider-hosted onboarding URL for an
// account both base capabilities and eventually-due requirements collect
// through.
func (g *Gateway) CreateOnboardingLink(ctx context.Context, p OnboardingLinkParams) (string, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(p.AccountID),
		RefreshURL: stripe.String(p.RefreshURL),
		ReturnURL:  stripe.String(p.ReturnURL),
		Type:       stripe.String("account_onboarding"),
		Collect:    stripe.String("eventually_due"),
	}
	params.Context = ctx
	if p.IdempotencyKey != "" {
		params.IdempotencyKey = stripe.String(p.IdempotencyKey)
	}

	start := time.Now()
	link, err := g.api.AccountLinks.New(params)
	g.observe("create_onboarding_link", start, err)
	if err != nil {
		return "", g.translate("create_onboarding_link", err)
	}
	return link.URL, nil
}

// CreateLoginLink creates a one-time dashboard login URL for an express
// account.
func (g *Gateway) CreateLoginLink(ctx context.Context, accountID string) (string, error) {
	params := &stripe.LoginLinkParams{Account: stripe.String(accountID)}
	params.Context = ctx

	start := time.Now()
	link, err := g.api.LoginLinks.New(params)
	g.observe("create_login_link", start, err)
	if err != nil {
		return "", g.translate("create_login_link", err)
	}
	return link.URL, nil
}

// CreateAccountSession opens an embedded-components session for the
// account, enabling the platform's default component set.
func (g *Gateway) CreateAccountSession(ctx context.Context, accountID string) (*account.Session, error) {
	params := &stripe.AccountSessionParams{
		Account: stripe.String(accountID),
		Components: &stripe.AccountSessionComponentsParams{
			Payments: &stripe.AccountSessionComponentsPaymentsParams{
				Enabled: stripe.Bool(true),
				Features: &stripe.AccountSessionComponentsPaymentsFeaturesParams{
					RefundManagement:  stripe.Bool(true),
					DisputeManagement: stripe.Bool(true),
					CapturePayments:   stripe.Bool(true),
				},
			},
			AccountManagement: &stripe.AccountSessionComponentsAccountManagementParams{
				Enabled: stripe.Bool(true),
				Features: &stripe.AccountSessionComponentsAccountManagementFeaturesParams{
					ExternalAccountCollection: stripe.Bool(true),
				},
			},
			AccountOnboarding: &stripe.AccountSessionComponentsAccountOnboardingParams{
				Enabled: stripe.Bool(true),
				Features: &stripe.AccountSessionComponentsAccountOnboardingFeaturesParams{
					ExternalAccountCollection: stripe.Bool(true),
				},
			},
			Balances: &stripe.AccountSessionComponentsBalancesParams{
				Enabled: stripe.Bool(true),
				Features: &stripe.AccountSessionComponentsBalancesFeaturesParams{
					InstantPayouts:     stripe.Bool(true),
					StandardPayouts:    stripe.Bool(true),
					EditPayoutSchedule: stripe.Bool(true),
				},
			},
			Payouts: &stripe.AccountSessionComponentsPayoutsParams{
				Enabled: stripe.Bool(true),
				Features: &stripe.AccountSessionComponentsPayoutsFeaturesParams{
					InstantPayouts:            stripe.Bool(true),
					StandardPayouts:           stripe.Bool(true),
					EditPayoutSchedule:        stripe.Bool(true),
					ExternalAccountCollection: stripe.Bool(true),
				},
			},
			NotificationBanner: &stripe.AccountSessionComponentsNotificationBannerParams{
				Enabled: stripe.Bool(true),
				Features: &stripe.AccountSessionComponentsNotificationBannerFeaturesParams{
					ExternalAccountCollection: stripe.Bool(true),
				},
			},
		},
	}
	params.Context = ctx

	start := time.Now()
	session, err := g.api.AccountSessions.New(params)
	g.observe("create_account_session", start, err)
	if err != nil {
		return nil, g.translate("create_account_session", err)
	}
	return &account.Session{AccountID: accountID, ClientSecret: session.ClientSecret}, nil
}

// PaymentIntentParams shapes a funds-movement call.
type PaymentIntentParams struct {
	Amount                    int64
	Currency                  string
	Description               string
	ApplicationFee            int64
	Destination               string
	OnBehalfOf                string
	PaymentMethod             string
	Confirm                   bool
	AutomaticPaymentMethods   bool
	SetupFutureUsage          string
	StatementDescriptor       string
	StatementDescriptorSuffix string
	Metadata                  map[string]string
	IdempotencyKey            string
}

// CreatePaymentIntent issues the funds-movement call.
func (g *Gateway) CreatePaymentIntent(ctx context.Context, p PaymentIntentParams) (*payment.Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(p.Amount),
		Currency:      stripe.String(p.Currency),
		CaptureMethod: stripe.String("automatic"),
	}
	params.Context = ctx
	if p.IdempotencyKey != "" {
		params.IdempotencyKey = stripe.String(p.IdempotencyKey)
	}
	if p.Description != "" {
		params.Description = stripe.String(p.Description)
	}
	if p.ApplicationFee > 0 {
		params.ApplicationFeeAmount = stripe.Int64(p.ApplicationFee)
	}
	if p.Destination != "" {
		params.TransferData = &stripe.PaymentIntentTransferDataParams{
			Destination: stripe.String(p.Destination),
		}
	}
	if p.OnBehalfOf != "" {
		params.OnBehalfOf = stripe.String(p.OnBehalfOf)
	}
	if p.AutomaticPaymentMethods {
		params.AutomaticPaymentMethods = &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		}
	}
	if p.PaymentMethod != "" {
		params.PaymentMethod = stripe.String(p.PaymentMethod)
	}
	if p.Confirm {
		params.Confirm = stripe.Bool(true)
	}
	if p.SetupFutureUsage != "" {
		params.SetupFutureUsage = stripe.String(p.SetupFutureUsage)
	}
	if p.StatementDescriptor != "" {
		params.StatementDescriptor = stripe.String(p.StatementDescriptor)
	}
	if p.StatementDescriptorSuffix != "" {
		params.StatementDescriptorSuffix = stripe.String(p.StatementDescriptorSuffix)
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	start := time.Now()
	intent, err := g.api.PaymentIntents.New(params)
	g.observe("create_payment_intent", start, err)
	if err != nil {
		return nil, g.translate("create_payment_intent", err)
	}
	return &payment.Intent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       intent.Amount,
		Currency:     string(intent.Currency),
		Status:       string(intent.Status),
	}, nil
}

// RefundParams shapes a refund call against an existing charge.
type RefundParams struct {
	ChargeID       string
	Amount         *int64
	Reason         string
	Metadata       map[string]string
	IdempotencyKey string
}

// CreateRefund refunds a charge; a nil amount refunds it in full.
func (g *Gateway) CreateRefund(ctx context.Context, p RefundParams) (*payment.Refund, error) {
	params := &stripe.RefundParams{
		Charge: stripe.String(p.ChargeID),
	}
	params.Context = ctx
	if p.IdempotencyKey != "" {
		params.IdempotencyKey = stripe.String(p.IdempotencyKey)
	}
	if p.Amount != nil {
		params.Amount = stripe.Int64(*p.Amount)
	}
	if p.Reason != "" {
		params.Reason = stripe.String(p.Reason)
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	start := time.Now()
	refund, err := g.api.Refunds.New(params)
	g.observe("create_refund", start, err)
	if err != nil {
		return nil, g.translate("create_refund", err)
	}
	result := &payment.Refund{
		ID:        refund.ID,
		ChargeID:  p.ChargeID,
		Amount:    refund.Amount,
		Currency:  string(refund.Currency),
		Status:    string(refund.Status),
		Reason:    string(refund.Reason),
		CreatedAt: time.Unix(refund.Created, 0).UTC(),
	}
	return result, nil
}

// CheckoutSessionParams shapes a hosted checkout creation, scoped to the
// connected account rather than routed through transfer data.
type CheckoutSessionParams struct {
	LineItems      []payment.LineItem
	Currency       string
	ApplicationFee int64
	Mode           string
	UIMode         string
	ReturnURL      string
	Metadata       map[string]string
	StripeAccount  string
	IdempotencyKey string
}

// CreateCheckoutSession creates a hosted checkout session on behalf of the
// connected account.
func (g *Gateway) CreateCheckoutSession(ctx context.Context, p CheckoutSessionParams) (*payment.CheckoutSession, error) {
	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(p.LineItems))
	for _, item := range p.LineItems {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(qty),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(p.Currency),
				UnitAmount: stripe.Int64(item.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
		})
	}

	params := &stripe.CheckoutSessionParams{
		LineItems: items,
		Mode:      stripe.String(p.Mode),
		UIMode:    stripe.String(p.UIMode),
		ReturnURL: stripe.String(p.ReturnURL),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			ApplicationFeeAmount: stripe.Int64(p.ApplicationFee),
		},
	}
	params.Context = ctx
	if p.StripeAccount != "" {
		params.StripeAccount = stripe.String(p.StripeAccount)
	}
	if p.IdempotencyKey != "" {
		params.IdempotencyKey = stripe.String(p.IdempotencyKey)
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	start := time.Now()
	session, err := g.api.CheckoutSessions.New(params)
	g.observe("create_checkout_session", start, err)
	if err != nil {
		return nil, g.translate("create_checkout_session", err)
	}
	return &payment.CheckoutSession{
		SessionID:    session.ID,
		ClientSecret: session.ClientSecret,
		URL:          session.URL,
		ExpiresAt:    session.ExpiresAt,
	}, nil
}

// translate re-wraps an SDK error into the uniform provider error shape,
// keeping the upstream status/message/code/type for caller debuggability.
func (g *Gateway) translate(op string, err error) error {
	var sErr *stripe.Error
	if errors.As(err, &sErr) {
		g.logger.Error().
			Str("operation", op).
			Str("code", string(sErr.Code)).
			Str("type", string(sErr.Type)).
			Int("status", sErr.HTTPStatusCode).
			Msg("stripe call failed")
		return &domainErrors.ProviderError{
			StatusCode: sErr.HTTPStatusCode,
			Message:    sErr.Msg,
			Code:       string(sErr.Code),
			Type:       string(sErr.Type),
			Details:    sErr,
			Err:        err,
		}
	}
	g.logger.Error().Str("operation", op).Err(err).Msg("stripe transport failure")
	return domainErrors.NewProviderError(0, "payment provider request failed", err)
}

func (g *Gateway) observe(op string, start time.Time, err error) {
	if g.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	g.metrics.ProviderCallsTotal.WithLabelValues("stripe", op, outcome).Inc()
	g.metrics.ProviderCallDuration.WithLabelValues("stripe", op).Observe(time.Since(start).Seconds())
}

// toDomainAccount maps the SDK account onto the fields the platform reads.
func toDomainAccount(acct *stripe.Account) *account.Account {
	if acct == nil {
		return nil
	}

	out := &account.Account{
		ID:               acct.ID,
		Type:             account.Type(acct.Type),
		Email:            acct.Email,
		BusinessType:     string(acct.BusinessType),
		ChargesEnabled:   acct.ChargesEnabled,
		PayoutsEnabled:   acct.PayoutsEnabled,
		DetailsSubmitted: acct.DetailsSubmitted,
		Metadata:         acct.Metadata,
	}
	if acct.BusinessProfile != nil {
		out.BusinessProfileName = acct.BusinessProfile.Name
	}
	if acct.Requirements != nil {
		out.Requirements = account.Requirements{
			CurrentlyDue:        orEmpty(acct.Requirements.CurrentlyDue),
			EventuallyDue:       orEmpty(acct.Requirements.EventuallyDue),
			PendingVerification: orEmpty(acct.Requirements.PendingVerification),
		}
	} else {
		out.Requirements = account.Requirements{
			CurrentlyDue:        []string{},
			EventuallyDue:       []string{},
			PendingVerification: []string{},
		}
	}
	if acct.Capabilities != nil {
		caps := make(map[string]string)
		addCapability(caps, "card_payments", string(acct.Capabilities.CardPayments))
		addCapability(caps, "transfers", string(acct.Capabilities.Transfers))
		addCapability(caps, "us_bank_account_ach_payments", string(acct.Capabilities.USBankAccountACHPayments))
		addCapability(caps, "tax_reporting_us_1099_k", string(acct.Capabilities.TaxReportingUS1099K))
		addCapability(caps, "link_payments", string(acct.Capabilities.LinkPayments))
		if len(caps) > 0 {
			out.Capabilities = caps
		}
	}
	return out
}

func addCapability(caps map[string]string, name, status string) {
	if status != "" {
		caps[name] = status
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
