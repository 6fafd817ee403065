package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/intelebee/connect/internal/config"
	domainErrors "github.com/intelebee/connect/internal/domain/errors"
	"github.com/intelebee/connect/internal/domain/payment"
	stripegw "github.com/intelebee/connect/internal/gateway/stripe"
	"github.com/intelebee/connect/internal/infrastructure/observability"
	"github.com/intelebee/connect/internal/validation"
)

// PaymentService moves funds to connected accounts with the platform fee
// carved out, and issues refunds and hosted checkout sessions.
type PaymentService struct {
	gateway  PSPGateway
	platform config.PlatformConfig
	logger   zerolog.Logger
	metrics  *observability.Metrics
}

// NewPaymentService creates a new PaymentService. Metrics may be nil.
func NewPaymentService(gateway PSPGateway, platform config.PlatformConfig, logger zerolog.Logger, metrics *observability.Metrics) *PaymentService {
	return &PaymentService{gateway: gateway, platform: platform, logger: logger, metrics: metrics}
}

// PaymentRequest is the input for a destination charge. A nil FeePercentage
// means the platform default; an explicit zero is kept and yields the
// minimum fee.
type PaymentRequest struct {
	Amount        int64
	Currency      string
	AccountID     string
	Description   string
	FeePercentage *float64
	Metadata      map[string]string
}

// CreatePayment runs the full destination-charge flow: validate every
// field up front, confirm the destination can take charges, compute the
// platform fee, then create the intent.
func (s *PaymentService) CreatePayment(ctx context.Context, req PaymentRequest) (*payment.Result, error) {
	// 1. Collect every violation before touching the provider.
	violations := validation.ValidatePaymentInput(validation.PaymentInput{
		Amount:    req.Amount,
		Currency:  req.Currency,
		AccountID: req.AccountID,
	})
	if len(violations) > 0 {
		return nil, &domainErrors.ValidationErrors{Violations: violations}
	}

	// 2. The destination must be chargeable before any money moves.
	acct, err := s.gateway.RetrieveAccount(ctx, req.AccountID)
	if err != nil {
		s.countPayment("destination", "error")
		return nil, err
	}
	if !acct.Chargeable() {
		s.countPayment("destination", "rejected")
		return nil, domainErrors.ErrAccountNotChargeable
	}

	// 3. Platform fee.
	pct := s.platform.FeePercentage
	if req.FeePercentage != nil {
		pct = *req.FeePercentage
	}
	fee := payment.ComputePlatformFee(req.Amount, pct)

	// 4. Create the intent with the fee routed to the platform. The
	// statement carries the platform descriptor with the merchant's
	// display name as the suffix.
	description := req.Description
	if description == "" {
		name := acct.BusinessProfileName
		if name == "" {
			name = req.AccountID
		}
		description = "Payment to " + name
	}
	metadata := map[string]string{
		"platformFeePercentage": fmt.Sprintf("%g", pct),
		"platformFeeAmount":     fmt.Sprintf("%d", fee),
		"createdAt":             time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, stripegw.PaymentIntentParams{
		Amount:                    req.Amount,
		Currency:                  req.Currency,
		Description:               description,
		ApplicationFee:            fee,
		Destination:               req.AccountID,
		AutomaticPaymentMethods:   true,
		SetupFutureUsage:          "off_session",
		StatementDescriptor:       s.platform.StatementDescriptor,
		StatementDescriptorSuffix: payment.TruncateSuffix(acct.BusinessProfileName),
		Metadata:                  metadata,
		IdempotencyKey:            uuid.New().String(),
	})
	if err != nil {
		s.countPayment("destination", "error")
		return nil, err
	}

	s.countPayment("destination", "created")
	s.observeFee(req.Currency, fee)
	s.logger.Info().
		Str("payment_intent_id", intent.ID).
		Str("destination", req.AccountID).
		Int64("amount", req.Amount).
		Int64("platform_fee", fee).
		Msg("payment created")

	return &payment.Result{
		Intent:             *intent,
		ClientSecret:       intent.ClientSecret,
		PaymentIntentID:    intent.ID,
		Amount:             req.Amount,
		Currency:           req.Currency,
		PlatformFee:        fee,
		DestinationAccount: req.AccountID,
		Status:             intent.Status,
	}, nil
}

// DirectPaymentRequest is the input for an immediately-confirmed charge
// with an explicit payment method.
type DirectPaymentRequest struct {
	Amount        int64
	Currency      string
	AccountID     string
	PaymentMethod string
	Description   string
	FeePercentage *float64
	Metadata      map[string]string
}

// CreateDirectPayment confirms a charge in one call using a caller-supplied
// payment method, still routed to the connected account with the platform
// fee carved out. Currency defaults to usd.
func (s *PaymentService) CreateDirectPayment(ctx context.Context, req DirectPaymentRequest) (*payment.Result, error) {
	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	var violations []string
	if req.Amount <= 0 {
		violations = append(violations, "Amount must be greater than 0")
	}
	if req.AccountID == "" {
		violations = append(violations, "Connected account ID is required")
	}
	if req.PaymentMethod == "" {
		violations = append(violations, "Payment method is required")
	}
	if !validation.IsSupportedCurrency(currency) {
		violations = append(violations, "Currency not supported. Supported currencies: usd, eur, gbp, aud")
	}
	if len(violations) > 0 {
		return nil, &domainErrors.ValidationErrors{Violations: violations}
	}

	acct, err := s.gateway.RetrieveAccount(ctx, req.AccountID)
	if err != nil {
		s.countPayment("direct", "error")
		return nil, err
	}
	if !acct.Chargeable() {
		s.countPayment("direct", "rejected")
		return nil, domainErrors.ErrAccountNotChargeable
	}

	pct := s.platform.FeePercentage
	if req.FeePercentage != nil {
		pct = *req.FeePercentage
	}
	fee := payment.ComputePlatformFee(req.Amount, pct)

	metadata := map[string]string{
		"platformFeePercentage": fmt.Sprintf("%g", pct),
		"platformFeeAmount":     fmt.Sprintf("%d", fee),
		"paymentType":           "direct",
		"createdAt":             time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, stripegw.PaymentIntentParams{
		Amount:         req.Amount,
		Currency:       currency,
		Description:    req.Description,
		ApplicationFee: fee,
		Destination:    req.AccountID,
		OnBehalfOf:     req.AccountID,
		PaymentMethod:  req.PaymentMethod,
		Confirm:        true,
		Metadata:       metadata,
		IdempotencyKey: uuid.New().String(),
	})
	if err != nil {
		s.countPayment("direct", "error")
		return nil, err
	}

	s.countPayment("direct", "created")
	s.observeFee(currency, fee)
	s.logger.Info().
		Str("payment_intent_id", intent.ID).
		Str("destination", req.AccountID).
		Int64("amount", req.Amount).
		Msg("direct payment created")

	return &payment.Result{
		Intent:             *intent,
		ClientSecret:       intent.ClientSecret,
		PaymentIntentID:    intent.ID,
		Amount:             req.Amount,
		Currency:           currency,
		PlatformFee:        fee,
		DestinationAccount: req.AccountID,
		Status:             intent.Status,
	}, nil
}

// RefundRequest is the input for refunding an existing charge. A nil
// Amount refunds in full; an empty Reason defaults to customer request.
type RefundRequest struct {
	ChargeID string
	Amount   *int64
	Reason   string
}

// CreateDirectRefund refunds a charge made through the direct flow.
func (s *PaymentService) CreateDirectRefund(ctx context.Context, req RefundRequest) (*payment.Refund, error) {
	if req.ChargeID == "" {
		return nil, domainErrors.ErrChargeIDRequired
	}
	reason := req.Reason
	if reason == "" {
		reason = "requested_by_customer"
	}

	refund, err := s.gateway.CreateRefund(ctx, stripegw.RefundParams{
		ChargeID: req.ChargeID,
		Amount:   req.Amount,
		Reason:   reason,
		Metadata: map[string]string{
			"type":      "direct_refund",
			"createdAt": time.Now().UTC().Format(time.RFC3339),
		},
		IdempotencyKey: uuid.New().String(),
	})
	if err != nil {
		s.countPayment("refund", "error")
		return nil, err
	}

	s.countPayment("refund", "created")
	s.logger.Info().
		Str("refund_id", refund.ID).
		Str("charge_id", req.ChargeID).
		Msg("refund created")

	return refund, nil
}

// CheckoutRequest is the input for a hosted checkout session scoped to a
// connected account.
type CheckoutRequest struct {
	AccountID string
	Currency  string
	LineItems []payment.LineItem
	ReturnURL string
	Metadata  map[string]string
}

// CreateCheckoutSession opens an embedded checkout session on behalf of a
// connected account with the default platform fee on the cart total.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*payment.CheckoutSession, error) {
	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	var violations []string
	if req.AccountID == "" {
		violations = append(violations, "Connected account ID is required")
	}
	if len(req.LineItems) == 0 {
		violations = append(violations, "At least one line item is required")
	}
	if !validation.IsSupportedCurrency(currency) {
		violations = append(violations, "Currency not supported. Supported currencies: usd, eur, gbp, aud")
	}
	if len(violations) > 0 {
		return nil, &domainErrors.ValidationErrors{Violations: violations}
	}

	// The scoped account must be chargeable before opening a session.
	acct, err := s.gateway.RetrieveAccount(ctx, req.AccountID)
	if err != nil {
		s.countPayment("checkout", "error")
		return nil, err
	}
	if !acct.Chargeable() {
		s.countPayment("checkout", "rejected")
		return nil, domainErrors.ErrAccountNotChargeable
	}

	total := payment.Total(req.LineItems)
	fee := payment.ComputePlatformFee(total, s.platform.FeePercentage)

	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = s.platform.FrontendBaseURL + "/checkout/complete?session_id={CHECKOUT_SESSION_ID}"
	}

	metadata := map[string]string{
		"platformFeePercentage": fmt.Sprintf("%g", s.platform.FeePercentage),
		"platformFeeAmount":     fmt.Sprintf("%d", fee),
		"createdAt":             time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, stripegw.CheckoutSessionParams{
		LineItems:      req.LineItems,
		Currency:       currency,
		ApplicationFee: fee,
		Mode:           "payment",
		UIMode:         "embedded",
		ReturnURL:      returnURL,
		Metadata:       metadata,
		StripeAccount:  req.AccountID,
		IdempotencyKey: uuid.New().String(),
	})
	if err != nil {
		s.countPayment("checkout", "error")
		return nil, err
	}

	s.countPayment("checkout", "created")
	s.observeFee(currency, fee)
	s.logger.Info().
		Str("session_id", session.SessionID).
		Str("account_id", req.AccountID).
		Int64("total", total).
		Msg("checkout session created")

	session.TotalAmount = total
	session.PlatformFee = fee
	return session, nil
}

func (s *PaymentService) countPayment(kind, outcome string) {
	if s.metrics != nil {
		s.metrics.PaymentsTotal.WithLabelValues(kind, outcome).Inc()
	}
}

func (s *PaymentService) observeFee(currency string, fee int64) {
	if s.metrics != nil {
		s.metrics.PlatformFeeAmount.WithLabelValues(currency).Observe(float64(fee))
	}
}
