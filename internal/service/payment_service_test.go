package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intelebee/connect/internal/domain/account"
	domainErrors "github.com/intelebee/connect/internal/domain/errors"
	"github.com/intelebee/connect/internal/domain/payment"
	stripegw "github.com/intelebee/connect/internal/gateway/stripe"
	"github.com/intelebee/connect/internal/testutil"
)

func newPaymentService(gw PSPGateway) *PaymentService {
	return NewPaymentService(gw, testutil.TestPlatformConfig(), zerolog.Nop(), nil)
}

func TestCreatePayment_Validation(t *testing.T) {
	tests := []struct {
		name           string
		req            PaymentRequest
		wantViolations []string
	}{
		{
			name: "zero amount",
			req:  PaymentRequest{Amount: 0, Currency: "usd", AccountID: "acct_1"},
			wantViolations: []string{
				"Amount must be greater than 0",
			},
		},
		{
			name: "missing currency",
			req:  PaymentRequest{Amount: 1000, AccountID: "acct_1"},
			wantViolations: []string{
				"Currency is required",
				"Currency not supported. Supported currencies: usd, eur, gbp, aud",
			},
		},
		{
			name: "unsupported currency",
			req:  PaymentRequest{Amount: 1000, Currency: "jpy", AccountID: "acct_1"},
			wantViolations: []string{
				"Currency not supported. Supported currencies: usd, eur, gbp, aud",
			},
		},
		{
			name: "everything wrong",
			req:  PaymentRequest{Amount: -5, Currency: "jpy"},
			wantViolations: []string{
				"Amount must be greater than 0",
				"Connected account ID is required",
				"Currency not supported. Supported currencies: usd, eur, gbp, aud",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := testutil.NewMockPSPGateway()
			retrieved := false
			gw.RetrieveAccountFunc = func(ctx context.Context, id string) (*account.Account, error) {
				retrieved = true
				return testutil.NewChargeableAccount(id, account.TypeExpress), nil
			}
			svc := newPaymentService(gw)

			_, err := svc.CreatePayment(context.Background(), tt.req)
			var verr *domainErrors.ValidationErrors
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantViolations, verr.Violations)
			assert.False(t, retrieved, "no provider call on invalid input")
		})
	}
}

func TestCreatePayment_NotChargeable(t *testing.T) {
	gw := testutil.NewMockPSPGateway()
	gw.SeedAccount(testutil.NewPendingAccount("acct_pending", account.TypeExpress))
	intentCalled := false
	gw.CreatePaymentIntentFunc = func(ctx context.Context, p stripegw.PaymentIntentParams) (*payment.Intent, error) {
		intentCalled = true
		return nil, nil
	}
	svc := newPaymentService(gw)

	_, err := svc.CreatePayment(context.Background(), PaymentRequest{
		Amount:    1000,
		Currency:  "usd",
		AccountID: "acct_pending",
	})
	require.ErrorIs(t, err, domainErrors.ErrAccountNotChargeable)
	assert.False(t, intentCalled)
}

func TestCreatePayment_Success(t *testing.T) {
	gw := testutil.NewMockPSPGateway()
	acct := testutil.NewChargeableAccount("acct_1", account.TypeExpress)
	acct.BusinessProfileName = "Widget Shop"
	gw.SeedAccount(acct)
	var captured stripegw.PaymentIntentParams
	gw.CreatePaymentIntentFunc = func(ctx context.Context, p stripegw.PaymentIntentParams) (*payment.Intent, error) {
		captured = p
		return &payment.Intent{ID: "pi_1", ClientSecret: "pi_1_secret", Amount: p.Amount, Currency: p.Currency, Status: "requires_payment_method"}, nil
	}
	svc := newPaymentService(gw)

	result, err := svc.CreatePayment(context.Background(), PaymentRequest{
		Amount:    10000,
		Currency:  "usd",
		AccountID: "acct_1",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(500), result.PlatformFee)
	assert.Equal(t, "pi_1", result.PaymentIntentID)
	assert.Equal(t, "pi_1_secret", result.ClientSecret)
	assert.Equal(t, "acct_1", result.DestinationAccount)
	assert.Equal(t, "requires_payment_method", result.Status)

	assert.Equal(t, int64(500), captured.ApplicationFee)
	assert.Equal(t, "acct_1", captured.Destination)
	assert.True(t, captured.AutomaticPaymentMethods)
	assert.False(t, captured.Confirm)
	assert.Equal(t, "off_session", captured.SetupFutureUsage)
	assert.Equal(t, "INTELEBEE PAY", captured.StatementDescriptor)
	assert.Equal(t, "Widget Shop", captured.StatementDescriptorSuffix)
	assert.Equal(t, "Payment to Widget Shop", captured.Description)
	assert.Equal(t, "500", captured.Metadata["platformFeeAmount"])
	assert.Equal(t, "5", captured.Metadata["platformFeePercentage"])
	assert.NotEmpty(t, captured.IdempotencyKey)
}

func TestCreatePayment_FeeFloorAndOverride(t *testing.T) {
	gw := testutil.NewMockPSPGateway()
	gw.SeedAccount(testutil.NewChargeableAccount("acct_1", account.TypeExpress))
	svc := newPaymentService(gw)

	// 100 * 5% = 5, floored to the 50 minimum.
	result, err := svc.CreatePayment(context.Background(), PaymentRequest{
		Amount: 100, Currency: "usd", AccountID: "acct_1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(50), result.PlatformFee)

	// Caller override: 10000 * 10% = 1000.
	override := 10.0
	result, err = svc.CreatePayment(context.Background(), PaymentRequest{
		Amount: 10000, Currency: "usd", AccountID: "acct_1", FeePercentage: &override,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), result.PlatformFee)

	// An explicit zero is not the default: the floor still applies.
	zero := 0.0
	result, err = svc.CreatePayment(context.Background(), PaymentRequest{
		Amount: 10000, Currency: "usd", AccountID: "acct_1", FeePercentage: &zero,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(50), result.PlatformFee)
}

func TestCreatePayment_SuffixFromProfileName(t *testing.T) {
	gw := testutil.NewMockPSPGateway()
	acct := testutil.NewChargeableAccount("acct_1", account.TypeExpress)
	acct.BusinessProfileName = "A VERY LONG SHOP NAME"
	gw.SeedAccount(acct)
	var captured stripegw.PaymentIntentParams
	gw.CreatePaymentIntentFunc = func(ctx context.Context, p stripegw.PaymentIntentParams) (*payment.Intent, error) {
		captured = p
		return &payment.Intent{ID: "pi_1"}, nil
	}
	svc := newPaymentService(gw)

	_, err := svc.CreatePayment(context.Background(), PaymentRequest{
		Amount: 1000, Currency: "usd", AccountID: "acct_1",
	})
	require.NoError(t, err)
	assert.Equal(t, "A VERY LONG ", captured.StatementDescriptorSuffix)
	assert.Len(t, captured.StatementDescriptorSuffix, payment.SuffixLimit)
}

func TestCreatePayment_DescriptionFallsBackToAccountID(t *testing.T) {
	gw := testutil.NewMockPSPGateway()
	gw.SeedAccount(testutil.NewChargeableAccount("acct_1", account.TypeExpress))
	var captured stripegw.PaymentIntentParams
	gw.CreatePaymentIntentFunc = func(ctx context.Context, p stripegw.PaymentIntentParams) (*payment.Intent, error) {
		captured = p
		return &payment.Intent{ID: "pi_1"}, nil
	}
	svc := newPaymentService(gw)

	_, err := svc.CreatePayment(context.Background(), PaymentRequest{
		Amount: 1000, Currency: "usd", AccountID: "acct_1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Payment to acct_1", captured.Description)
	assert.Empty(t, captured.StatementDescriptorSuffix)

	_, err = svc.CreatePayment(context.Background(), PaymentRequest{
		Amount: 1000, Currency: "usd", AccountID: "acct_1", Description: "Invoice 42",
	})
	require.NoError(t, err)
	assert.Equal(t, "Invoice 42", captured.Description)
}

func TestCreateDirectPayment(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		svc := newPaymentService(testutil.NewMockPSPGateway())
		_, err := svc.CreateDirectPayment(context.Background(), DirectPaymentRequest{})
		var verr *domainErrors.ValidationErrors
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{
			"Amount must be greater than 0",
			"Connected account ID is required",
			"Payment method is required",
		}, verr.Violations)
	})

	t.Run("success with confirm and on_behalf_of", func(t *testing.T) {
		gw := testutil.NewMockPSPGateway()
		gw.SeedAccount(testutil.NewChargeableAccount("acct_1", account.TypeExpress))
		var captured stripegw.PaymentIntentParams
		gw.CreatePaymentIntentFunc = func(ctx context.Context, p stripegw.PaymentIntentParams) (*payment.Intent, error) {
			captured = p
			return &payment.Intent{ID: "pi_d", Status: "succeeded", Amount: p.Amount, Currency: p.Currency}, nil
		}
		svc := newPaymentService(gw)

		result, err := svc.CreateDirectPayment(context.Background(), DirectPaymentRequest{
			Amount:        2000,
			AccountID:     "acct_1",
			PaymentMethod: "pm_card_visa",
		})
		require.NoError(t, err)

		assert.Equal(t, "usd", result.Currency)
		assert.Equal(t, int64(100), result.PlatformFee)
		assert.Equal(t, "succeeded", result.Status)

		assert.True(t, captured.Confirm)
		assert.Equal(t, "acct_1", captured.OnBehalfOf)
		assert.Equal(t, "acct_1", captured.Destination)
		assert.Equal(t, "pm_card_visa", captured.PaymentMethod)
		assert.Equal(t, "direct", captured.Metadata["paymentType"])
	})

	t.Run("unsupported currency", func(t *testing.T) {
		svc := newPaymentService(testutil.NewMockPSPGateway())
		_, err := svc.CreateDirectPayment(context.Background(), DirectPaymentRequest{
			Amount: 1000, AccountID: "acct_1", PaymentMethod: "pm_x", Currency: "chf",
		})
		var verr *domainErrors.ValidationErrors
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"Currency not supported. Supported currencies: usd, eur, gbp, aud"}, verr.Violations)
	})
}

func TestCreateDirectRefund(t *testing.T) {
	t.Run("missing charge id", func(t *testing.T) {
		svc := newPaymentService(testutil.NewMockPSPGateway())
		_, err := svc.CreateDirectRefund(context.Background(), RefundRequest{})
		require.ErrorIs(t, err, domainErrors.ErrChargeIDRequired)
	})

	t.Run("defaults reason and stamps metadata", func(t *testing.T) {
		gw := testutil.NewMockPSPGateway()
		var captured stripegw.RefundParams
		gw.CreateRefundFunc = func(ctx context.Context, p stripegw.RefundParams) (*payment.Refund, error) {
			captured = p
			return &payment.Refund{ID: "re_1", ChargeID: p.ChargeID, Status: "succeeded", Reason: p.Reason}, nil
		}
		svc := newPaymentService(gw)

		refund, err := svc.CreateDirectRefund(context.Background(), RefundRequest{ChargeID: "ch_1"})
		require.NoError(t, err)

		assert.Equal(t, "requested_by_customer", captured.Reason)
		assert.Equal(t, "direct_refund", captured.Metadata["type"])
		assert.Nil(t, captured.Amount)
		assert.Equal(t, "re_1", refund.ID)
	})

	t.Run("partial amount and explicit reason", func(t *testing.T) {
		gw := testutil.NewMockPSPGateway()
		var captured stripegw.RefundParams
		gw.CreateRefundFunc = func(ctx context.Context, p stripegw.RefundParams) (*payment.Refund, error) {
			captured = p
			return &payment.Refund{ID: "re_2"}, nil
		}
		svc := newPaymentService(gw)

		amount := int64(250)
		_, err := svc.CreateDirectRefund(context.Background(), RefundRequest{
			ChargeID: "ch_1", Amount: &amount, Reason: "fraudulent",
		})
		require.NoError(t, err)
		require.NotNil(t, captured.Amount)
		assert.Equal(t, int64(250), *captured.Amount)
		assert.Equal(t, "fraudulent", captured.Reason)
	})
}

func TestCreateCheckoutSession(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		svc := newPaymentService(testutil.NewMockPSPGateway())
		_, err := svc.CreateCheckoutSession(context.Background(), CheckoutRequest{})
		var verr *domainErrors.ValidationErrors
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{
			"Connected account ID is required",
			"At least one line item is required",
		}, verr.Violations)
	})

	t.Run("not chargeable", func(t *testing.T) {
		gw := testutil.NewMockPSPGateway()
		gw.SeedAccount(testutil.NewPendingAccount("acct_pending", account.TypeExpress))
		sessionCalled := false
		gw.CreateCheckoutSessionFunc = func(ctx context.Context, p stripegw.CheckoutSessionParams) (*payment.CheckoutSession, error) {
			sessionCalled = true
			return nil, nil
		}
		svc := newPaymentService(gw)

		_, err := svc.CreateCheckoutSession(context.Background(), CheckoutRequest{
			AccountID: "acct_pending",
			LineItems: []payment.LineItem{{Name: "Widget", UnitAmount: 1000, Quantity: 1}},
		})
		require.ErrorIs(t, err, domainErrors.ErrAccountNotChargeable)
		assert.False(t, sessionCalled)
	})

	t.Run("cart total and default fee", func(t *testing.T) {
		gw := testutil.NewMockPSPGateway()
		var captured stripegw.CheckoutSessionParams
		gw.CreateCheckoutSessionFunc = func(ctx context.Context, p stripegw.CheckoutSessionParams) (*payment.CheckoutSession, error) {
			captured = p
			return &payment.CheckoutSession{SessionID: "cs_1", ClientSecret: "cs_1_secret"}, nil
		}
		svc := newPaymentService(gw)

		session, err := svc.CreateCheckoutSession(context.Background(), CheckoutRequest{
			AccountID: "acct_1",
			LineItems: []payment.LineItem{
				{Name: "Widget", UnitAmount: 1500, Quantity: 2},
				{Name: "Sticker", UnitAmount: 500},
			},
		})
		require.NoError(t, err)

		// 1500*2 + 500*1 = 3500 total, 5% = 175 fee.
		assert.Equal(t, int64(3500), session.TotalAmount)
		assert.Equal(t, int64(175), session.PlatformFee)
		assert.Equal(t, int64(175), captured.ApplicationFee)
		assert.Equal(t, "acct_1", captured.StripeAccount)
		assert.Equal(t, "payment", captured.Mode)
		assert.Equal(t, "embedded", captured.UIMode)
		assert.Equal(t, "5", captured.Metadata["platformFeePercentage"])
		assert.Equal(t, "175", captured.Metadata["platformFeeAmount"])
		assert.Contains(t, captured.ReturnURL, "{CHECKOUT_SESSION_ID}")
	})
}
