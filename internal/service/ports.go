package service

import (
	"context"
	"net/url"

	"github.com/intelebee/connect/internal/domain/account"
	"github.com/intelebee/connect/internal/domain/payment"
	"github.com/intelebee/connect/internal/gateway/payrix"
	stripegw "github.com/intelebee/connect/internal/gateway/stripe"
)

// PSPGateway is the card-network PSP capability set the orchestrators call.
// The concrete implementation lives in internal/gateway/stripe.
type PSPGateway interface {
	CreateAccount(ctx context.Context, p stripegw.CreateAccountParams) (*account.Account, error)
	RetrieveAccount(ctx context.Context, accountID string) (*account.Account, error)
	DeleteAccount(ctx context.Context, accountID string) error
	ListAccounts(ctx context.Context, limit int64) ([]*account.Account, error)
	UpdateController(ctx context.Context, accountID string) (*account.Account, error)
	UpdateBranding(ctx context.Context, accountID string, b stripegw.BrandingParams) (*account.Account, error)
	UpdateCapabilities(ctx context.Context, accountID string) (*account.Account, error)
	CreateOnboardingLink(ctx context.Context, p stripegw.OnboardingLinkParams) (string, error)
	CreateLoginLink(ctx context.Context, accountID string) (string, error)
	CreateAccountSession(ctx context.Context, accountID string) (*account.Session, error)
	CreatePaymentIntent(ctx context.Context, p stripegw.PaymentIntentParams) (*payment.Intent, error)
	CreateRefund(ctx context.Context, p stripegw.RefundParams) (*payment.Refund, error)
	CreateCheckoutSession(ctx context.Context, p stripegw.CheckoutSessionParams) (*payment.CheckoutSession, error)
}

// AcquirerClient is the acquiring-gateway REST surface. The concrete
// implementation lives in internal/gateway/payrix.
type AcquirerClient interface {
	Do(ctx context.Context, method, path string, query url.Values, body any) (*payrix.Response, error)
}

var (
	_ PSPGateway     = (*stripegw.Gateway)(nil)
	_ AcquirerClient = (*payrix.Client)(nil)
)
