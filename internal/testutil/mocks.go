package testutil

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"

	"github.com/intelebee/connect/internal/domain/account"
	"github.com/intelebee/connect/internal/domain/payment"
	"github.com/intelebee/connect/internal/gateway/payrix"
	stripegw "github.com/intelebee/connect/internal/gateway/stripe"
)

// --- PSP Gateway Mock ---

// MockPSPGateway is a mock implementation of service.PSPGateway. Set the
// XxxFunc field to override a method; unset methods return zero values.
type MockPSPGateway struct {
	mu       sync.Mutex
	accounts map[string]*account.Account

	CreateAccountFunc         func(ctx context.Context, p stripegw.CreateAccountParams) (*account.Account, error)
	RetrieveAccountFunc       func(ctx context.Context, accountID string) (*account.Account, error)
	DeleteAccountFunc         func(ctx context.Context, accountID string) error
	ListAccountsFunc          func(ctx context.Context, limit int64) ([]*account.Account, error)
	UpdateControllerFunc      func(ctx context.Context, accountID string) (*account.Account, error)
	UpdateBrandingFunc        func(ctx context.Context, accountID string, b stripegw.BrandingParams) (*account.Account, error)
	UpdateCapabilitiesFunc    func(ctx context.Context, accountID string) (*account.Account, error)
	CreateOnboardingLinkFunc  func(ctx context.Context, p stripegw.OnboardingLinkParams) (string, error)
	CreateLoginLinkFunc       func(ctx context.Context, accountID string) (string, error)
	CreateAccountSessionFunc  func(ctx context.Context, accountID string) (*account.Session, error)
	CreatePaymentIntentFunc   func(ctx context.Context, p stripegw.PaymentIntentParams) (*payment.Intent, error)
	CreateRefundFunc          func(ctx context.Context, p stripegw.RefundParams) (*payment.Refund, error)
	CreateCheckoutSessionFunc func(ctx context.Context, p stripegw.CheckoutSessionParams) (*payment.CheckoutSession, error)
}

func NewMockPSPGateway() *MockPSPGateway {
	return &MockPSPGateway{accounts: make(map[string]*account.Account)}
}

// SeedAccount registers an account for the default Retrieve/List behavior.
func (m *MockPSPGateway) SeedAccount(a *account.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[a.ID] = a
}

func (m *MockPSPGateway) CreateAccount(ctx context.Context, p stripegw.CreateAccountParams) (*account.Account, error) {
	if m.CreateAccountFunc != nil {
		return m.CreateAccountFunc(ctx, p)
	}
	a := &account.Account{
		ID:           "acct_mock",
		Type:         p.Type,
		Email:        p.Email,
		BusinessType: p.BusinessType,
		Metadata:     p.Metadata,
	}
	m.SeedAccount(a)
	return a, nil
}

func (m *MockPSPGateway) RetrieveAccount(ctx context.Context, accountID string) (*account.Account, error) {
	if m.RetrieveAccountFunc != nil {
		return m.RetrieveAccountFunc(ctx, accountID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accounts[accountID]; ok {
		return a, nil
	}
	return &account.Account{ID: accountID, Type: account.TypeExpress, ChargesEnabled: true}, nil
}

func (m *MockPSPGateway) DeleteAccount(ctx context.Context, accountID string) error {
	if m.DeleteAccountFunc != nil {
		return m.DeleteAccountFunc(ctx, accountID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, accountID)
	return nil
}

func (m *MockPSPGateway) ListAccounts(ctx context.Context, limit int64) ([]*account.Account, error) {
	if m.ListAccountsFunc != nil {
		return m.ListAccountsFunc(ctx, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*account.Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (m *MockPSPGateway) UpdateController(ctx context.Context, accountID string) (*account.Account, error) {
	if m.UpdateControllerFunc != nil {
		return m.UpdateControllerFunc(ctx, accountID)
	}
	return m.RetrieveAccount(ctx, accountID)
}

func (m *MockPSPGateway) UpdateBranding(ctx context.Context, accountID string, b stripegw.BrandingParams) (*account.Account, error) {
	if m.UpdateBrandingFunc != nil {
		return m.UpdateBrandingFunc(ctx, accountID, b)
	}
	return m.RetrieveAccount(ctx, accountID)
}

func (m *MockPSPGateway) UpdateCapabilities(ctx context.Context, accountID string) (*account.Account, error) {
	if m.UpdateCapabilitiesFunc != nil {
		return m.UpdateCapabilitiesFunc(ctx, accountID)
	}
	return m.RetrieveAccount(ctx, accountID)
}

func (m *MockPSPGateway) CreateOnboardingLink(ctx context.Context, p stripegw.OnboardingLinkParams) (string, error) {
	if m.CreateOnboardingLinkFunc != nil {
		return m.CreateOnboardingLinkFunc(ctx, p)
	}
	return "https://connect.example.com/setup/mock", nil
}

func (m *MockPSPGateway) CreateLoginLink(ctx context.Context, accountID string) (string, error) {
	if m.CreateLoginLinkFunc != nil {
		return m.CreateLoginLinkFunc(ctx, accountID)
	}
	return "https://connect.example.com/login/mock", nil
}

func (m *MockPSPGateway) CreateAccountSession(ctx context.Context, accountID string) (*account.Session, error) {
	if m.CreateAccountSessionFunc != nil {
		return m.CreateAccountSessionFunc(ctx, accountID)
	}
	return &account.Session{AccountID: accountID, ClientSecret: "accs_secret_mock"}, nil
}

func (m *MockPSPGateway) CreatePaymentIntent(ctx context.Context, p stripegw.PaymentIntentParams) (*payment.Intent, error) {
	if m.CreatePaymentIntentFunc != nil {
		return m.CreatePaymentIntentFunc(ctx, p)
	}
	return &payment.Intent{
		ID:           "pi_mock",
		ClientSecret: "pi_mock_secret",
		Amount:       p.Amount,
		Currency:     p.Currency,
		Status:       "requires_payment_method",
	}, nil
}

func (m *MockPSPGateway) CreateRefund(ctx context.Context, p stripegw.RefundParams) (*payment.Refund, error) {
	if m.CreateRefundFunc != nil {
		return m.CreateRefundFunc(ctx, p)
	}
	var amount int64
	if p.Amount != nil {
		amount = *p.Amount
	}
	return &payment.Refund{
		ID:       "re_mock",
		ChargeID: p.ChargeID,
		Amount:   amount,
		Status:   "succeeded",
		Reason:   p.Reason,
	}, nil
}

func (m *MockPSPGateway) CreateCheckoutSession(ctx context.Context, p stripegw.CheckoutSessionParams) (*payment.CheckoutSession, error) {
	if m.CreateCheckoutSessionFunc != nil {
		return m.CreateCheckoutSessionFunc(ctx, p)
	}
	return &payment.CheckoutSession{
		SessionID:    "cs_mock",
		ClientSecret: "cs_mock_secret",
	}, nil
}

// --- Acquirer Client Mock ---

// MockAcquirerClient is a mock implementation of service.AcquirerClient.
// Responses are matched by "METHOD path"; unmatched calls fall through to
// DoFunc and then to an empty envelope.
type MockAcquirerClient struct {
	mu        sync.Mutex
	responses map[string]*payrix.Response
	errors    map[string]error
	calls     []AcquirerCall

	DoFunc func(ctx context.Context, method, path string, query url.Values, body any) (*payrix.Response, error)
}

// AcquirerCall records one request seen by the mock.
type AcquirerCall struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

func NewMockAcquirerClient() *MockAcquirerClient {
	return &MockAcquirerClient{
		responses: make(map[string]*payrix.Response),
		errors:    make(map[string]error),
	}
}

// Respond registers a canned payload for "METHOD path".
func (m *MockAcquirerClient) Respond(method, path string, data any) {
	raw, _ := json.Marshal(data)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[method+" "+path] = &payrix.Response{Data: raw}
}

// Fail registers a canned error for "METHOD path".
func (m *MockAcquirerClient) Fail(method, path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[method+" "+path] = err
}

// Calls returns every request the mock has seen, in order.
func (m *MockAcquirerClient) Calls() []AcquirerCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]AcquirerCall, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *MockAcquirerClient) Do(ctx context.Context, method, path string, query url.Values, body any) (*payrix.Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, AcquirerCall{Method: method, Path: path, Query: query, Body: body})
	key := method + " " + path
	resp, okResp := m.responses[key]
	err, okErr := m.errors[key]
	m.mu.Unlock()

	if okErr {
		return nil, err
	}
	if okResp {
		return resp, nil
	}
	if m.DoFunc != nil {
		return m.DoFunc(ctx, method, path, query, body)
	}
	return &payrix.Response{}, nil
}
