package controller

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/intelebee/connect/internal/domain/account"
	stripegw "github.com/intelebee/connect/internal/gateway/stripe"
	"github.com/intelebee/connect/internal/service"
)

// StripeController exposes the card-network PSP operations: onboarding,
// account management and funds movement.
type StripeController struct {
	onboarding *service.OnboardingService
	payments   *service.PaymentService
}

func NewStripeController(onboarding *service.OnboardingService, payments *service.PaymentService) *StripeController {
	return &StripeController{onboarding: onboarding, payments: payments}
}

// --- Onboarding ---

func (h *StripeController) CreateExpressOnboardingLink(w http.ResponseWriter, r *http.Request) {
	var req ExpressOnboardingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, "Failed to create express onboarding link", err)
		return
	}

	svcReq := service.ExpressOnboardingRequest{Email: req.Email}
	if req.BusinessProfile != nil {
		svcReq.BusinessProfile = &stripegw.BusinessProfile{
			MCC:          req.BusinessProfile.MCC,
			Name:         req.BusinessProfile.Name,
			URL:          req.BusinessProfile.URL,
			SupportEmail: req.BusinessProfile.SupportEmail,
			SupportURL:   req.BusinessProfile.SupportURL,
		}
	}
	if req.Settings != nil {
		svcReq.Settings = &service.OnboardingSettings{
			PayoutSchedule:      req.Settings.PayoutSchedule,
			StatementDescriptor: req.Settings.StatementDescriptor,
		}
	}

	result, err := h.onboarding.CreateExpressOnboardingLink(r.Context(), svcReq)
	if err != nil {
		writeError(w, "Failed to create express onboarding link", err)
		return
	}
	writeSuccess(w, result)
}

func (h *StripeController) CreateStandardOnboardingLink(w http.ResponseWriter, r *http.Request) {
	var req StandardOnboardingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, "Failed to create standard onboarding link", err)
		return
	}

	result, err := h.onboarding.CreateStandardOnboardingLink(r.Context(), service.StandardOnboardingRequest{
		Email:        req.Email,
		BusinessType: req.BusinessType,
	})
	if err != nil {
		writeError(w, "Failed to create standard onboarding link", err)
		return
	}
	writeSuccess(w, result)
}

func (h *StripeController) CreateExpressDashboardLink(w http.ResponseWriter, r *http.Request) {
	h.createDashboardLink(w, r, account.TypeExpress)
}

func (h *StripeController) CreateStandardDashboardLink(w http.ResponseWriter, r *http.Request) {
	h.createDashboardLink(w, r, account.TypeStandard)
}

func (h *StripeController) createDashboardLink(w http.ResponseWriter, r *http.Request, model account.Type) {
	var req DashboardLinkRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, "Failed to create dashboard link", err)
		return
	}

	link, err := h.onboarding.CreateDashboardLink(r.Context(), model, req.AccountID, req.ReturnURL)
	if err != nil {
		writeError(w, "Failed to create dashboard link", err)
		return
	}
	writeSuccess(w, link)
}

func (h *StripeController) UpdateDashboardSettings(w http.ResponseWriter, r *http.Request) {
	var req DashboardSettingsRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, "Failed to update dashboard settings", err)
		return
	}

	result, err := h.onboarding.UpdateDashboardBranding(r.Context(), req.AccountID, service.Branding{
		AccentColor: req.AccentColor,
		Logo:        req.Logo,
		Icon:        req.Icon,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		writeError(w, "Failed to update dashboard settings", err)
		return
	}
	writeSuccess(w, result)
}

func (h *StripeController) UpdateCapabilities(w http.ResponseWriter, r *http.Request) {
	var req AccountIDRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, "Failed to update account capabilities", err)
		return
	}

	acct, err := h.onboarding.UpdateCapabilities(r.Context(), req.AccountID)
	if err != nil {
		writeError(w, "Failed to update account capabilities", err)
		return
	}
	writeSuccess(w, map[string]any{"account": acct})
}

// --- Accounts ---

func (h *StripeController) ListAccounts(w http.ResponseWriter, r *http.Request) {
	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.ParseInt(raw, 10, 64)
	}

	accounts, err := h.onboarding.ListAccounts(r.Context(), limit)
	if err != nil {
		writeError(w, "Failed to list accounts", err)
		return
	}
	writeSuccess(w, map[string]any{"accounts": accounts, "count": len(accounts)})
}

func (h *StripeController) GetAccount(w http.ResponseWriter, r *http.Request) {
	acct, err := h.onboarding.GetAccount(r.Context(), chi.URLParam(r, "accountId"))
	if err != nil {
		writeError(w, "Failed to retrieve account", err)
		return
	}
	writeSuccess(w, map[string]any{"account": acct})
}

func (h *StripeController) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")
	if err := h.onboarding.DeleteAccount(r.Context(), accountID); err != nil {
		writeError(w, "Failed to delete account", err)
		return
	}
	writeSuccess(w, map[string]any{"accountId": accountID, "deleted": true})
}

func (h *StripeController) GetAccountStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.onboarding.CheckAccountStatus(r.Context(), chi.URLParam(r, "accountId"))
	if err != nil {
		writeError(w, "Failed to check account status", err)
		return
	}
	writeSuccess(w, status)
}

func (h *StripeController) UpdateAccountSettings(w http.ResponseWriter, r *http.Request) {
	acct, err := h.onboarding.UpdateAccountSettings(r.Context(), chi.URLParam(r, "accountId"))
	if err != nil {
		writeError(w, "Failed to update account settings", err)
		return
	}
	writeSuccess(w, map[string]any{"account": acct})
}

func (h *StripeController) CreateAccountSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.onboarding.CreateAccountSession(r.Context(), chi.URLParam(r, "accountId"))
	if err != nil {
		writeError(w, "Failed to create account session", err)
		return
	}
	writeSuccess(w, session)
}

// --- Payments ---

func (h *StripeController) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, "Failed to create payment", err)
		return
	}

	result, err := h.payments.CreatePayment(r.Context(), service.PaymentRequest{
		Amount:        req.Amount,
		Currency:      req.Currency,
		AccountID:     req.AccountID,
		Description:   req.Description,
		FeePercentage: req.FeePercentage,
		Metadata:      req.Metadata,
	})
	if err != nil {
		writeError(w, "Failed to create payment", err)
		return
	}
	writeSuccess(w, result)
}

func (h *StripeController) CreateDirectPayment(w http.ResponseWriter, r *http.Request) {
	var req DirectPaymentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, "Failed to create direct payment", err)
		return
	}

	result, err := h.payments.CreateDirectPayment(r.Context(), service.DirectPaymentRequest{
		Amount:        req.Amount,
		Currency:      req.Currency,
		AccountID:     req.AccountID,
		PaymentMethod: req.PaymentMethod,
		Description:   req.Description,
		FeePercentage: req.FeePercentage,
		Metadata:      req.Metadata,
	})
	if err != nil {
		writeError(w, "Failed to create direct payment", err)
		return
	}
	writeSuccess(w, result)
}

func (h *StripeController) CreateDirectRefund(w http.ResponseWriter, r *http.Request) {
	var req RefundRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, "Failed to create direct refund", err)
		return
	}

	refund, err := h.payments.CreateDirectRefund(r.Context(), service.RefundRequest{
		ChargeID: req.ChargeID,
		Amount:   req.Amount,
		Reason:   req.Reason,
	})
	if err != nil {
		writeError(w, "Failed to create direct refund", err)
		return
	}
	writeSuccess(w, map[string]any{"refund": refund})
}

func (h *StripeController) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req CheckoutSessionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, "Failed to create checkout session", err)
		return
	}

	session, err := h.payments.CreateCheckoutSession(r.Context(), service.CheckoutRequest{
		AccountID: req.AccountID,
		Currency:  req.Currency,
		LineItems: req.LineItems,
		ReturnURL: req.ReturnURL,
		Metadata:  req.Metadata,
	})
	if err != nil {
		writeError(w, "Failed to create checkout session", err)
		return
	}
	writeSuccess(w, session)
}
