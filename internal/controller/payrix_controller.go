package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/intelebee/connect/internal/service"
)

// PayrixController exposes the acquiring-gateway merchant operations.
type PayrixController struct {
	merchants *service.MerchantService
}

func NewPayrixController(merchants *service.MerchantService) *PayrixController {
	return &PayrixController{merchants: merchants}
}

func (h *PayrixController) CreateMerchant(w http.ResponseWriter, r *http.Request) {
	var req CreateMerchantRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, "Failed to create merchant", err)
		return
	}

	result, err := h.merchants.CreateMerchant(r.Context(), service.CreateMerchantRequest{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		BusinessType: req.BusinessType,
		TaxID:        req.TaxID,
		Website:      req.Website,
	})
	if err != nil {
		writeError(w, "Failed to create merchant", err)
		return
	}
	writeSuccess(w, result)
}

func (h *PayrixController) ListMerchants(w http.ResponseWriter, r *http.Request) {
	result, err := h.merchants.ListMerchants(r.Context(), r.URL.Query())
	if err != nil {
		writeError(w, "Failed to fetch merchants", err)
		return
	}
	writeSuccess(w, result)
}

func (h *PayrixController) DeleteMerchant(w http.ResponseWriter, r *http.Request) {
	merchantID := chi.URLParam(r, "merchantId")
	data, err := h.merchants.DeleteMerchant(r.Context(), merchantID)
	if err != nil {
		writeError(w, "Failed to delete merchant", err)
		return
	}
	writeSuccess(w, map[string]any{"merchantId": merchantID, "data": data})
}

func (h *PayrixController) UpdateOnboarding(w http.ResponseWriter, r *http.Request) {
	var req MerchantOnboardingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, "Failed to update merchant onboarding", err)
		return
	}

	merchantID := chi.URLParam(r, "merchantId")
	data, err := h.merchants.UpdateOnboarding(r.Context(), merchantID, service.OnboardingUpdateRequest{
		Status:              req.Status,
		BankAccount:         req.BankAccount,
		Documents:           req.Documents,
		VerificationDetails: req.VerificationDetails,
	})
	if err != nil {
		writeError(w, "Failed to update merchant onboarding", err)
		return
	}
	writeSuccess(w, map[string]any{"merchantId": merchantID, "data": data})
}

func (h *PayrixController) GetDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.merchants.GetDashboard(r.Context(), chi.URLParam(r, "merchantId"))
	if err != nil {
		writeError(w, "Failed to get merchant dashboard", err)
		return
	}
	writeSuccess(w, summary)
}
