package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	domainErrors "github.com/intelebee/connect/internal/domain/errors"
	"github.com/intelebee/connect/internal/domain/merchant"
	"github.com/intelebee/connect/internal/gateway/payrix"
	"github.com/intelebee/connect/internal/validation"
)

// MerchantService manages merchant entities at the acquiring gateway and
// aggregates per-merchant dashboards.
type MerchantService struct {
	acquirer AcquirerClient
	logger   zerolog.Logger
}

// NewMerchantService creates a new MerchantService.
func NewMerchantService(acquirer AcquirerClient, logger zerolog.Logger) *MerchantService {
	return &MerchantService{acquirer: acquirer, logger: logger}
}

// CreateMerchantRequest is the input for merchant entity creation. Name and
// email are always required; supplying Phone or Address switches on the
// full-validation path and the structured business payload.
type CreateMerchantRequest struct {
	Name         string
	Email        string
	Phone        string
	Address      *merchant.Address
	BusinessType string
	TaxID        string
	Website      string
}

func (r *CreateMerchantRequest) fullValidation() bool {
	return r.Phone != "" || r.Address != nil
}

// CreateMerchant creates a merchant entity at the acquiring gateway. The
// basic path forwards name and email; the full path additionally validates
// phone and address and sends the structured business payload.
func (s *MerchantService) CreateMerchant(ctx context.Context, req CreateMerchantRequest) (*merchant.CreateResult, error) {
	var violations []string
	if req.Name == "" {
		violations = append(violations, "Business name is required")
	}
	if !validation.IsValidEmail(req.Email) {
		violations = append(violations, "Valid email is required")
	}
	if req.fullValidation() {
		if !validation.IsValidPhone(req.Phone) {
			violations = append(violations, "Valid phone number is required")
		}
		if !req.Address.Complete() {
			violations = append(violations, "Complete address is required")
		}
	}
	if len(violations) > 0 {
		return nil, &domainErrors.ValidationErrors{Violations: violations}
	}

	body := s.creationPayload(req)
	resp, err := s.acquirer.Do(ctx, http.MethodPost, "/entities", nil, body)
	if err != nil {
		return nil, err
	}

	var entity struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(resp.Data, &entity)

	s.logger.Info().Str("merchant_id", entity.ID).Str("name", req.Name).Msg("merchant created")

	return &merchant.CreateResult{MerchantID: entity.ID, Data: resp.Data}, nil
}

func (s *MerchantService) creationPayload(req CreateMerchantRequest) map[string]any {
	if !req.fullValidation() {
		return map[string]any{
			"type": "merchant",
			"data": map[string]any{
				"name":   req.Name,
				"email":  req.Email,
				"status": "pending",
				"metadata": map[string]any{
					"created_at": time.Now().UTC().Format(time.RFC3339),
					"platform":   "intelebee",
				},
			},
		}
	}

	country := req.Address.Country
	if country == "" {
		country = "US"
	}
	return map[string]any{
		"type": "merchant",
		"data": map[string]any{
			"name":  req.Name,
			"email": req.Email,
			"phone": req.Phone,
			"address": map[string]any{
				"line1":   req.Address.Line1,
				"line2":   req.Address.Line2,
				"city":    req.Address.City,
				"state":   req.Address.State,
				"postal":  req.Address.PostalCode,
				"country": country,
			},
			"business": map[string]any{
				"type":    req.BusinessType,
				"tax_id":  req.TaxID,
				"website": req.Website,
			},
			"status": "pending",
			"metadata": map[string]any{
				"created_at": time.Now().UTC().Format(time.RFC3339),
				"platform":   "intelebee",
			},
		},
	}
}

// ListMerchants lists merchant entities. Query params pass through to the
// gateway unchanged.
func (s *MerchantService) ListMerchants(ctx context.Context, query url.Values) (*merchant.ListResult, error) {
	resp, err := s.acquirer.Do(ctx, http.MethodGet, "/entities", query, nil)
	if err != nil {
		return nil, err
	}
	return &merchant.ListResult{Merchants: resp.Data}, nil
}

// DeleteMerchant removes a merchant entity.
func (s *MerchantService) DeleteMerchant(ctx context.Context, merchantID string) (json.RawMessage, error) {
	if merchantID == "" {
		return nil, domainErrors.ErrMerchantIDRequired
	}
	resp, err := s.acquirer.Do(ctx, http.MethodDelete, "/entities/"+merchantID, nil, nil)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("merchant_id", merchantID).Msg("merchant deleted")
	return resp.Data, nil
}

// OnboardingUpdateRequest carries the onboarding progress of a merchant:
// new status plus optional bank account and compliance documents.
type OnboardingUpdateRequest struct {
	Status              string
	BankAccount         *merchant.BankAccount
	Documents           *merchant.Documents
	VerificationDetails map[string]any
}

// UpdateOnboarding advances a merchant through acquiring-gateway
// onboarding. Partially-supplied bank accounts or document sets are
// rejected before any call is made.
func (s *MerchantService) UpdateOnboarding(ctx context.Context, merchantID string, req OnboardingUpdateRequest) (json.RawMessage, error) {
	if merchantID == "" {
		return nil, domainErrors.ErrMerchantIDRequired
	}

	var violations []string
	if req.BankAccount != nil && (req.BankAccount.RoutingNumber == "" || req.BankAccount.AccountNumber == "") {
		violations = append(violations, "Complete bank account information is required")
	}
	if req.Documents != nil && (req.Documents.BusinessLicense == "" || req.Documents.TaxDocument == "") {
		violations = append(violations, "Required documents are missing")
	}
	if len(violations) > 0 {
		return nil, &domainErrors.ValidationErrors{Violations: violations}
	}

	status := req.Status
	if status == "" {
		status = "pending_review"
	}

	verification := map[string]any{"details": req.VerificationDetails}
	if req.Documents != nil {
		verification["documents"] = req.Documents
	}
	if req.BankAccount != nil {
		accountType := req.BankAccount.Type
		if accountType == "" {
			accountType = "checking"
		}
		verification["bank_account"] = map[string]any{
			"type":           accountType,
			"routing_number": req.BankAccount.RoutingNumber,
			"account_number": req.BankAccount.AccountNumber,
			"bank_name":      req.BankAccount.BankName,
		}
	}

	body := map[string]any{
		"type": "merchant",
		"data": map[string]any{
			"status":       status,
			"verification": verification,
			"metadata": map[string]any{
				"updated_at":      time.Now().UTC().Format(time.RFC3339),
				"onboarding_step": status,
			},
		},
	}

	resp, err := s.acquirer.Do(ctx, http.MethodPut, "/merchants/"+merchantID, nil, body)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("merchant_id", merchantID).Str("status", status).Msg("merchant onboarding updated")
	return resp.Data, nil
}

// GetDashboard aggregates the merchant profile, recent transactions,
// settlements and open disputes into one summary. The four reads fan out
// in parallel and the first failure cancels the rest.
func (s *MerchantService) GetDashboard(ctx context.Context, merchantID string) (*merchant.DashboardSummary, error) {
	if merchantID == "" {
		return nil, domainErrors.ErrMerchantIDRequired
	}

	var (
		profileResp  *payrix.Response
		transactions []merchant.Transaction
		settlements  []merchant.Settlement
		disputes     []merchant.Dispute
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := s.acquirer.Do(gctx, http.MethodGet, "/merchants/"+merchantID, nil, nil)
		if err != nil {
			return err
		}
		profileResp = resp
		return nil
	})
	g.Go(func() error {
		resp, err := s.acquirer.Do(gctx, http.MethodGet, "/txns", url.Values{
			"merchant": {merchantID},
			"limit":    {"10"},
		}, nil)
		if err != nil {
			return err
		}
		transactions = payrix.DecodeList[merchant.Transaction](resp)
		return nil
	})
	g.Go(func() error {
		resp, err := s.acquirer.Do(gctx, http.MethodGet, "/settlements", url.Values{
			"merchant": {merchantID},
			"limit":    {"5"},
		}, nil)
		if err != nil {
			return err
		}
		settlements = payrix.DecodeList[merchant.Settlement](resp)
		return nil
	})
	g.Go(func() error {
		resp, err := s.acquirer.Do(gctx, http.MethodGet, "/disputes", url.Values{
			"merchant": {merchantID},
			"status":   {"open"},
		}, nil)
		if err != nil {
			return err
		}
		disputes = payrix.DecodeList[merchant.Dispute](resp)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var profile merchant.Profile
	if profileResp == nil || len(profileResp.Data) == 0 ||
		json.Unmarshal(profileResp.Data, &profile) != nil || profile.ID == "" {
		return nil, domainErrors.ErrMerchantNotFound
	}

	var totalVolume float64
	for _, tx := range transactions {
		totalVolume += float64(tx.Amount)
	}
	pending := 0
	for _, st := range settlements {
		if st.Status == "pending" {
			pending++
		}
	}
	var lastSettlement *string
	if len(settlements) > 0 && settlements[0].CreatedAt != "" {
		lastSettlement = &settlements[0].CreatedAt
	}

	return &merchant.DashboardSummary{
		Merchant: profile,
		Metrics: merchant.Metrics{
			TotalTransactionVolume: totalVolume,
			PendingSettlements:     pending,
			OpenDisputes:           len(disputes),
			LastSettlementDate:     lastSettlement,
		},
		RecentActivity: merchant.RecentActivity{
			Transactions: transactions,
			Settlements:  settlements,
		},
	}, nil
}
