package merchant

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Amount is a monetary value as reported by the acquiring gateway. The
// upstream API is loose about number encoding, so anything that is not a
// number or a numeric string decodes to zero rather than failing the whole
// aggregation.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*a = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*a = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*a = 0
			return nil
		}
		*a = Amount(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*a = 0
		return nil
	}
	*a = Amount(f)
	return nil
}

// Profile is the merchant entity as read from the acquiring gateway.
type Profile struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Status string `json:"status,omitempty"`
}

// Transaction is a single processed transaction of a merchant.
type Transaction struct {
	ID        string `json:"id"`
	Amount    Amount `json:"amount"`
	Status    string `json:"status,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Settlement is a funds settlement toward a merchant.
type Settlement struct {
	ID        string `json:"id"`
	Amount    Amount `json:"amount"`
	Status    string `json:"status,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Dispute is a chargeback or inquiry opened against a merchant.
type Dispute struct {
	ID        string `json:"id"`
	Amount    Amount `json:"amount"`
	Status    string `json:"status,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Metrics are the figures derived from one dashboard aggregation. They are
// recomputed on every request and never cached.
type Metrics struct {
	TotalTransactionVolume float64 `json:"total_transaction_volume"`
	PendingSettlements     int     `json:"pending_settlements"`
	OpenDisputes           int     `json:"open_disputes"`
	LastSettlementDate     *string `json:"last_settlement_date"`
}

// RecentActivity holds the detail lists behind the metrics so callers get
// both summary and detail.
type RecentActivity struct {
	Transactions []Transaction `json:"transactions"`
	Settlements  []Settlement  `json:"settlements"`
}

// DashboardSummary is the aggregated view of one merchant.
type DashboardSummary struct {
	Merchant       Profile        `json:"merchant"`
	Metrics        Metrics        `json:"metrics"`
	RecentActivity RecentActivity `json:"recent_activity"`
}

// CreateResult echoes the provider response for a merchant creation.
type CreateResult struct {
	MerchantID string          `json:"merchantId"`
	Data       json.RawMessage `json:"data"`
}

// ListResult echoes the provider response for a merchant listing.
type ListResult struct {
	Merchants json.RawMessage `json:"merchants"`
}

// Address is the structured business address used on the full-validation
// creation path.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country,omitempty"`
}

// Complete reports whether the address carries every required component.
func (a *Address) Complete() bool {
	return a != nil && a.Line1 != "" && a.City != "" && a.State != "" && a.PostalCode != ""
}

// BankAccount is the settlement bank account supplied during onboarding.
type BankAccount struct {
	Type          string `json:"type,omitempty"`
	RoutingNumber string `json:"routing_number"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name,omitempty"`
}

// Documents are the compliance documents supplied during onboarding.
type Documents struct {
	BusinessLicense string `json:"business_license"`
	TaxDocument     string `json:"tax_document"`
}
