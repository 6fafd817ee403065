package payment

import (
	"math"
	"time"
)

const (
	// DefaultFeePercentage is the platform fee taken when the caller does
	// not override it.
	DefaultFeePercentage = 5.0

	// MinimumFee is the platform fee floor in minor currency units. The
	// platform is never paid less than this regardless of percentage or
	// rounding.
	MinimumFee = 50

	// StatementDescriptorLimit and SuffixLimit are the provider's hard
	// length caps on card statement text.
	StatementDescriptorLimit = 22
	SuffixLimit              = 12
)

// SupportedCurrencies is the fixed allow-list of minor-unit currencies.
var SupportedCurrencies = []string{"usd", "eur", "gbp", "aud"}

// ComputePlatformFee returns max(round(amount*pct/100), MinimumFee).
func ComputePlatformFee(amount int64, feePercentage float64) int64 {
	fee := int64(math.Round(float64(amount) * feePercentage / 100))
	if fee < MinimumFee {
		return MinimumFee
	}
	return fee
}

// TruncateSuffix caps a statement descriptor suffix at the provider limit.
// The cut is on rune boundaries so a multi-byte display name never yields
// a broken suffix.
func TruncateSuffix(s string) string {
	runes := []rune(s)
	if len(runes) > SuffixLimit {
		return string(runes[:SuffixLimit])
	}
	return s
}

// Intent is a provider payment intent, mapped down to the fields the
// platform reads back.
type Intent struct {
	ID           string `json:"paymentIntentId"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

// Result is the outcome of a funds-movement attempt: the created intent plus
// the computed platform fee and the destination it was routed to. Status
// values are provider-defined and passed through unchanged.
type Result struct {
	Intent             Intent `json:"paymentIntent"`
	ClientSecret       string `json:"clientSecret"`
	PaymentIntentID    string `json:"paymentIntentId"`
	Amount             int64  `json:"amount"`
	Currency           string `json:"currency"`
	PlatformFee        int64  `json:"platformFee"`
	DestinationAccount string `json:"destinationAccount"`
	Status             string `json:"status"`
}

// Refund is the outcome of a refund attempt against an existing charge.
type Refund struct {
	ID        string    `json:"refundId"`
	ChargeID  string    `json:"chargeId"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

// LineItem is one entry of a hosted checkout cart.
type LineItem struct {
	Name       string `json:"name"`
	UnitAmount int64  `json:"unit_amount"`
	Quantity   int64  `json:"quantity"`
}

// Total returns the cart total in minor units. A missing quantity counts
// as one.
func Total(items []LineItem) int64 {
	var sum int64
	for _, item := range items {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		sum += item.UnitAmount * qty
	}
	return sum
}

// CheckoutSession is a hosted checkout session scoped to a connected
// account.
type CheckoutSession struct {
	SessionID    string `json:"sessionId"`
	ClientSecret string `json:"clientSecret"`
	URL          string `json:"url,omitempty"`
	ExpiresAt    int64  `json:"expiresAt"`
	TotalAmount  int64  `json:"totalAmount"`
	PlatformFee  int64  `json:"platformFee"`
}
