package contract

import "time"

// Status of an invoice in the system.
type Status string

const (
	// StatusOpen means the invoice is awaiting payment.
	StatusOpen Status = "open"
	// StatusPaid means the invoice has been paid.
	StatusPaid Status = "paid"
	// StatusRefunded means a paid invoice was refunded by the merchant.
	StatusRefunded Status = "refunded"
	// StatusExpired means the invoice expired without payment.
	StatusExpired Status = "expired"
)

// Terminal reports whether the status can never change again on the ledger.
// Paid invoices can still move to refunded, so only refunded and expired are
// fully terminal; observers each decide which statuses end their polling.
func (s Status) Terminal() bool {
	return s == StatusRefunded || s == StatusExpired
}

// Invoice is a payment request from a merchant. Amount is held in USDC
// stroops (7 implied decimals); the display fields are frozen at creation
// and never recomputed on rate changes.
type Invoice struct {
	ID              string    `json:"id"`
	MerchantAddress string    `json:"merchant_address"`
	AmountMinor     int64     `json:"amount_minor"`
	DisplayAmount   float64   `json:"display_amount"`
	DisplayCurrency string    `json:"display_currency"`
	Status          Status    `json:"status"`
	PayerAddress    string    `json:"payer_address,omitempty"`
	SettlementRef   string    `json:"settlement_ref,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	ExpiresAt       time.Time `json:"expires_at"`

	// autoSettleAt is the simulated chain-confirmation instant; zero once
	// settled, paid manually, or expired.
	autoSettleAt time.Time
}

// Payment records a completed payment for an invoice.
type Payment struct {
	InvoiceID   string    `json:"invoice_id"`
	Payer       string    `json:"payer"`
	AmountMinor int64     `json:"amount_minor"`
	Timestamp   time.Time `json:"timestamp"`
}

// StatusResult is the answer to a status query.
type StatusResult struct {
	Status       Status `json:"status"`
	PayerAddress string `json:"payer_address,omitempty"`
}

// expired reports whether the invoice is past its expiry. Invoices without
// an expiry (lazily created on payment) never expire.
func (inv *Invoice) expired(now time.Time) bool {
	return !inv.ExpiresAt.IsZero() && now.After(inv.ExpiresAt)
}

// settlementDue reports whether the simulated auto-settlement instant has
// passed for a still-open invoice.
func (inv *Invoice) settlementDue(now time.Time) bool {
	return inv.Status == StatusOpen && !inv.autoSettleAt.IsZero() && now.After(inv.autoSettleAt)
}
