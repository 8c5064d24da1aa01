package models

import (
	"time"

	"gorm.io/gorm"
)

// InvoiceRecord is the denormalized copy of an invoice kept in the durable
// cache for listing and page resume. It is eventually consistent: the
// simulated contract ledger is the only source of truth for status, and the
// pollers reconcile this record opportunistically.
type InvoiceRecord struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	InvoiceID     string         `gorm:"uniqueIndex;size:64;not null" json:"invoice_id"`
	MerchantID    uint           `gorm:"index;not null" json:"merchant_id"`
	Merchant      Merchant       `gorm:"foreignKey:MerchantID" json:"merchant,omitempty"`
	Amount        float64        `gorm:"not null" json:"amount"`
	Currency      string         `gorm:"size:10;not null" json:"currency"`
	AmountStroops int64          `gorm:"not null" json:"amount_stroops"`
	Status        string         `gorm:"size:20;default:'open'" json:"status"` // open, paid, refunded, expired
	PayerAddress  string         `gorm:"size:56" json:"payer_address,omitempty"`
	SettlementRef string         `gorm:"size:64" json:"settlement_ref,omitempty"`
	ExpiresAt     time.Time      `json:"expires_at"`
}

// TableName overrides the table name
func (InvoiceRecord) TableName() string {
	return "invoice_records"
}
