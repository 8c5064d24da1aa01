package models

import (
	"time"

	"gorm.io/gorm"
)

// Merchant is the onboarded merchant profile held in the durable cache.
type Merchant struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	Name            string         `gorm:"size:255;not null" json:"name"`
	WalletAddress   string         `gorm:"uniqueIndex;size:56;not null" json:"wallet_address"`
	LogoURL         string         `gorm:"size:500" json:"logo_url,omitempty"`
	DefaultCurrency string         `gorm:"size:10;default:'USD'" json:"default_currency"`
}

// TableName overrides the table name
func (Merchant) TableName() string {
	return "merchants"
}
