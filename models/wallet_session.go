package models

import (
	"time"

	"gorm.io/gorm"
)

// WalletSession remembers the most recently connected wallet address so a
// reloaded page can resume without reconnecting.
type WalletSession struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Address   string         `gorm:"size:56;not null" json:"address"`
	Mocked    bool           `gorm:"default:false" json:"mocked"`
}

// TableName overrides the table name
func (WalletSession) TableName() string {
	return "wallet_sessions"
}
