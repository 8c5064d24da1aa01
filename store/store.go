// Package store is the durable client-side cache: merchant profile, the
// connected wallet session, and a denormalized ordered list of invoices with
// their last-known status. Writes are opportunistic; readers must treat the
// contents as eventually consistent and never as authoritative for status.
package store

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yourusername/stellar-checkout/models"
)

type Store struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

func New(db *gorm.DB, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{db: db, log: log.WithField("component", "store")}
}

// SaveMerchant upserts the merchant profile keyed by wallet address.
func (s *Store) SaveMerchant(m *models.Merchant) error {
	var existing models.Merchant
	err := s.db.Where("wallet_address = ?", m.WalletAddress).First(&existing).Error
	if err == nil {
		m.ID = existing.ID
		return s.db.Save(m).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return s.db.Create(m).Error
}

func (s *Store) MerchantByID(id uint) (*models.Merchant, error) {
	var m models.Merchant
	if err := s.db.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) MerchantByAddress(address string) (*models.Merchant, error) {
	var m models.Merchant
	if err := s.db.Where("wallet_address = ?", address).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveInvoice appends a newly created invoice to the cached list.
func (s *Store) SaveInvoice(rec *models.InvoiceRecord) error {
	return s.db.Create(rec).Error
}

// InvoiceByID fetches the cached record for an invoice id.
func (s *Store) InvoiceByID(invoiceID string) (*models.InvoiceRecord, error) {
	var rec models.InvoiceRecord
	if err := s.db.Where("invoice_id = ?", invoiceID).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListInvoices returns the merchant's cached invoices, newest first.
func (s *Store) ListInvoices(merchantID uint) ([]models.InvoiceRecord, error) {
	var recs []models.InvoiceRecord
	if err := s.db.Where("merchant_id = ?", merchantID).Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// UpdateInvoiceStatus reconciles a cached record with an observed status.
// Missing records are not an error: the cache may be stale or empty.
func (s *Store) UpdateInvoiceStatus(invoiceID, status, payerAddress, settlementRef string) error {
	updates := map[string]interface{}{"status": status}
	if payerAddress != "" {
		updates["payer_address"] = payerAddress
	}
	if settlementRef != "" {
		updates["settlement_ref"] = settlementRef
	}
	res := s.db.Model(&models.InvoiceRecord{}).Where("invoice_id = ?", invoiceID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update cached invoice %s: %w", invoiceID, res.Error)
	}
	return nil
}

// SaveWalletSession records the connected address, replacing any previous
// session.
func (s *Store) SaveWalletSession(address string, mocked bool) error {
	if err := s.db.Where("1 = 1").Delete(&models.WalletSession{}).Error; err != nil {
		return err
	}
	return s.db.Create(&models.WalletSession{Address: address, Mocked: mocked}).Error
}

// CurrentWalletSession returns the remembered session, or nil when none.
func (s *Store) CurrentWalletSession() (*models.WalletSession, error) {
	var sess models.WalletSession
	err := s.db.Order("created_at DESC").First(&sess).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}
