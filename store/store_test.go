package store

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yourusername/stellar-checkout/models"
)

func setupTestStore(t *testing.T) *Store {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Merchant{}, &models.InvoiceRecord{}, &models.WalletSession{}))
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return New(db, log)
}

func TestMerchantRoundTrip(t *testing.T) {
	s := setupTestStore(t)

	m := &models.Merchant{Name: "Coffee Corner", WalletAddress: "GMERCHANT", DefaultCurrency: "EUR"}
	require.NoError(t, s.SaveMerchant(m))
	require.NotZero(t, m.ID)

	got, err := s.MerchantByAddress("GMERCHANT")
	require.NoError(t, err)
	assert.Equal(t, "Coffee Corner", got.Name)

	// Saving again with the same address updates in place.
	m2 := &models.Merchant{Name: "Coffee Corner 2", WalletAddress: "GMERCHANT"}
	require.NoError(t, s.SaveMerchant(m2))
	assert.Equal(t, m.ID, m2.ID)

	got, err = s.MerchantByID(m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Coffee Corner 2", got.Name)
}

func TestInvoiceCache(t *testing.T) {
	s := setupTestStore(t)

	for i, id := range []string{"inv-1", "inv-2", "inv-3"} {
		require.NoError(t, s.SaveInvoice(&models.InvoiceRecord{
			InvoiceID:     id,
			MerchantID:    1,
			Amount:        10,
			Currency:      "USD",
			AmountStroops: 100_000_000,
			Status:        "open",
			ExpiresAt:     time.Now().Add(10 * time.Minute),
			CreatedAt:     time.Now().Add(time.Duration(i) * time.Second),
		}))
	}

	t.Run("list is newest first", func(t *testing.T) {
		recs, err := s.ListInvoices(1)
		require.NoError(t, err)
		require.Len(t, recs, 3)
		assert.Equal(t, "inv-3", recs[0].InvoiceID)
	})

	t.Run("status reconciliation", func(t *testing.T) {
		require.NoError(t, s.UpdateInvoiceStatus("inv-2", "paid", "GPAYER", "ref-1"))
		rec, err := s.InvoiceByID("inv-2")
		require.NoError(t, err)
		assert.Equal(t, "paid", rec.Status)
		assert.Equal(t, "GPAYER", rec.PayerAddress)
		assert.Equal(t, "ref-1", rec.SettlementRef)
	})

	t.Run("updating an unknown invoice is not an error", func(t *testing.T) {
		assert.NoError(t, s.UpdateInvoiceStatus("unknown", "paid", "", ""))
	})
}

func TestWalletSession(t *testing.T) {
	s := setupTestStore(t)

	sess, err := s.CurrentWalletSession()
	require.NoError(t, err)
	assert.Nil(t, sess)

	require.NoError(t, s.SaveWalletSession("GFIRST", false))
	require.NoError(t, s.SaveWalletSession("GSECOND", true))

	sess, err = s.CurrentWalletSession()
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "GSECOND", sess.Address)
	assert.True(t, sess.Mocked)
}
