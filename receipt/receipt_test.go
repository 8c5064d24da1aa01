package receipt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	text := Generate(Data{
		MerchantName:  "Coffee Corner",
		Amount:        10.00,
		Currency:      "USD",
		AmountStroops: 100_000_000,
		PayerAddress:  "GPAYER",
		TxHash:        "abc123def456",
		Timestamp:     time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC),
	})

	assert.Contains(t, text, "PAYMENT RECEIPT")
	assert.Contains(t, text, "Merchant: Coffee Corner")
	assert.Contains(t, text, "USD 10.00")
	assert.Contains(t, text, "10.00 USDC")
	assert.Contains(t, text, "Payer: GPAYER")
	assert.Contains(t, text, "TX Hash: abc123def456")
	assert.Contains(t, text, "https://stellar.expert/explorer/testnet/tx/abc123def456")
	assert.Contains(t, text, "Thank you!")
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "receipt-abc123de.txt", Filename("abc123def456"))
	assert.Equal(t, "receipt-ab.txt", Filename("ab"))
}
