// Package receipt renders the plain-text payment receipt offered for
// download after a successful payment.
package receipt

import (
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/stellar-checkout/currency"
)

const divider = "═══════════════════════════════"

// Data holds everything a receipt shows.
type Data struct {
	MerchantName  string
	Amount        float64
	Currency      string
	AmountStroops int64
	PayerAddress  string
	TxHash        string
	Timestamp     time.Time
}

// Generate renders the receipt text.
func Generate(d Data) string {
	var b strings.Builder
	b.WriteString(divider + "\n")
	b.WriteString("    PAYMENT RECEIPT\n")
	b.WriteString(divider + "\n\n")
	fmt.Fprintf(&b, "Merchant: %s\n", d.MerchantName)
	fmt.Fprintf(&b, "Date: %s\n\n", d.Timestamp.Format("1/2/2006, 3:04:05 PM"))
	b.WriteString("AMOUNT PAID\n")
	fmt.Fprintf(&b, "%s %.2f\n", d.Currency, d.Amount)
	fmt.Fprintf(&b, "%s USDC\n\n", currency.ToDisplayString(d.AmountStroops))
	b.WriteString("TRANSACTION DETAILS\n")
	fmt.Fprintf(&b, "Payer: %s\n", d.PayerAddress)
	fmt.Fprintf(&b, "TX Hash: %s\n\n", d.TxHash)
	b.WriteString("Network: Stellar Testnet\n")
	b.WriteString("View on Explorer:\n")
	fmt.Fprintf(&b, "https://stellar.expert/explorer/testnet/tx/%s\n\n", d.TxHash)
	b.WriteString(divider + "\n")
	b.WriteString("    Thank you!\n")
	b.WriteString(divider + "\n")
	return b.String()
}

// Filename suggests a download name for the receipt.
func Filename(txHash string) string {
	short := txHash
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("receipt-%s.txt", short)
}
