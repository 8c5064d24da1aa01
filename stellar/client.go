package stellar

import (
	"fmt"

	"github.com/stellar/go/amount"
	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
)

// ClientInterface is the Stellar plumbing used by the checkout handlers:
// address validation and building the unsigned envelope handed to the wallet
// signer. The simulation never submits anything to the network.
type ClientInterface interface {
	ValidateAccount(accountID string) error
	BuildPaymentTx(source txnbuild.Account, destination, assetCode, issuer, amountStr string) (*txnbuild.Transaction, error)
	BuildCheckoutEnvelope(payer, merchant, assetCode, issuer string, amountStroops int64) (string, error)
}

type Client struct {
	client            *horizonclient.Client
	networkPassphrase string
}

func NewClient(horizonURL, networkPassphrase string) *Client {
	return &Client{
		client:            &horizonclient.Client{HorizonURL: horizonURL},
		networkPassphrase: networkPassphrase,
	}
}

// ValidateAccount checks that accountID is a well-formed Stellar account
// address. Validation is offline; the demo must not depend on horizon being
// reachable.
func (s *Client) ValidateAccount(accountID string) error {
	if _, err := keypair.ParseAddress(accountID); err != nil {
		return fmt.Errorf("invalid account address: %w", err)
	}
	return nil
}

// BuildPaymentTx builds an unsigned single-payment transaction from the
// given source account.
func (s *Client) BuildPaymentTx(source txnbuild.Account, destination, assetCode, issuer, amountStr string) (*txnbuild.Transaction, error) {
	var asset txnbuild.Asset
	if assetCode == "XLM" {
		asset = txnbuild.NativeAsset{}
	} else {
		asset = txnbuild.CreditAsset{Code: assetCode, Issuer: issuer}
	}

	tx, err := txnbuild.NewTransaction(
		txnbuild.TransactionParams{
			SourceAccount:        source,
			IncrementSequenceNum: true,
			BaseFee:              txnbuild.MinBaseFee,
			Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewInfiniteTimeout()},
			Operations: []txnbuild.Operation{
				&txnbuild.Payment{
					Destination: destination,
					Amount:      amountStr,
					Asset:       asset,
				},
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}
	return tx, nil
}

// BuildCheckoutEnvelope produces the base64 envelope a payer would sign to
// settle an invoice. The payer's sequence number is fetched from horizon
// when reachable; otherwise a zero-sequence placeholder account is used so
// the demo flow keeps working offline.
func (s *Client) BuildCheckoutEnvelope(payer, merchant, assetCode, issuer string, amountStroops int64) (string, error) {
	var source txnbuild.Account
	if detail, err := s.client.AccountDetail(horizonclient.AccountRequest{AccountID: payer}); err == nil {
		source = &detail
	} else {
		source = &txnbuild.SimpleAccount{AccountID: payer, Sequence: 0}
	}

	tx, err := s.BuildPaymentTx(source, merchant, assetCode, issuer, amount.StringFromInt64(amountStroops))
	if err != nil {
		return "", err
	}

	xdr, err := tx.Base64()
	if err != nil {
		return "", fmt.Errorf("failed to encode transaction to XDR: %w", err)
	}
	return xdr, nil
}

// SignTx signs a base64 transaction envelope with the given secret seed.
// On any failure the original envelope is returned alongside the error.
func SignTx(envelopeXDR, secret, networkPassphrase string) (string, error) {
	kp, err := keypair.ParseFull(secret)
	if err != nil {
		return envelopeXDR, fmt.Errorf("invalid secret seed: %w", err)
	}

	genericTx, err := txnbuild.TransactionFromXDR(envelopeXDR)
	if err != nil {
		return envelopeXDR, fmt.Errorf("invalid transaction envelope: %w", err)
	}
	tx, ok := genericTx.Transaction()
	if !ok {
		return envelopeXDR, fmt.Errorf("envelope is not a simple transaction")
	}

	signed, err := tx.Sign(networkPassphrase, kp)
	if err != nil {
		return envelopeXDR, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return signed.Base64()
}
