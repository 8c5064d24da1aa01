// Package wallet models the browser signing-extension boundary (Freighter).
// The demo must keep working when no extension capability is wired in, so
// every operation degrades to a clearly-labeled mock result instead of
// failing the flow.
package wallet

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stellar/go/keypair"

	"github.com/yourusername/stellar-checkout/contract"
)

// MockAddress is returned by Connect when no extension is available.
const MockAddress = "GBACG2GWKRAP2YRVGJFTAX2IVUFLS74GH5WT7YDWLAOOZI6LWNVYRSIM"

// Signer is the external signing capability.
type Signer interface {
	IsAvailable() bool
	Connect(ctx context.Context) (ConnectResult, error)
	SignAndSubmit(ctx context.Context, payload string) (SubmitResult, error)
}

// ConnectResult is the outcome of a wallet connection attempt. Mocked marks
// results produced by the degraded path.
type ConnectResult struct {
	Address string `json:"address"`
	Mocked  bool   `json:"mocked"`
}

// SubmitResult carries the transaction reference returned by the signer.
type SubmitResult struct {
	Reference string `json:"reference"`
	Mocked    bool   `json:"mocked"`
}

// Extension is the raw capability surface of an installed wallet extension.
type Extension interface {
	GetPublicKey(ctx context.Context) (string, error)
	SignTransaction(ctx context.Context, payload, networkPassphrase string) (string, error)
}

// FreighterSigner wraps an optional Extension. A nil extension means the
// wallet is not installed; connect and sign then return mock results rather
// than errors, matching the demo behavior of the checkout frontend.
type FreighterSigner struct {
	ext        Extension
	passphrase string
	log        logrus.FieldLogger
}

// NewFreighterSigner creates a signer over ext, which may be nil.
func NewFreighterSigner(ext Extension, networkPassphrase string, log logrus.FieldLogger) *FreighterSigner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &FreighterSigner{
		ext:        ext,
		passphrase: networkPassphrase,
		log:        log.WithField("component", "wallet"),
	}
}

// IsAvailable reports whether a real extension capability is wired in.
func (s *FreighterSigner) IsAvailable() bool {
	return s.ext != nil
}

// Connect returns the signer's account address. When the extension is
// missing or misbehaves the mock demo address is returned instead; the
// caller is told via Mocked.
func (s *FreighterSigner) Connect(ctx context.Context) (ConnectResult, error) {
	if err := ctx.Err(); err != nil {
		return ConnectResult{}, err
	}
	if s.ext == nil {
		s.log.Info("wallet extension not detected, using mock address")
		return ConnectResult{Address: MockAddress, Mocked: true}, nil
	}

	addr, err := s.ext.GetPublicKey(ctx)
	if err != nil {
		s.log.WithError(err).Warn("wallet connect failed, falling back to mock address")
		return ConnectResult{Address: MockAddress, Mocked: true}, nil
	}
	if _, perr := keypair.ParseAddress(addr); perr != nil {
		s.log.WithField("address", addr).Warn("wallet returned a malformed address, using mock")
		return ConnectResult{Address: MockAddress, Mocked: true}, nil
	}
	return ConnectResult{Address: addr}, nil
}

// SignAndSubmit hands the payload to the extension for signing and returns
// the resulting reference. With no extension a mock reference is generated.
// An explicit user rejection surfaces as a SigningRejected payment error,
// which is retryable.
func (s *FreighterSigner) SignAndSubmit(ctx context.Context, payload string) (SubmitResult, error) {
	if err := ctx.Err(); err != nil {
		return SubmitResult{}, err
	}
	if s.ext == nil {
		ref := "mock-" + uuid.NewString()
		s.log.WithField("reference", ref).Info("wallet extension not detected, returning mock reference")
		return SubmitResult{Reference: ref, Mocked: true}, nil
	}

	signed, err := s.ext.SignTransaction(ctx, payload, s.passphrase)
	if err != nil {
		return SubmitResult{}, contract.NewPaymentError(
			contract.ErrCodeSigningRejected, "user declined to sign the transaction", nil)
	}
	return SubmitResult{Reference: signed}, nil
}
