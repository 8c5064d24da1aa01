package wallet

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stellar/go/keypair"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/stellar-checkout/contract"
)

type mockExtension struct {
	GetPublicKeyFunc    func(ctx context.Context) (string, error)
	SignTransactionFunc func(ctx context.Context, payload, passphrase string) (string, error)
}

func (m *mockExtension) GetPublicKey(ctx context.Context) (string, error) {
	return m.GetPublicKeyFunc(ctx)
}

func (m *mockExtension) SignTransaction(ctx context.Context, payload, passphrase string) (string, error) {
	return m.SignTransactionFunc(ctx, payload, passphrase)
}

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestConnect(t *testing.T) {
	ctx := context.Background()

	t.Run("no extension degrades to mock address", func(t *testing.T) {
		s := NewFreighterSigner(nil, "passphrase", quietLog())
		assert.False(t, s.IsAvailable())

		res, err := s.Connect(ctx)
		require.NoError(t, err)
		assert.Equal(t, MockAddress, res.Address)
		assert.True(t, res.Mocked)
	})

	t.Run("extension address is used when valid", func(t *testing.T) {
		kp, _ := keypair.Random()
		ext := &mockExtension{
			GetPublicKeyFunc: func(ctx context.Context) (string, error) { return kp.Address(), nil },
		}
		s := NewFreighterSigner(ext, "passphrase", quietLog())
		assert.True(t, s.IsAvailable())

		res, err := s.Connect(ctx)
		require.NoError(t, err)
		assert.Equal(t, kp.Address(), res.Address)
		assert.False(t, res.Mocked)
	})

	t.Run("extension failure falls back to mock", func(t *testing.T) {
		ext := &mockExtension{
			GetPublicKeyFunc: func(ctx context.Context) (string, error) { return "", errors.New("boom") },
		}
		s := NewFreighterSigner(ext, "passphrase", quietLog())

		res, err := s.Connect(ctx)
		require.NoError(t, err)
		assert.Equal(t, MockAddress, res.Address)
		assert.True(t, res.Mocked)
	})

	t.Run("malformed address falls back to mock", func(t *testing.T) {
		ext := &mockExtension{
			GetPublicKeyFunc: func(ctx context.Context) (string, error) { return "not-a-stellar-address", nil },
		}
		s := NewFreighterSigner(ext, "passphrase", quietLog())

		res, err := s.Connect(ctx)
		require.NoError(t, err)
		assert.Equal(t, MockAddress, res.Address)
		assert.True(t, res.Mocked)
	})
}

func TestSignAndSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("no extension returns labeled mock reference", func(t *testing.T) {
		s := NewFreighterSigner(nil, "passphrase", quietLog())
		res, err := s.SignAndSubmit(ctx, "AAAA...")
		require.NoError(t, err)
		assert.True(t, res.Mocked)
		assert.True(t, strings.HasPrefix(res.Reference, "mock-"))
	})

	t.Run("rejection surfaces as signing_rejected", func(t *testing.T) {
		ext := &mockExtension{
			SignTransactionFunc: func(ctx context.Context, payload, passphrase string) (string, error) {
				return "", errors.New("user declined")
			},
		}
		s := NewFreighterSigner(ext, "passphrase", quietLog())

		_, err := s.SignAndSubmit(ctx, "AAAA...")
		assert.True(t, contract.IsCode(err, contract.ErrCodeSigningRejected))
	})

	t.Run("signed payload is passed through", func(t *testing.T) {
		ext := &mockExtension{
			SignTransactionFunc: func(ctx context.Context, payload, passphrase string) (string, error) {
				assert.Equal(t, "passphrase", passphrase)
				return payload + "-signed", nil
			},
		}
		s := NewFreighterSigner(ext, "passphrase", quietLog())

		res, err := s.SignAndSubmit(ctx, "AAAA")
		require.NoError(t, err)
		assert.Equal(t, "AAAA-signed", res.Reference)
		assert.False(t, res.Mocked)
	})
}
