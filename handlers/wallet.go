package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ConnectWallet asks the signer boundary for an account address. With no
// extension available this returns the mock demo address rather than
// failing; the response says which happened.
func (h *CheckoutHandler) ConnectWallet(c *gin.Context) {
	res, err := h.signer.Connect(c.Request.Context())
	if err != nil {
		renderPaymentError(c, err)
		return
	}

	if err := h.store.SaveWalletSession(res.Address, res.Mocked); err != nil {
		h.log.WithError(err).Warn("failed to persist wallet session")
	}

	c.JSON(http.StatusOK, res)
}

// WalletStatus reports signer availability and any remembered session.
func (h *CheckoutHandler) WalletStatus(c *gin.Context) {
	sess, err := h.store.CurrentWalletSession()
	if err != nil {
		h.log.WithError(err).Warn("failed to read wallet session")
	}
	c.JSON(http.StatusOK, gin.H{
		"available": h.signer.IsAvailable(),
		"session":   sess,
	})
}
