package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/stellar-checkout/config"
	"github.com/yourusername/stellar-checkout/contract"
	"github.com/yourusername/stellar-checkout/stellar"
	"github.com/yourusername/stellar-checkout/store"
	"github.com/yourusername/stellar-checkout/wallet"
)

// CheckoutHandler serves the invoice lifecycle API. The contract service is
// the source of truth; the store is the opportunistic durable cache.
type CheckoutHandler struct {
	svc           *contract.Service
	store         *store.Store
	signer        wallet.Signer
	stellarClient stellar.ClientInterface
	cfg           *config.Config
	log           logrus.FieldLogger
}

func NewCheckoutHandler(svc *contract.Service, st *store.Store, signer wallet.Signer, sc stellar.ClientInterface, cfg *config.Config, log logrus.FieldLogger) *CheckoutHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CheckoutHandler{
		svc:           svc,
		store:         st,
		signer:        signer,
		stellarClient: sc,
		cfg:           cfg,
		log:           log.WithField("component", "handlers"),
	}
}

// httpStatusFor maps payment error codes to HTTP statuses.
func httpStatusFor(err error) int {
	switch contract.ErrCode(err) {
	case contract.ErrCodeInsufficientBalance:
		return http.StatusPaymentRequired
	case contract.ErrCodeInvoiceNotOpen:
		return http.StatusConflict
	case contract.ErrCodeInvoiceNotFound:
		return http.StatusNotFound
	case contract.ErrCodeUnauthorized:
		return http.StatusForbidden
	case contract.ErrCodeInvalidAmount, contract.ErrCodeSigningRejected:
		return http.StatusBadRequest
	case contract.ErrCodeWalletUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// renderPaymentError writes a payment error with its code and details.
func renderPaymentError(c *gin.Context, err error) {
	if pe, ok := err.(*contract.PaymentError); ok {
		c.JSON(httpStatusFor(err), gin.H{"error": pe.Message, "code": pe.Code, "details": pe.Details})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// merchantFromContext reads the identity set by the JWT middleware.
func merchantFromContext(c *gin.Context) (uint, string, bool) {
	id, ok := c.Get("merchantID")
	if !ok {
		return 0, "", false
	}
	addr, _ := c.Get("merchantAddress")
	mid, ok := id.(uint)
	if !ok {
		return 0, "", false
	}
	address, _ := addr.(string)
	return mid, address, true
}
