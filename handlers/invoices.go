package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yourusername/stellar-checkout/contract"
	"github.com/yourusername/stellar-checkout/currency"
	"github.com/yourusername/stellar-checkout/models"
	"github.com/yourusername/stellar-checkout/receipt"
)

type CreateInvoiceRequest struct {
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	Currency   string  `json:"currency" binding:"required"`
	TTLMinutes *int    `json:"ttl_minutes"`
}

type PayInvoiceRequest struct {
	PayerAddress  string `json:"payer_address" binding:"required"`
	AmountStroops int64  `json:"amount_stroops" binding:"required,gt=0"`
}

// CreateInvoice converts the fiat amount to stroops, creates the invoice on
// the simulated contract and caches a denormalized record for listing.
func (h *CheckoutHandler) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	merchantID, merchantAddress, ok := merchantFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	amountStroops := currency.ToMinorUnits(req.Amount, req.Currency)
	inv, err := h.svc.CreateInvoice(c.Request.Context(), contract.CreateInvoiceParams{
		MerchantAddress: merchantAddress,
		AmountMinor:     amountStroops,
		DisplayAmount:   req.Amount,
		DisplayCurrency: req.Currency,
		TTLMinutes:      req.TTLMinutes,
	})
	if err != nil {
		renderPaymentError(c, err)
		return
	}

	// Opportunistic cache write; the contract ledger stays authoritative.
	if err := h.store.SaveInvoice(&models.InvoiceRecord{
		InvoiceID:     inv.ID,
		MerchantID:    merchantID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		AmountStroops: amountStroops,
		Status:        string(inv.Status),
		ExpiresAt:     inv.ExpiresAt,
	}); err != nil {
		h.log.WithError(err).Warn("failed to cache invoice record")
	}

	c.JSON(http.StatusCreated, gin.H{
		"invoice": inv,
		"pay_url": fmt.Sprintf("/pay/%s", inv.ID),
		"symbol":  currency.Symbol(req.Currency),
	})
}

// ListInvoices returns the merchant's cached invoice list, newest first.
// Statuses here are last-known, not authoritative.
func (h *CheckoutHandler) ListInvoices(c *gin.Context) {
	merchantID, _, ok := merchantFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	recs, err := h.store.ListInvoices(merchantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoices"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": recs})
}

// GetInvoice returns the cached record reconciled with the authoritative
// status, so a reloaded pay page resumes with fresh state.
func (h *CheckoutHandler) GetInvoice(c *gin.Context) {
	id := c.Param("id")

	rec, err := h.store.InvoiceByID(id)
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoice"})
		return
	}

	res, err := h.svc.GetInvoiceStatus(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if string(res.Status) != rec.Status {
		rec.Status = string(res.Status)
		rec.PayerAddress = res.PayerAddress
		if uerr := h.store.UpdateInvoiceStatus(id, rec.Status, res.PayerAddress, ""); uerr != nil {
			h.log.WithError(uerr).Warn("failed to reconcile cached invoice")
		}
	}

	c.JSON(http.StatusOK, rec)
}

// GetInvoiceStatus is the authoritative poll endpoint both observers hit.
func (h *CheckoutHandler) GetInvoiceStatus(c *gin.Context) {
	res, err := h.svc.GetInvoiceStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// PayInvoice walks the payer flow: sign via the wallet boundary, then settle
// against the simulated contract.
func (h *CheckoutHandler) PayInvoice(c *gin.Context) {
	id := c.Param("id")
	var req PayInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.stellarClient.ValidateAccount(req.PayerAddress); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid payer account: %v", err)})
		return
	}

	// Build the envelope the wallet would sign. The simulation proceeds even
	// when this fails (for instance an ad-hoc invoice with no cached
	// merchant); the envelope is presentational here.
	payload := ""
	if rec, err := h.store.InvoiceByID(id); err == nil {
		merchant, merr := h.store.MerchantByID(rec.MerchantID)
		if merr == nil {
			xdr, berr := h.stellarClient.BuildCheckoutEnvelope(req.PayerAddress, merchant.WalletAddress, "USDC", h.cfg.USDCIssuer, req.AmountStroops)
			if berr != nil {
				h.log.WithError(berr).Warn("failed to build checkout envelope")
			} else {
				payload = xdr
			}
		}
	}

	sig, err := h.signer.SignAndSubmit(c.Request.Context(), payload)
	if err != nil {
		renderPaymentError(c, err)
		return
	}

	ref, err := h.svc.PayInvoice(c.Request.Context(), id, req.PayerAddress, req.AmountStroops)
	if err != nil {
		renderPaymentError(c, err)
		return
	}

	if uerr := h.store.UpdateInvoiceStatus(id, string(contract.StatusPaid), req.PayerAddress, ref); uerr != nil {
		h.log.WithError(uerr).Warn("failed to reconcile cached invoice after payment")
	}

	c.JSON(http.StatusOK, gin.H{
		"settlement_ref": ref,
		"mocked_signer":  sig.Mocked,
	})
}

// RefundInvoice lets the owning merchant refund a paid invoice.
func (h *CheckoutHandler) RefundInvoice(c *gin.Context) {
	id := c.Param("id")
	_, merchantAddress, ok := merchantFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.svc.RefundInvoice(c.Request.Context(), id, merchantAddress); err != nil {
		renderPaymentError(c, err)
		return
	}

	if uerr := h.store.UpdateInvoiceStatus(id, string(contract.StatusRefunded), "", ""); uerr != nil {
		h.log.WithError(uerr).Warn("failed to reconcile cached invoice after refund")
	}

	c.JSON(http.StatusOK, gin.H{"status": contract.StatusRefunded})
}

// Receipt renders the plain-text receipt for a paid invoice.
func (h *CheckoutHandler) Receipt(c *gin.Context) {
	id := c.Param("id")

	payment, ok := h.svc.GetPayment(c.Request.Context(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice has not been paid"})
		return
	}
	inv, ok := h.svc.GetInvoice(c.Request.Context(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}

	merchantName := inv.MerchantAddress
	if rec, err := h.store.InvoiceByID(id); err == nil {
		if m, merr := h.store.MerchantByID(rec.MerchantID); merr == nil {
			merchantName = m.Name
		}
	}

	text := receipt.Generate(receipt.Data{
		MerchantName:  merchantName,
		Amount:        inv.DisplayAmount,
		Currency:      inv.DisplayCurrency,
		AmountStroops: inv.AmountMinor,
		PayerAddress:  payment.Payer,
		TxHash:        inv.SettlementRef,
		Timestamp:     payment.Timestamp,
	})

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", receipt.Filename(inv.SettlementRef)))
	c.String(http.StatusOK, text)
}

// GetBalance returns (and lazily seeds) a payer's simulated USDC balance.
func (h *CheckoutHandler) GetBalance(c *gin.Context) {
	address := c.Param("address")
	balance, err := h.svc.GetBalance(c.Request.Context(), address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"address":         address,
		"balance_stroops": balance,
		"balance":         currency.ToDisplayString(balance),
	})
}
