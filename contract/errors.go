package contract

import (
	"errors"
	"fmt"
)

// PaymentError represents a payment-specific error surfaced by the checkout
// service.
type PaymentError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Common error codes
const (
	ErrCodeInvalidAmount       = "invalid_amount"
	ErrCodeInsufficientBalance = "insufficient_balance"
	ErrCodeInvoiceNotOpen      = "invoice_not_open"
	ErrCodeInvoiceNotFound     = "invoice_not_found"
	ErrCodeUnauthorized        = "unauthorized"
	ErrCodeWalletUnavailable   = "wallet_unavailable"
	ErrCodeSigningRejected     = "signing_rejected"
)

// NewPaymentError creates a new payment error
func NewPaymentError(code, message string, details map[string]interface{}) *PaymentError {
	return &PaymentError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

func newInsufficientBalance(balance, amount int64) *PaymentError {
	return NewPaymentError(
		ErrCodeInsufficientBalance,
		fmt.Sprintf("insufficient balance: %d < %d", balance, amount),
		map[string]interface{}{"balance": balance, "amount": amount},
	)
}

func newInvoiceNotOpen(status Status) *PaymentError {
	return NewPaymentError(
		ErrCodeInvoiceNotOpen,
		fmt.Sprintf("invoice is not open, status: %s", status),
		map[string]interface{}{"status": string(status)},
	)
}

// ErrCode returns the payment error code carried by err, or "" if err is not
// a PaymentError.
func ErrCode(err error) string {
	var pe *PaymentError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// IsCode reports whether err is a PaymentError with the given code.
func IsCode(err error, code string) bool {
	return ErrCode(err) == code
}
