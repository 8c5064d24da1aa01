package contract

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stellar/go/keypair"
)

// Config controls the simulation parameters of the checkout service.
type Config struct {
	// DefaultTTLMinutes applies when CreateInvoiceParams leaves the TTL unset.
	DefaultTTLMinutes int
	// AutoSettleMin/Max bound the randomized simulated confirmation delay.
	AutoSettleMin time.Duration
	AutoSettleMax time.Duration
	// TickInterval is the period of the background settlement ticker.
	TickInterval time.Duration
	// Simulated network latency per operation. Zero disables the sleep.
	CreateDelay  time.Duration
	PayDelay     time.Duration
	BalanceDelay time.Duration
	// SeedBalanceMin/Max bound the lazily initialized balance, in whole USDC.
	SeedBalanceMin int64
	SeedBalanceMax int64
}

// DefaultConfig returns the demo defaults: 10 minute invoices, settlement
// simulated 5-15s after creation, latency in the hundreds of milliseconds.
func DefaultConfig() Config {
	return Config{
		DefaultTTLMinutes: 10,
		AutoSettleMin:     5 * time.Second,
		AutoSettleMax:     15 * time.Second,
		TickInterval:      time.Second,
		CreateDelay:       time.Second,
		PayDelay:          1500 * time.Millisecond,
		BalanceDelay:      500 * time.Millisecond,
		SeedBalanceMin:    200,
		SeedBalanceMax:    1000,
	}
}

// Service is the simulated checkout contract: an in-memory invoice ledger
// and per-address USDC balance registry. It stands in for a Soroban contract
// client; all state lives in the process and is owned exclusively by this
// object. Construct one per process (or per test) with New.
type Service struct {
	mu       sync.Mutex
	invoices map[string]*Invoice
	payments map[string]*Payment
	balances map[string]int64

	cfg Config
	log logrus.FieldLogger
	now func() time.Time
	rng *rand.Rand

	// simPayer is the placeholder payer recorded by auto-settlement.
	simPayer string
}

// New creates a fresh service with its own isolated state.
func New(cfg Config, log logrus.FieldLogger) *Service {
	if cfg.DefaultTTLMinutes == 0 {
		cfg.DefaultTTLMinutes = 10
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.SeedBalanceMax <= cfg.SeedBalanceMin {
		cfg.SeedBalanceMin = 200
		cfg.SeedBalanceMax = 1000
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		invoices: make(map[string]*Invoice),
		payments: make(map[string]*Payment),
		balances: make(map[string]int64),
		cfg:      cfg,
		log:      log.WithField("component", "contract"),
		now:      time.Now,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		simPayer: keypair.MustRandom().Address(),
	}
}

// CreateInvoiceParams carries the inputs for CreateInvoice. TTLMinutes nil
// means the configured default; an explicit 0 produces an invoice that is
// expirable immediately.
type CreateInvoiceParams struct {
	MerchantAddress string
	AmountMinor     int64
	DisplayAmount   float64
	DisplayCurrency string
	TTLMinutes      *int
}

// CreateInvoice allocates a new open invoice and schedules its simulated
// auto-settlement. The returned invoice id is unique for the process
// lifetime.
func (s *Service) CreateInvoice(ctx context.Context, p CreateInvoiceParams) (*Invoice, error) {
	if err := s.sleep(ctx, s.cfg.CreateDelay); err != nil {
		return nil, err
	}
	if p.AmountMinor <= 0 {
		return nil, NewPaymentError(ErrCodeInvalidAmount, "amount must be a positive integer", nil)
	}

	ttl := s.cfg.DefaultTTLMinutes
	if p.TTLMinutes != nil {
		ttl = *p.TTLMinutes
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	inv := &Invoice{
		ID:              uuid.NewString(),
		MerchantAddress: p.MerchantAddress,
		AmountMinor:     p.AmountMinor,
		DisplayAmount:   p.DisplayAmount,
		DisplayCurrency: p.DisplayCurrency,
		Status:          StatusOpen,
		CreatedAt:       now,
		ExpiresAt:       now.Add(time.Duration(ttl) * time.Minute),
		autoSettleAt:    now.Add(s.settleDelayLocked()),
	}
	s.invoices[inv.ID] = inv

	s.log.WithFields(logrus.Fields{
		"invoice_id":     inv.ID,
		"merchant":       inv.MerchantAddress,
		"amount_stroops": inv.AmountMinor,
		"expires_at":     inv.ExpiresAt,
	}).Info("invoice created")

	out := *inv
	return &out, nil
}

func (s *Service) settleDelayLocked() time.Duration {
	if s.cfg.AutoSettleMax <= s.cfg.AutoSettleMin {
		return s.cfg.AutoSettleMin
	}
	return s.cfg.AutoSettleMin + time.Duration(s.rng.Int63n(int64(s.cfg.AutoSettleMax-s.cfg.AutoSettleMin)))
}

// GetInvoiceStatus returns the authoritative status of an invoice, applying
// any due transition (expiry, then simulated settlement) first so that both
// observers see a consistent view no matter which polls first. Unknown ids
// report open rather than an error.
func (s *Service) GetInvoiceStatus(ctx context.Context, id string) (StatusResult, error) {
	if err := ctx.Err(); err != nil {
		return StatusResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[id]
	if !ok {
		return StatusResult{Status: StatusOpen}, nil
	}
	s.advanceLocked(inv, s.now())
	return StatusResult{Status: inv.Status, PayerAddress: inv.PayerAddress}, nil
}

// GetInvoice returns a copy of the full invoice, or false if unknown.
func (s *Service) GetInvoice(ctx context.Context, id string) (*Invoice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[id]
	if !ok {
		return nil, false
	}
	s.advanceLocked(inv, s.now())
	out := *inv
	return &out, true
}

// GetPayment returns the payment record for an invoice, or false if it has
// not been paid.
func (s *Service) GetPayment(ctx context.Context, id string) (*Payment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[id]
	if !ok {
		return nil, false
	}
	out := *p
	return &out, true
}

// PayInvoice debits the payer and marks the invoice paid, returning the
// settlement reference. Preconditions are checked in order: balance first
// (InsufficientBalance), then invoice state (InvoiceNotOpen, carrying the
// current status). A missing invoice is lazily created open with no expiry.
// The whole check-then-debit sequence holds the service lock, so of two
// near-simultaneous attempts exactly one succeeds.
func (s *Service) PayInvoice(ctx context.Context, id, payerAddress string, amountMinor int64) (string, error) {
	if err := s.sleep(ctx, s.cfg.PayDelay); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	balance := s.balanceLocked(payerAddress)
	if balance < amountMinor {
		return "", newInsufficientBalance(balance, amountMinor)
	}

	inv, ok := s.invoices[id]
	if !ok {
		// Demo convenience: paying an unknown invoice materializes it.
		inv = &Invoice{
			ID:          id,
			AmountMinor: amountMinor,
			Status:      StatusOpen,
			CreatedAt:   s.now(),
		}
		s.invoices[id] = inv
	}

	now := s.now()
	s.advanceLocked(inv, now)
	if inv.Status != StatusOpen {
		return "", newInvoiceNotOpen(inv.Status)
	}

	ref := uuid.NewString()
	s.balances[payerAddress] = balance - amountMinor
	inv.Status = StatusPaid
	inv.PayerAddress = payerAddress
	inv.SettlementRef = ref
	inv.autoSettleAt = time.Time{}
	s.payments[id] = &Payment{
		InvoiceID:   id,
		Payer:       payerAddress,
		AmountMinor: amountMinor,
		Timestamp:   now,
	}

	s.log.WithFields(logrus.Fields{
		"invoice_id": id,
		"payer":      payerAddress,
		"ref":        ref,
	}).Info("invoice paid")

	return ref, nil
}

// RefundInvoice moves a paid invoice to refunded. Only the merchant that
// created the invoice may refund it, and only from paid.
func (s *Service) RefundInvoice(ctx context.Context, id, merchantAddress string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[id]
	if !ok {
		return NewPaymentError(ErrCodeInvoiceNotFound, "invoice not found", nil)
	}
	if inv.MerchantAddress != merchantAddress {
		return NewPaymentError(ErrCodeUnauthorized, "merchant does not own this invoice", nil)
	}
	if inv.Status != StatusPaid {
		return newInvoiceNotOpen(inv.Status)
	}

	inv.Status = StatusRefunded
	s.log.WithFields(logrus.Fields{"invoice_id": id, "merchant": merchantAddress}).Info("invoice refunded")
	return nil
}

// GetBalance returns the payer's USDC balance in stroops, lazily seeding an
// unseen address with a randomized amount. Initialization happens once; a
// repeat query returns the cached value.
func (s *Service) GetBalance(ctx context.Context, address string) (int64, error) {
	if err := s.sleep(ctx, s.cfg.BalanceDelay); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balanceLocked(address), nil
}

// SetBalance pins an address to an exact balance, bypassing the randomized
// seeding. Intended for demo fixtures and tests.
func (s *Service) SetBalance(address string, stroops int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[address] = stroops
}

func (s *Service) balanceLocked(address string) int64 {
	if b, ok := s.balances[address]; ok {
		return b
	}
	units := s.cfg.SeedBalanceMin + s.rng.Int63n(s.cfg.SeedBalanceMax-s.cfg.SeedBalanceMin)
	b := units * 10_000_000
	s.balances[address] = b
	s.log.WithFields(logrus.Fields{"address": address, "balance_stroops": b}).Debug("balance initialized")
	return b
}

// advanceLocked applies any due transition to an open invoice. Expiry wins
// over auto-settlement: an invoice past its expiry is never auto-paid.
// Idempotent; invoices that have left open are untouched.
func (s *Service) advanceLocked(inv *Invoice, now time.Time) {
	if inv.Status != StatusOpen {
		return
	}
	if inv.expired(now) {
		inv.Status = StatusExpired
		inv.autoSettleAt = time.Time{}
		s.log.WithField("invoice_id", inv.ID).Info("invoice expired")
		return
	}
	if inv.settlementDue(now) {
		inv.Status = StatusPaid
		inv.PayerAddress = s.simPayer
		inv.SettlementRef = uuid.NewString()
		inv.autoSettleAt = time.Time{}
		s.payments[inv.ID] = &Payment{
			InvoiceID:   inv.ID,
			Payer:       inv.PayerAddress,
			AmountMinor: inv.AmountMinor,
			Timestamp:   now,
		}
		s.log.WithFields(logrus.Fields{
			"invoice_id": inv.ID,
			"ref":        inv.SettlementRef,
		}).Info("invoice auto-settled")
	}
}

// Advance applies due transitions to every invoice. The background ticker
// calls this so settlement progresses even when nobody is polling.
func (s *Service) Advance(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range s.invoices {
		s.advanceLocked(inv, now)
	}
}

// Run drives the settlement ticker until the context is cancelled. Run one
// per service; status queries stay consistent either way since reads apply
// the same transitions.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Advance(s.now())
		}
	}
}

func (s *Service) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
