// Package watcher implements the observer side of the invoice lifecycle:
// each presentation surface (merchant display, payer page) runs one Watcher
// that polls the authoritative status, reconciles the durable cache, and
// fires a one-time notification on the open-to-paid transition.
package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/stellar-checkout/contract"
)

// DefaultPollInterval is how often an observer polls while the invoice is
// still open.
const DefaultPollInterval = 2 * time.Second

// StatusFunc queries the authoritative invoice status.
type StatusFunc func(ctx context.Context, invoiceID string) (contract.StatusResult, error)

// CacheUpdater is the slice of the durable store a watcher writes to.
// Updates are opportunistic; failures are logged and swallowed.
type CacheUpdater interface {
	UpdateInvoiceStatus(invoiceID, status, payerAddress, settlementRef string) error
}

// Snapshot is the observer-local view of the invoice.
type Snapshot struct {
	InvoiceID    string
	Status       contract.Status
	PayerAddress string
	// Remaining is the countdown to expiry, computed purely from the
	// expiry timestamp and wall clock, independent of polling.
	Remaining time.Duration
	// LocalExpired marks the client-side optimistic expiry: the countdown
	// hit zero while the last polled status was still open. It is a
	// display state only and is never written back to the cache.
	LocalExpired bool
}

// Options configure a Watcher.
type Options struct {
	InvoiceID string
	ExpiresAt time.Time
	Status    StatusFunc
	// Cache is optional; a nil cache disables reconciliation writes.
	Cache CacheUpdater
	// Observer labels the surface in logs ("merchant", "payer").
	Observer string
	// OnChange fires on every observed status change and on local expiry.
	OnChange func(Snapshot)
	// OnPaid fires exactly once, on the open-to-paid transition.
	OnPaid func(Snapshot)

	PollInterval      time.Duration
	CountdownInterval time.Duration
	Log               logrus.FieldLogger
}

// Watcher polls one invoice on behalf of one observer.
type Watcher struct {
	opts Options
	log  logrus.FieldLogger
	now  func() time.Time

	mu           sync.Mutex
	snap         Snapshot
	paidNotified bool
}

// New builds a watcher; call Run to start observing.
func New(opts Options) *Watcher {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.CountdownInterval <= 0 {
		opts.CountdownInterval = time.Second
	}
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Watcher{
		opts: opts,
		log: log.WithFields(logrus.Fields{
			"component":  "watcher",
			"observer":   opts.Observer,
			"invoice_id": opts.InvoiceID,
		}),
		now: time.Now,
		snap: Snapshot{
			InvoiceID: opts.InvoiceID,
			Status:    contract.StatusOpen,
		},
	}
}

// Snapshot returns the current observer-local view.
func (w *Watcher) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snap
}

// Run polls until the invoice reaches a status that ends this observer's
// interest (anything other than open, or local expiry) or the context is
// torn down. It returns ctx.Err() on teardown and nil otherwise. All state
// mutation happens on this goroutine, so teardown cannot race a late write.
func (w *Watcher) Run(ctx context.Context) error {
	poll := time.NewTicker(w.opts.PollInterval)
	defer poll.Stop()
	countdown := time.NewTicker(w.opts.CountdownInterval)
	defer countdown.Stop()

	if w.tickCountdown() {
		return nil
	}
	if done := w.poll(ctx); done {
		return ctx.Err()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-countdown.C:
			if w.tickCountdown() {
				return nil
			}
		case <-poll.C:
			if w.poll(ctx) {
				return ctx.Err()
			}
		}
	}
}

// poll queries the authoritative status and reconciles. Returns true when
// observation is finished.
func (w *Watcher) poll(ctx context.Context) bool {
	w.mu.Lock()
	open := w.snap.Status == contract.StatusOpen && !w.snap.LocalExpired
	w.mu.Unlock()
	if !open {
		return true
	}

	res, err := w.opts.Status(ctx, w.opts.InvoiceID)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		w.log.WithError(err).Warn("status poll failed")
		return false
	}
	return w.observe(res)
}

// observe applies a polled result. Re-observing the same status is a no-op,
// so redundant polls never duplicate notifications or cache writes.
func (w *Watcher) observe(res contract.StatusResult) bool {
	w.mu.Lock()
	if res.Status == w.snap.Status {
		done := res.Status != contract.StatusOpen
		w.mu.Unlock()
		return done
	}

	w.snap.Status = res.Status
	w.snap.PayerAddress = res.PayerAddress
	w.snap.LocalExpired = false
	snap := w.snap
	firePaid := res.Status == contract.StatusPaid && !w.paidNotified
	if firePaid {
		w.paidNotified = true
	}
	w.mu.Unlock()

	w.log.WithField("status", res.Status).Info("invoice status changed")
	if w.opts.Cache != nil {
		if err := w.opts.Cache.UpdateInvoiceStatus(w.opts.InvoiceID, string(res.Status), res.PayerAddress, ""); err != nil {
			w.log.WithError(err).Warn("cache reconciliation failed")
		}
	}
	if w.opts.OnChange != nil {
		w.opts.OnChange(snap)
	}
	if firePaid && w.opts.OnPaid != nil {
		w.opts.OnPaid(snap)
	}

	return res.Status != contract.StatusOpen
}

// tickCountdown recomputes the expiry countdown. When it reaches zero while
// the cached status is still open the invoice is shown as expired locally,
// without waiting for (or writing back to) the authoritative state. Returns
// true when the local expiry ends observation.
func (w *Watcher) tickCountdown() bool {
	if w.opts.ExpiresAt.IsZero() {
		return false
	}

	w.mu.Lock()
	remaining := w.opts.ExpiresAt.Sub(w.now())
	if remaining < 0 {
		remaining = 0
	}
	w.snap.Remaining = remaining

	if remaining > 0 || w.snap.Status != contract.StatusOpen || w.snap.LocalExpired {
		w.mu.Unlock()
		return false
	}
	w.snap.LocalExpired = true
	snap := w.snap
	w.mu.Unlock()

	w.log.Info("countdown reached zero, showing invoice as expired locally")
	if w.opts.OnChange != nil {
		w.opts.OnChange(snap)
	}
	return true
}
