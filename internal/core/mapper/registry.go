// Package mapper translates normalized statement records into balanced journal lines.
//
// Handlers are keyed by domain.Discriminator. Every asset class registers its own
// handlers from its file's init function, so adding a class never edits a central table.
package mapper

import (
	"context"
	"sync"

	"github.com/SscSPs/finledger/internal/apperrors"
	"github.com/SscSPs/finledger/internal/core/domain"
	portssvc "github.com/SscSPs/finledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// Handler maps one record. A nil journal, or one without entries, means there is nothing to post.
type Handler func(ctx context.Context, rates portssvc.RateConverter, rec domain.NormalizedRecord) (*domain.MappedJournal, error)

// builtins collects the registration functions of the asset-class files.
var builtins []func(*Registry)

// DefaultTolerance is the largest base-currency difference a mapped journal may carry.
var DefaultTolerance = decimal.New(1, -2)

// Registry dispatches records to the handler registered for their discriminator.
type Registry struct {
	mu        sync.RWMutex
	handlers  map[domain.Discriminator]Handler
	tolerance decimal.Decimal
}

// Option configures a Registry.
type Option func(*Registry)

// WithTolerance sets the balance tolerance applied to mapped journals.
func WithTolerance(tolerance decimal.Decimal) Option {
	return func(r *Registry) {
		r.tolerance = tolerance
	}
}

// NewRegistry returns a registry holding every built-in handler.
func NewRegistry(options ...Option) *Registry {
	r := &Registry{
		handlers:  make(map[domain.Discriminator]Handler),
		tolerance: DefaultTolerance,
	}
	for _, register := range builtins {
		register(r)
	}
	for _, option := range options {
		option(r)
	}
	return r
}

var _ portssvc.LedgerMapper = (*Registry)(nil)

// Register installs h for d, replacing any previous handler.
func (r *Registry) Register(d domain.Discriminator, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[d] = h
}

// Handles reports whether a handler is registered for d.
func (r *Registry) Handles(d domain.Discriminator) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[d]
	return ok
}

// Discriminators lists the registered discriminators in no particular order.
func (r *Registry) Discriminators() []domain.Discriminator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Discriminator, 0, len(r.handlers))
	for d := range r.handlers {
		out = append(out, d)
	}
	return out
}

// MapToJournal maps rec with its registered handler. Unknown discriminators yield nil, nil.
// A mapped journal that does not balance in base currency is rejected here, before it
// reaches the journal engine.
func (r *Registry) MapToJournal(ctx context.Context, rates portssvc.RateConverter, rec domain.NormalizedRecord) (*domain.MappedJournal, error) {
	r.mu.RLock()
	h, ok := r.handlers[rec.Discriminator()]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	mapped, err := h(ctx, rates, rec)
	if err != nil {
		return nil, err
	}
	if mapped == nil || len(mapped.Entries) == 0 {
		return nil, nil
	}
	if mapped.ReferenceType == "" {
		mapped.ReferenceType = rec.Discriminator().String()
	}

	debit, credit := baseTotals(mapped.Entries)
	if err := apperrors.CheckBalanced(debit, credit, r.tolerance); err != nil {
		return nil, err
	}
	return mapped, nil
}

// baseTotals sums entries in base currency. A zero rate counts as 1.
func baseTotals(entries []domain.EntryInput) (debit, credit decimal.Decimal) {
	for _, e := range entries {
		rate := e.ExchangeRate
		if rate.IsZero() {
			rate = decimal.NewFromInt(1)
		}
		debit = debit.Add(e.Debit.Mul(rate))
		credit = credit.Add(e.Credit.Mul(rate))
	}
	return debit, credit
}
