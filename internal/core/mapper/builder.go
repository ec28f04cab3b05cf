package mapper

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/finledger/internal/apperrors"
	"github.com/SscSPs/finledger/internal/core/domain"
	portssvc "github.com/SscSPs/finledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// builder accumulates journal lines for one record and keeps running base-currency totals.
// The first error sticks; later calls become no-ops and journal returns it.
type builder struct {
	ctx      context.Context
	rates    portssvc.RateConverter
	rec      domain.NormalizedRecord
	base     string
	currency string
	rate     decimal.Decimal // record currency -> base, resolved lazily

	entries []domain.EntryInput
	debit   decimal.Decimal
	credit  decimal.Decimal
	err     error
}

func newBuilder(ctx context.Context, rates portssvc.RateConverter, rec domain.NormalizedRecord) *builder {
	base := strings.ToUpper(rates.BaseCurrency())
	currency := strings.ToUpper(strings.TrimSpace(rec.CurrencyCode))
	if currency == "" {
		currency = base
	}
	return &builder{ctx: ctx, rates: rates, rec: rec, base: base, currency: currency}
}

// foreign reports whether the record is denominated in a non-base currency.
func (b *builder) foreign() bool {
	return b.currency != b.base
}

func (b *builder) fail(format string, args ...any) {
	if b.err == nil {
		b.err = fmt.Errorf("%w: %s: %s", apperrors.ErrValidation, b.rec.Discriminator(), fmt.Sprintf(format, args...))
	}
}

// recordRate returns the record currency's rate to base on the record date.
func (b *builder) recordRate() decimal.Decimal {
	if b.err != nil {
		return decimal.Zero
	}
	if !b.foreign() {
		return decimal.NewFromInt(1)
	}
	if b.rate.IsZero() {
		rate, err := b.rates.GetRate(b.ctx, b.currency, b.rec.Date, b.base)
		if err != nil {
			b.err = err
			return decimal.Zero
		}
		b.rate = rate
	}
	return b.rate
}

// toBase converts an amount in the record currency into base currency.
func (b *builder) toBase(amount decimal.Decimal) decimal.Decimal {
	if b.err != nil || amount.IsZero() || !b.foreign() {
		return amount
	}
	converted, err := b.rates.Convert(b.ctx, amount, b.rec.Date, b.currency, b.base)
	if err != nil {
		b.err = err
		return decimal.Zero
	}
	return converted
}

func (b *builder) add(code string, debit bool, currency string, amount, rate decimal.Decimal, narration string) {
	if b.err != nil || amount.IsZero() {
		return
	}
	if amount.IsNegative() {
		b.fail("negative amount %s for account %s", amount, code)
		return
	}
	entry := domain.EntryInput{
		AccountCode:  code,
		CurrencyCode: currency,
		ExchangeRate: rate,
		Narration:    narration,
	}
	if debit {
		entry.Debit = amount
		b.debit = b.debit.Add(amount.Mul(rate))
	} else {
		entry.Credit = amount
		b.credit = b.credit.Add(amount.Mul(rate))
	}
	b.entries = append(b.entries, entry)
}

// dr and cr post base-currency amounts.
func (b *builder) dr(code string, amount decimal.Decimal, narration string) {
	b.add(code, true, b.base, amount, decimal.NewFromInt(1), narration)
}

func (b *builder) cr(code string, amount decimal.Decimal, narration string) {
	b.add(code, false, b.base, amount, decimal.NewFromInt(1), narration)
}

// drRecord and crRecord post amounts in the record currency at the record date's rate.
func (b *builder) drRecord(code string, amount decimal.Decimal, narration string) {
	rate := b.recordRate()
	b.add(code, true, b.currency, amount, rate, narration)
}

func (b *builder) crRecord(code string, amount decimal.Decimal, narration string) {
	rate := b.recordRate()
	b.add(code, false, b.currency, amount, rate, narration)
}

// plug posts the base-currency difference between both sides to code, rounded to
// the base currency's minor unit. Nothing is posted when the sides already agree.
func (b *builder) plug(code, narration string) {
	if b.err != nil {
		return
	}
	diff := b.debit.Sub(b.credit).Round(domain.MinorUnits(b.base))
	switch {
	case diff.IsPositive():
		b.cr(code, diff, narration)
	case diff.IsNegative():
		b.dr(code, diff.Neg(), narration)
	}
}

func (b *builder) journal(defaultDescription string) (*domain.MappedJournal, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.entries) == 0 {
		return nil, nil
	}
	return &domain.MappedJournal{
		Description: b.description(defaultDescription),
		Entries:     b.entries,
	}, nil
}

func (b *builder) description(fallback string) string {
	if d := strings.TrimSpace(b.rec.Description); d != "" {
		return d
	}
	parts := []string{fallback}
	if inst := strings.TrimSpace(b.rec.Instrument); inst != "" {
		parts = append(parts, inst)
	}
	if ref := strings.TrimSpace(b.rec.AccountRef); ref != "" {
		parts = append(parts, "("+domain.MaskValue(ref)+")")
	}
	return strings.Join(parts, " ")
}

// posting adapts a builder function into a Handler. Records with a zero amount post nothing.
func posting(description string, fn func(b *builder)) Handler {
	return func(ctx context.Context, rates portssvc.RateConverter, rec domain.NormalizedRecord) (*domain.MappedJournal, error) {
		if rec.Amount.IsZero() {
			return nil, nil
		}
		b := newBuilder(ctx, rates, rec)
		fn(b)
		return b.journal(description)
	}
}

// on registers a builder function for one class and activity.
func (r *Registry) on(class domain.AssetClass, activity domain.Activity, description string, fn func(b *builder)) {
	r.Register(domain.Discriminator{AssetClass: class, Activity: activity}, posting(description, fn))
}
