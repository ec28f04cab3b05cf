package mapper

import "github.com/SscSPs/finledger/internal/core/domain"

func init() {
	builtins = append(builtins, registerRSU, registerESPP)
}

// holdingAccount is where vested or purchased employer shares are kept.
func (b *builder) holdingAccount() string {
	if b.foreign() {
		return ForeignStocks
	}
	return IndianStocks
}

// RSU vests are perquisite income at fair value. Shares sold to cover tax are
// TaxWithheld and become TDS credit, since the employer deducts it.
func registerRSU(r *Registry) {
	r.on(domain.ClassRSU, domain.ActivityVest, "RSU vest", func(b *builder) {
		if b.rec.TaxWithheld.GreaterThan(b.rec.Amount) {
			b.fail("tax withheld %s exceeds vest value %s", b.rec.TaxWithheld, b.rec.Amount)
			return
		}
		b.drRecord(b.holdingAccount(), b.rec.Amount.Sub(b.rec.TaxWithheld), "Shares vested")
		b.cr(Perquisites, b.toBase(b.rec.Amount), "Perquisite value")
		if b.rec.TaxWithheld.IsPositive() {
			b.plug(TDSReceivable, "Shares withheld for tax")
		}
	})
	r.on(domain.ClassRSU, domain.ActivitySell, "RSU sale", func(b *builder) {
		b.disposeHolding(b.holdingAccount())
	})
}

// ESPP purchases record fair value in Amount and the discounted price paid in CostBasis.
func registerESPP(r *Registry) {
	r.on(domain.ClassESPP, domain.ActivityPurchase, "ESPP purchase", func(b *builder) {
		paid := b.rec.CostBasis
		if paid.IsZero() {
			paid = b.rec.Amount
		}
		if paid.GreaterThan(b.rec.Amount) {
			b.fail("price paid %s exceeds fair value %s", paid, b.rec.Amount)
			return
		}
		b.drRecord(b.holdingAccount(), b.rec.Amount, "Shares purchased at fair value")
		b.cr(SavingsAccount, b.toBase(paid), "Payroll contribution")
		b.plug(Perquisites, "Purchase discount")
	})
	r.on(domain.ClassESPP, domain.ActivitySell, "ESPP sale", func(b *builder) {
		b.disposeHolding(b.holdingAccount())
	})
}
