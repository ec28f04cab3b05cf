package mapper

import "github.com/SscSPs/finledger/internal/core/domain"

func init() {
	builtins = append(builtins, registerStock, registerForeignStock)
}

func registerStock(r *Registry) {
	r.on(domain.ClassStock, domain.ActivityBuy, "Stock purchase", func(b *builder) {
		b.acquire(IndianStocks, SavingsAccount)
	})
	r.on(domain.ClassStock, domain.ActivitySell, "Stock sale", func(b *builder) {
		b.dispose(IndianStocks, SavingsAccount)
	})
	r.on(domain.ClassStock, domain.ActivityDividend, "Stock dividend", func(b *builder) {
		b.income(SavingsAccount, Dividends)
	})
}

// Foreign holdings and broker cash are kept in the record currency; income and
// gains are recognised in base currency.
func registerForeignStock(r *Registry) {
	r.on(domain.ClassForeignStock, domain.ActivityRemittance, "Remittance to foreign broker", func(b *builder) {
		b.drRecord(ForeignCash, b.rec.Amount, "Funds received")
		b.dr(Brokerage, b.toBase(b.rec.Fees), "Remittance charges")
		b.plug(SavingsAccount, "Funds remitted")
	})
	r.on(domain.ClassForeignStock, domain.ActivityBuy, "Foreign stock purchase", func(b *builder) {
		b.acquireHolding(ForeignStocks)
	})
	r.on(domain.ClassForeignStock, domain.ActivitySell, "Foreign stock sale", func(b *builder) {
		b.disposeHolding(ForeignStocks)
	})
	r.on(domain.ClassForeignStock, domain.ActivityDividend, "Foreign dividend", func(b *builder) {
		if b.rec.TaxWithheld.GreaterThan(b.rec.Amount) {
			b.fail("tax withheld %s exceeds amount %s", b.rec.TaxWithheld, b.rec.Amount)
			return
		}
		b.drRecord(b.cashAccount(), b.rec.Amount.Sub(b.rec.TaxWithheld), "Dividend received")
		b.cr(ForeignDividends, b.toBase(b.rec.Amount), "Gross dividend")
		if b.rec.TaxWithheld.IsPositive() {
			b.plug(b.taxCreditAccount(), "Tax withheld")
		}
	})
}
