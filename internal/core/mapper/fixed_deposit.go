package mapper

import "github.com/SscSPs/finledger/internal/core/domain"

func init() {
	builtins = append(builtins, registerFixedDeposit)
}

func registerFixedDeposit(r *Registry) {
	r.on(domain.ClassFixedDeposit, domain.ActivityOpen, "Fixed deposit opened", func(b *builder) {
		b.transfer(FixedDeposits, SavingsAccount, "Principal")
	})
	// Interest is accrued into the deposit.
	r.on(domain.ClassFixedDeposit, domain.ActivityInterest, "Fixed deposit interest", func(b *builder) {
		b.income(FixedDeposits, DepositInterest)
	})
	// Maturity pays out the deposit's book value (CostBasis); anything above it is interest
	// not yet accrued.
	r.on(domain.ClassFixedDeposit, domain.ActivityMaturity, "Fixed deposit matured", func(b *builder) {
		book := b.rec.CostBasis
		if book.IsZero() {
			book = b.rec.Amount
		}
		if book.GreaterThan(b.rec.Amount) {
			b.fail("book value %s exceeds maturity amount %s", book, b.rec.Amount)
			return
		}
		b.cr(FixedDeposits, b.toBase(book), "Principal and accrued interest")
		b.cr(DepositInterest, b.toBase(b.rec.Amount.Sub(book)), "Interest at maturity")
		b.dr(TDSReceivable, b.toBase(b.rec.TaxWithheld), "Tax withheld")
		b.plug(SavingsAccount, "Maturity proceeds")
	})
}
