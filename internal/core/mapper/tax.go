package mapper

import "github.com/SscSPs/finledger/internal/core/domain"

func init() {
	builtins = append(builtins, registerTax)
}

func registerTax(r *Registry) {
	r.on(domain.ClassTax, domain.ActivityAdvanceTax, "Advance tax", func(b *builder) {
		b.transfer(AdvanceTax, SavingsAccount, "Advance tax paid")
	})
	r.on(domain.ClassTax, domain.ActivitySelfAssessment, "Self-assessment tax", func(b *builder) {
		b.transfer(IncomeTax, SavingsAccount, "Self-assessment tax paid")
	})
	// Refunds settle against TDS credit.
	r.on(domain.ClassTax, domain.ActivityRefund, "Income tax refund", func(b *builder) {
		b.transfer(SavingsAccount, TDSReceivable, "Refund received")
	})
}
