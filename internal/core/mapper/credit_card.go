package mapper

import "github.com/SscSPs/finledger/internal/core/domain"

func init() {
	builtins = append(builtins, registerCreditCard)
}

func registerCreditCard(r *Registry) {
	r.on(domain.ClassCreditCard, domain.ActivitySpend, "Card spend", func(b *builder) {
		b.transfer(Spending, CreditCard, "Spend")
	})
	r.on(domain.ClassCreditCard, domain.ActivityPayment, "Card bill payment", func(b *builder) {
		b.transfer(CreditCard, SavingsAccount, "Bill payment")
	})
	r.on(domain.ClassCreditCard, domain.ActivityRefund, "Card refund", func(b *builder) {
		b.transfer(CreditCard, Spending, "Refund")
	})
	r.on(domain.ClassCreditCard, domain.ActivityCharges, "Card charges", func(b *builder) {
		b.transfer(BankCharges, CreditCard, "Charges")
	})
}
