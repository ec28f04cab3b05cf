package mapper

import (
	"strings"

	"github.com/SscSPs/finledger/internal/core/domain"
)

func init() {
	builtins = append(builtins, registerBank)
}

// bankAccount picks the bank ledger from the record category; savings unless CURRENT.
func (b *builder) bankAccount() string {
	if strings.EqualFold(b.rec.Category, "CURRENT") {
		return CurrentAccount
	}
	return SavingsAccount
}

func registerBank(r *Registry) {
	// Unclassified deposits wait in suspense until they are reclassified.
	r.on(domain.ClassBank, domain.ActivityDeposit, "Bank deposit", func(b *builder) {
		b.transfer(b.bankAccount(), Suspense, "Deposit")
	})
	r.on(domain.ClassBank, domain.ActivityWithdrawal, "Bank withdrawal", func(b *builder) {
		b.transfer(Spending, b.bankAccount(), "Withdrawal")
	})
	r.on(domain.ClassBank, domain.ActivityInterest, "Savings interest", func(b *builder) {
		b.income(b.bankAccount(), SavingsInterest)
	})
	r.on(domain.ClassBank, domain.ActivityCharges, "Bank charges", func(b *builder) {
		b.transfer(BankCharges, b.bankAccount(), "Charges")
	})
}
