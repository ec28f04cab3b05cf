package mapper

import "github.com/SscSPs/finledger/internal/core/domain"

func init() {
	builtins = append(builtins, registerEPF, registerPPF, registerNPS)
}

// Employee EPF contributions are part of gross salary, deducted before payout.
func registerEPF(r *Registry) {
	r.on(domain.ClassEPF, domain.ActivityEmployeeContribution, "EPF employee contribution", func(b *builder) {
		b.transfer(ProvidentFund, SalaryIncome, "Employee share")
	})
	r.on(domain.ClassEPF, domain.ActivityEmployerContribution, "EPF employer contribution", func(b *builder) {
		b.transfer(ProvidentFund, EmployerPF, "Employer share")
	})
	r.on(domain.ClassEPF, domain.ActivityInterest, "EPF interest", func(b *builder) {
		b.income(ProvidentFund, RetirementInterest)
	})
	r.on(domain.ClassEPF, domain.ActivityWithdrawal, "EPF withdrawal", func(b *builder) {
		b.transfer(SavingsAccount, ProvidentFund, "Withdrawal")
	})
}

func registerPPF(r *Registry) {
	deposit := func(b *builder) {
		b.transfer(PublicProvident, SavingsAccount, "Deposit")
	}
	withdraw := func(b *builder) {
		b.transfer(SavingsAccount, PublicProvident, "Withdrawal")
	}
	r.on(domain.ClassPPF, domain.ActivityDeposit, "PPF deposit", deposit)
	r.on(domain.ClassPPF, domain.ActivityContribution, "PPF deposit", deposit)
	r.on(domain.ClassPPF, domain.ActivityInterest, "PPF interest", func(b *builder) {
		b.income(PublicProvident, RetirementInterest)
	})
	r.on(domain.ClassPPF, domain.ActivityWithdrawal, "PPF withdrawal", withdraw)
	r.on(domain.ClassPPF, domain.ActivityMaturity, "PPF maturity", withdraw)
}

func registerNPS(r *Registry) {
	r.on(domain.ClassNPS, domain.ActivityContribution, "NPS contribution", func(b *builder) {
		b.acquire(PensionSystem, SavingsAccount)
	})
	r.on(domain.ClassNPS, domain.ActivityEmployerContribution, "NPS employer contribution", func(b *builder) {
		b.transfer(PensionSystem, EmployerPF, "Employer share")
	})
	r.on(domain.ClassNPS, domain.ActivityWithdrawal, "NPS withdrawal", func(b *builder) {
		b.dispose(PensionSystem, SavingsAccount)
	})
}
