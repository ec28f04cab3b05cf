package mapper

import "github.com/SscSPs/finledger/internal/core/domain"

func init() {
	builtins = append(builtins, registerSalary)
}

// Salary records carry the gross pay in Amount and TDS in TaxWithheld.
func registerSalary(r *Registry) {
	salary := func(b *builder) {
		b.income(SavingsAccount, SalaryIncome)
	}
	r.on(domain.ClassSalary, domain.ActivitySalary, "Salary", salary)
	r.on(domain.ClassSalary, domain.ActivityCredit, "Salary credit", salary)
}
