package mapper

import "github.com/SscSPs/finledger/internal/core/domain"

func init() {
	builtins = append(builtins, registerRental)
}

func registerRental(r *Registry) {
	r.on(domain.ClassRental, domain.ActivityRent, "Rent received", func(b *builder) {
		b.income(SavingsAccount, RentalIncome)
	})
	r.on(domain.ClassRental, domain.ActivityPropertyTax, "Property tax", func(b *builder) {
		b.transfer(PropertyTax, SavingsAccount, "Property tax paid")
	})
}
