package mapper

import "github.com/SscSPs/finledger/internal/core/domain"

func init() {
	builtins = append(builtins, registerREIT, registerGold)
}

func registerREIT(r *Registry) {
	r.on(domain.ClassREIT, domain.ActivityBuy, "REIT purchase", func(b *builder) {
		b.acquire(REITs, SavingsAccount)
	})
	r.on(domain.ClassREIT, domain.ActivitySell, "REIT sale", func(b *builder) {
		b.dispose(REITs, SavingsAccount)
	})
	distribution := func(b *builder) {
		b.income(SavingsAccount, REITDistribution)
	}
	r.on(domain.ClassREIT, domain.ActivityDistribution, "REIT distribution", distribution)
	r.on(domain.ClassREIT, domain.ActivityDividend, "REIT dividend", distribution)
}

func registerGold(r *Registry) {
	r.on(domain.ClassGold, domain.ActivityBuy, "Gold purchase", func(b *builder) {
		b.acquire(Gold, SavingsAccount)
	})
	r.on(domain.ClassGold, domain.ActivitySell, "Gold sale", func(b *builder) {
		b.dispose(Gold, SavingsAccount)
	})
}
