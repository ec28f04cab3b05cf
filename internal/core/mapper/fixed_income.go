package mapper

import "github.com/SscSPs/finledger/internal/core/domain"

func init() {
	builtins = append(builtins, registerSGB, registerBond)
}

func registerSGB(r *Registry) {
	r.on(domain.ClassSGB, domain.ActivityPurchase, "Sovereign gold bond purchase", func(b *builder) {
		b.acquire(GoldBonds, SavingsAccount)
	})
	r.on(domain.ClassSGB, domain.ActivityInterest, "Sovereign gold bond interest", func(b *builder) {
		b.income(SavingsAccount, BondInterest)
	})
	redeem := func(b *builder) {
		b.dispose(GoldBonds, SavingsAccount)
	}
	r.on(domain.ClassSGB, domain.ActivityRedemption, "Sovereign gold bond redemption", redeem)
	r.on(domain.ClassSGB, domain.ActivityMaturity, "Sovereign gold bond maturity", redeem)
}

func registerBond(r *Registry) {
	buy := func(b *builder) {
		b.acquire(Bonds, SavingsAccount)
	}
	coupon := func(b *builder) {
		b.income(SavingsAccount, BondInterest)
	}
	sell := func(b *builder) {
		b.dispose(Bonds, SavingsAccount)
	}
	r.on(domain.ClassBond, domain.ActivityBuy, "Bond purchase", buy)
	r.on(domain.ClassBond, domain.ActivityPurchase, "Bond purchase", buy)
	r.on(domain.ClassBond, domain.ActivityCoupon, "Bond coupon", coupon)
	r.on(domain.ClassBond, domain.ActivityInterest, "Bond interest", coupon)
	r.on(domain.ClassBond, domain.ActivitySell, "Bond sale", sell)
	r.on(domain.ClassBond, domain.ActivityRedemption, "Bond redemption", sell)
	r.on(domain.ClassBond, domain.ActivityMaturity, "Bond maturity", sell)
}
