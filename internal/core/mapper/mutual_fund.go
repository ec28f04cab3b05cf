package mapper

import (
	"strings"

	"github.com/SscSPs/finledger/internal/core/domain"
)

func init() {
	builtins = append(builtins, registerMutualFund)
}

// fundAccount separates debt schemes from equity ones by category.
func (b *builder) fundAccount() string {
	if strings.EqualFold(b.rec.Category, "DEBT") {
		return DebtFunds
	}
	return EquityFunds
}

func registerMutualFund(r *Registry) {
	r.on(domain.ClassMutualFund, domain.ActivityPurchase, "Mutual fund purchase", func(b *builder) {
		b.acquire(b.fundAccount(), SavingsAccount)
	})
	r.on(domain.ClassMutualFund, domain.ActivityRedemption, "Mutual fund redemption", func(b *builder) {
		b.dispose(b.fundAccount(), SavingsAccount)
	})
	r.on(domain.ClassMutualFund, domain.ActivityDividend, "Mutual fund dividend", func(b *builder) {
		b.income(SavingsAccount, Dividends)
	})
}
