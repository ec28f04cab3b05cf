package mapper

// Posting patterns shared by several asset classes. All of them read the record
// amounts through the builder, so foreign-currency records land in base currency.

// gainAccount picks the capital gains account by holding period.
func (b *builder) gainAccount() string {
	if b.rec.LongTerm {
		return LongTermGains
	}
	return ShortTermGains
}

// cashAccount is where money for the record's currency sits.
func (b *builder) cashAccount() string {
	if b.foreign() {
		return ForeignCash
	}
	return SavingsAccount
}

// taxCreditAccount receives tax withheld on the record.
func (b *builder) taxCreditAccount() string {
	if b.foreign() {
		return ForeignTaxCredit
	}
	return TDSReceivable
}

// transfer moves the record amount from one account to another.
func (b *builder) transfer(to, from, narration string) {
	amount := b.toBase(b.rec.Amount)
	b.dr(to, amount, narration)
	b.cr(from, amount, narration)
}

// income credits the gross amount to income, withheld tax to the tax credit account
// and the rest to cash.
func (b *builder) income(cash, income string) {
	if b.rec.TaxWithheld.GreaterThan(b.rec.Amount) {
		b.fail("tax withheld %s exceeds amount %s", b.rec.TaxWithheld, b.rec.Amount)
		return
	}
	b.cr(income, b.toBase(b.rec.Amount), "Gross income")
	b.dr(b.taxCreditAccount(), b.toBase(b.rec.TaxWithheld), "Tax withheld")
	b.plug(cash, "Net amount received")
}

// acquire debits the asset at its purchase value and fees to brokerage, paid from funding.
func (b *builder) acquire(asset, funding string) {
	b.dr(asset, b.toBase(b.rec.Amount), "Purchase")
	b.dr(Brokerage, b.toBase(b.rec.Fees), "Charges")
	b.plug(funding, "Payment")
}

// dispose removes the asset at cost, books proceeds net of fees and tax, and posts
// the difference as a gain (credit) or loss (debit). A zero cost basis means no gain.
func (b *builder) dispose(asset, proceeds string) {
	cost := b.rec.CostBasis
	if cost.IsZero() {
		cost = b.rec.Amount
	}
	net := b.rec.Amount.Sub(b.rec.Fees).Sub(b.rec.TaxWithheld)
	if net.IsNegative() {
		b.fail("fees and tax exceed proceeds %s", b.rec.Amount)
		return
	}
	b.cr(asset, b.toBase(cost), "Cost basis")
	b.dr(Brokerage, b.toBase(b.rec.Fees), "Charges")
	b.dr(b.taxCreditAccount(), b.toBase(b.rec.TaxWithheld), "Tax withheld")
	b.dr(proceeds, b.toBase(net), "Proceeds")
	b.plug(b.gainAccount(), "Realized gain")
}

// acquireHolding buys into a holding kept in the record currency, paid from that
// currency's cash. Fees are expensed in base currency.
func (b *builder) acquireHolding(holding string) {
	b.drRecord(holding, b.rec.Amount, "Purchase")
	b.dr(Brokerage, b.toBase(b.rec.Fees), "Charges")
	b.crRecord(b.cashAccount(), b.rec.Amount.Add(b.rec.Fees), "Payment")
}

// disposeHolding sells from a holding kept in the record currency. The cost basis leaves
// at the sale date's rate; the realized gain is the base-currency plug.
func (b *builder) disposeHolding(holding string) {
	cost := b.rec.CostBasis
	if cost.IsZero() {
		cost = b.rec.Amount
	}
	net := b.rec.Amount.Sub(b.rec.Fees).Sub(b.rec.TaxWithheld)
	if net.IsNegative() {
		b.fail("fees and tax exceed proceeds %s", b.rec.Amount)
		return
	}
	b.crRecord(holding, cost, "Cost basis")
	b.dr(Brokerage, b.toBase(b.rec.Fees), "Charges")
	b.dr(b.taxCreditAccount(), b.toBase(b.rec.TaxWithheld), "Tax withheld")
	b.drRecord(b.cashAccount(), net, "Proceeds")
	b.plug(b.gainAccount(), "Realized gain")
}
