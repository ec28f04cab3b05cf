package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetClass identifies which family of statements produced a record.
type AssetClass string

const (
	ClassBank         AssetClass = "BANK"
	ClassSalary       AssetClass = "SALARY"
	ClassFixedDeposit AssetClass = "FIXED_DEPOSIT"
	ClassMutualFund   AssetClass = "MUTUAL_FUND"
	ClassStock        AssetClass = "STOCK"
	ClassForeignStock AssetClass = "FOREIGN_STOCK"
	ClassRSU          AssetClass = "RSU"
	ClassESPP         AssetClass = "ESPP"
	ClassEPF          AssetClass = "EPF"
	ClassPPF          AssetClass = "PPF"
	ClassNPS          AssetClass = "NPS"
	ClassSGB          AssetClass = "SGB"
	ClassBond         AssetClass = "BOND"
	ClassREIT         AssetClass = "REIT"
	ClassGold         AssetClass = "GOLD"
	ClassRental       AssetClass = "RENTAL"
	ClassCreditCard   AssetClass = "CREDIT_CARD"
	ClassTax          AssetClass = "TAX"
)

// Activity is what happened within an asset class.
type Activity string

const (
	ActivityDeposit              Activity = "DEPOSIT"
	ActivityWithdrawal           Activity = "WITHDRAWAL"
	ActivityInterest             Activity = "INTEREST"
	ActivityCharges              Activity = "CHARGES"
	ActivitySalary               Activity = "SALARY"
	ActivityCredit               Activity = "CREDIT"
	ActivityOpen                 Activity = "OPEN"
	ActivityMaturity             Activity = "MATURITY"
	ActivityPurchase             Activity = "PURCHASE"
	ActivityRedemption           Activity = "REDEMPTION"
	ActivityDividend             Activity = "DIVIDEND"
	ActivityBuy                  Activity = "BUY"
	ActivitySell                 Activity = "SELL"
	ActivityRemittance           Activity = "REMITTANCE"
	ActivityVest                 Activity = "VEST"
	ActivityEmployeeContribution Activity = "EMPLOYEE_CONTRIBUTION"
	ActivityEmployerContribution Activity = "EMPLOYER_CONTRIBUTION"
	ActivityContribution         Activity = "CONTRIBUTION"
	ActivityCoupon               Activity = "COUPON"
	ActivityDistribution         Activity = "DISTRIBUTION"
	ActivityRent                 Activity = "RENT"
	ActivityPropertyTax          Activity = "PROPERTY_TAX"
	ActivitySpend                Activity = "SPEND"
	ActivityPayment              Activity = "PAYMENT"
	ActivityRefund               Activity = "REFUND"
	ActivityAdvanceTax           Activity = "ADVANCE_TAX"
	ActivitySelfAssessment       Activity = "SELF_ASSESSMENT"
	ActivityInformational        Activity = "INFO"
)

// Discriminator selects the mapping handler for a record.
type Discriminator struct {
	AssetClass AssetClass
	Activity   Activity
}

func (d Discriminator) String() string {
	return string(d.AssetClass) + "." + string(d.Activity)
}

// NormalizedRecord is the parser-independent shape of one statement line.
// Amount is the gross value of the event in CurrencyCode; Units, CostBasis,
// Fees and TaxWithheld are optional depending on the activity.
type NormalizedRecord struct {
	AssetClass   AssetClass      `json:"assetClass" validate:"required"`
	Activity     Activity        `json:"activity" validate:"required"`
	AccountRef   string          `json:"accountRef" validate:"required"` // folio, masked account number, demat id
	Date         time.Time       `json:"date" validate:"required"`
	Amount       decimal.Decimal `json:"amount"`
	Units        decimal.Decimal `json:"units"`
	CostBasis    decimal.Decimal `json:"costBasis"`
	Fees         decimal.Decimal `json:"fees"`
	TaxWithheld  decimal.Decimal `json:"taxWithheld"`
	CurrencyCode string          `json:"currencyCode" validate:"omitempty,len=3,uppercase"`
	LongTerm     bool            `json:"longTerm"`
	Category     string          `json:"category"` // e.g. EQUITY / DEBT for mutual funds
	Instrument   string          `json:"instrument"`
	Reference    string          `json:"reference"`
	Description  string          `json:"description" validate:"max=500"`
}

// Discriminator returns the handler selector of the record.
func (r NormalizedRecord) Discriminator() Discriminator {
	return Discriminator{AssetClass: r.AssetClass, Activity: r.Activity}
}

// MappedJournal is the journal a record maps to, before validation and persistence.
type MappedJournal struct {
	Description   string
	ReferenceType string
	Entries       []EntryInput
}
