package mapper

// Account codes of the standard chart that handlers post to.
const (
	SavingsAccount     = "1101"
	CurrentAccount     = "1102"
	FixedDeposits      = "1103"
	EquityFunds        = "1201"
	DebtFunds          = "1202"
	IndianStocks       = "1203"
	ForeignStocks      = "1204"
	GoldBonds          = "1205"
	Bonds              = "1206"
	REITs              = "1207"
	Gold               = "1208"
	ForeignCash        = "1209"
	ProvidentFund      = "1301"
	PublicProvident    = "1302"
	PensionSystem      = "1303"
	TDSReceivable      = "1401"
	AdvanceTax         = "1402"
	ForeignTaxCredit   = "1403"
	CreditCard         = "2101"
	Suspense           = "2901"
	SalaryIncome       = "4101"
	EmployerPF         = "4102"
	Perquisites        = "4103"
	SavingsInterest    = "4201"
	DepositInterest    = "4202"
	BondInterest       = "4203"
	RetirementInterest = "4204"
	Dividends          = "4301"
	ForeignDividends   = "4302"
	REITDistribution   = "4303"
	ShortTermGains     = "4401"
	LongTermGains      = "4402"
	RentalIncome       = "4501"
	IncomeTax          = "5101"
	PropertyTax        = "5102"
	BankCharges        = "5201"
	Brokerage          = "5202"
	Spending           = "5901"
)
