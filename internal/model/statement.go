package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementKind names the four statement sections a scrape cycle produces.
type StatementKind string

const (
	KindIncome   StatementKind = "income"
	KindBalance  StatementKind = "balance"
	KindCashFlow StatementKind = "cashflow"
	KindRatios   StatementKind = "ratios"
)

// Numeric statement fields are pointers: a field absent from the source
// table stays nil and is persisted as NULL, never coerced to zero.

// IncomeStatement is one income-statement period for a stock.
type IncomeStatement struct {
	StockID      int64      `json:"stock_id"`
	PeriodEnding time.Time  `json:"period_ending"`
	PeriodType   PeriodType `json:"period_type"`

	Revenue             *float64 `json:"revenue"`
	OperatingRevenue    *float64 `json:"operating_revenue"`
	OtherRevenue        *float64 `json:"other_revenue"`
	RevenueGrowthYoY    *float64 `json:"revenue_growth_yoy"`
	CostOfRevenue       *float64 `json:"cost_of_revenue"`
	GrossProfit         *float64 `json:"gross_profit"`
	SGAExpenses         *float64 `json:"sga_expenses"`
	OtherOpex           *float64 `json:"other_opex"`
	TotalOpex           *float64 `json:"total_opex"`
	OperatingIncome     *float64 `json:"operating_income"`
	EBITDA              *float64 `json:"ebitda"`
	EBIT                *float64 `json:"ebit"`
	InterestExpense     *float64 `json:"interest_expense"`
	PretaxIncome        *float64 `json:"pretax_income"`
	IncomeTax           *float64 `json:"income_tax"`
	NetIncome           *float64 `json:"net_income"`
	NetIncomeGrowthYoY  *float64 `json:"net_income_growth_yoy"`
	EPSBasic            *float64 `json:"eps_basic"`
	EPSDiluted          *float64 `json:"eps_diluted"`
	EPSGrowthYoY        *float64 `json:"eps_growth_yoy"`
	DividendPerShare    *float64 `json:"dividend_per_share"`
	DividendGrowthYoY   *float64 `json:"dividend_growth_yoy"`
	SharesBasic         *int64   `json:"shares_basic"`
	SharesDiluted       *int64   `json:"shares_diluted"`
	SharesChangeYoY     *float64 `json:"shares_change_yoy"`
	GrossMargin         *float64 `json:"gross_margin"`
	OperatingMargin     *float64 `json:"operating_margin"`
	ProfitMargin        *float64 `json:"profit_margin"`
	EBITDAMargin        *float64 `json:"ebitda_margin"`
	EffectiveTaxRate    *float64 `json:"effective_tax_rate"`
	FreeCashFlow        *float64 `json:"free_cash_flow"`
	FCFPerShare         *float64 `json:"fcf_per_share"`
	FCFMargin           *float64 `json:"fcf_margin"`
}

// BalanceSheet is one balance-sheet period for a stock.
type BalanceSheet struct {
	StockID      int64      `json:"stock_id"`
	PeriodEnding time.Time  `json:"period_ending"`
	PeriodType   PeriodType `json:"period_type"`

	CashEquivalents       *float64 `json:"cash_equivalents"`
	ShortTermInvestments  *float64 `json:"short_term_investments"`
	CashAndSTInvestments  *float64 `json:"cash_and_st_investments"`
	AccountsReceivable    *float64 `json:"accounts_receivable"`
	Inventory             *float64 `json:"inventory"`
	OtherCurrentAssets    *float64 `json:"other_current_assets"`
	TotalCurrentAssets    *float64 `json:"total_current_assets"`
	PPE                   *float64 `json:"ppe"`
	Goodwill              *float64 `json:"goodwill"`
	IntangibleAssets      *float64 `json:"intangible_assets"`
	LongTermInvestments   *float64 `json:"long_term_investments"`
	TotalAssets           *float64 `json:"total_assets"`
	AccountsPayable       *float64 `json:"accounts_payable"`
	ShortTermDebt         *float64 `json:"short_term_debt"`
	TotalCurrentLiab      *float64 `json:"total_current_liabilities"`
	LongTermDebt          *float64 `json:"long_term_debt"`
	TotalLiabilities      *float64 `json:"total_liabilities"`
	CommonStock           *float64 `json:"common_stock"`
	RetainedEarnings      *float64 `json:"retained_earnings"`
	ShareholdersEquity    *float64 `json:"shareholders_equity"`
	TotalDebt             *float64 `json:"total_debt"`
	NetCashDebt           *float64 `json:"net_cash_debt"`
	WorkingCapital        *float64 `json:"working_capital"`
	BookValuePerShare     *float64 `json:"book_value_per_share"`
	SharesOutstanding     *int64   `json:"shares_outstanding"`
}

// CashFlow is one cash-flow period for a stock.
type CashFlow struct {
	StockID      int64      `json:"stock_id"`
	PeriodEnding time.Time  `json:"period_ending"`
	PeriodType   PeriodType `json:"period_type"`

	NetIncome               *float64 `json:"net_income"`
	DepreciationAmort       *float64 `json:"depreciation_amortization"`
	StockBasedCompensation  *float64 `json:"stock_based_compensation"`
	ChangeInWorkingCapital  *float64 `json:"change_in_working_capital"`
	OtherOperating          *float64 `json:"other_operating_activities"`
	OperatingCashFlow       *float64 `json:"operating_cash_flow"`
	OCFGrowthYoY            *float64 `json:"ocf_growth_yoy"`
	CapEx                   *float64 `json:"capex"`
	Acquisitions            *float64 `json:"acquisitions"`
	InvestingCashFlow       *float64 `json:"investing_cash_flow"`
	DebtIssued              *float64 `json:"debt_issued"`
	DebtRepaid              *float64 `json:"debt_repaid"`
	Buybacks                *float64 `json:"buybacks"`
	DividendsPaid           *float64 `json:"dividends_paid"`
	FinancingCashFlow       *float64 `json:"financing_cash_flow"`
	NetCashFlow             *float64 `json:"net_cash_flow"`
	FreeCashFlow            *float64 `json:"free_cash_flow"`
	FCFGrowthYoY            *float64 `json:"fcf_growth_yoy"`
	FCFMargin               *float64 `json:"fcf_margin"`
	FCFPerShare             *float64 `json:"fcf_per_share"`
}

// StockRatio is one ratio period for a stock. period_type "current" marks
// the live statistics snapshot, continuously overwritten, distinct from
// historical FY/annual rows.
type StockRatio struct {
	StockID      int64      `json:"stock_id"`
	PeriodEnding time.Time  `json:"period_ending"`
	PeriodType   PeriodType `json:"period_type"`

	MarketCap          *decimal.Decimal `json:"market_cap"`
	EnterpriseValue    *decimal.Decimal `json:"enterprise_value"`
	LastClosePrice     *float64         `json:"last_close_price"`
	PERatio            *float64         `json:"pe_ratio"`
	ForwardPE          *float64         `json:"forward_pe"`
	PSRatio            *float64         `json:"ps_ratio"`
	PBRatio            *float64         `json:"pb_ratio"`
	PFCFRatio          *float64         `json:"p_fcf_ratio"`
	POCFRatio          *float64         `json:"p_ocf_ratio"`
	PEGRatio           *float64         `json:"peg_ratio"`
	EVSales            *float64         `json:"ev_sales"`
	EVEBITDA           *float64         `json:"ev_ebitda"`
	EVEBIT             *float64         `json:"ev_ebit"`
	EVFCF              *float64         `json:"ev_fcf"`
	DebtEquity         *float64         `json:"debt_equity"`
	DebtEBITDA         *float64         `json:"debt_ebitda"`
	DebtFCF            *float64         `json:"debt_fcf"`
	InterestCoverage   *float64         `json:"interest_coverage"`
	CurrentRatio       *float64         `json:"current_ratio"`
	QuickRatio         *float64         `json:"quick_ratio"`
	AssetTurnover      *float64         `json:"asset_turnover"`
	InventoryTurnover  *float64         `json:"inventory_turnover"`
	ROE                *float64         `json:"roe"`
	ROA                *float64         `json:"roa"`
	ROIC               *float64         `json:"roic"`
	ROCE               *float64         `json:"roce"`
	EarningsYield      *float64         `json:"earnings_yield"`
	FCFYield           *float64         `json:"fcf_yield"`
	DividendYield      *float64         `json:"dividend_yield"`
	BuybackYield       *float64         `json:"buyback_yield"`
	PayoutRatio        *float64         `json:"payout_ratio"`
	AltmanZScore       *float64         `json:"altman_z_score"`
	PiotroskiFScore    *int64           `json:"piotroski_f_score"`
	Beta               *float64         `json:"beta"`
}
