package statement

import (
	"github.com/shopspring/decimal"

	"github.com/sells-group/equity-cli/internal/model"
	"github.com/sells-group/equity-cli/internal/parse"
)

// Setters only assign on a successful parse. A cell that fails to parse
// leaves the field untouched, so records merged across sections and fiscal
// modes keep the last good value instead of being clobbered by a dash.

func putNumber(dst **float64, raw string) {
	if v := parse.Number(raw); v != nil {
		*dst = v
	}
}

func putPercent(dst **float64, raw string) {
	if v := parse.Percent(raw); v != nil {
		*dst = v
	}
}

func putShares(dst **int64, raw string) {
	if v := parse.SharesInMillions(raw); v != nil {
		*dst = v
	}
}

func putScaled(dst **decimal.Decimal, raw string) {
	if v := parse.DecimalScaled(raw); v != nil {
		*dst = v
	}
}

func putInt(dst **int64, raw string) {
	if v := parse.Int(raw); v != nil {
		*dst = v
	}
}

var incomeSetters = map[string]func(*model.IncomeStatement, string){
	"revenue":               func(s *model.IncomeStatement, raw string) { putNumber(&s.Revenue, raw) },
	"operating_revenue":     func(s *model.IncomeStatement, raw string) { putNumber(&s.OperatingRevenue, raw) },
	"other_revenue":         func(s *model.IncomeStatement, raw string) { putNumber(&s.OtherRevenue, raw) },
	"revenue_growth_yoy":    func(s *model.IncomeStatement, raw string) { putPercent(&s.RevenueGrowthYoY, raw) },
	"cost_of_revenue":       func(s *model.IncomeStatement, raw string) { putNumber(&s.CostOfRevenue, raw) },
	"gross_profit":          func(s *model.IncomeStatement, raw string) { putNumber(&s.GrossProfit, raw) },
	"sga_expenses":          func(s *model.IncomeStatement, raw string) { putNumber(&s.SGAExpenses, raw) },
	"other_opex":            func(s *model.IncomeStatement, raw string) { putNumber(&s.OtherOpex, raw) },
	"total_opex":            func(s *model.IncomeStatement, raw string) { putNumber(&s.TotalOpex, raw) },
	"operating_income":      func(s *model.IncomeStatement, raw string) { putNumber(&s.OperatingIncome, raw) },
	"ebitda":                func(s *model.IncomeStatement, raw string) { putNumber(&s.EBITDA, raw) },
	"ebit":                  func(s *model.IncomeStatement, raw string) { putNumber(&s.EBIT, raw) },
	"interest_expense":      func(s *model.IncomeStatement, raw string) { putNumber(&s.InterestExpense, raw) },
	"pretax_income":         func(s *model.IncomeStatement, raw string) { putNumber(&s.PretaxIncome, raw) },
	"income_tax":            func(s *model.IncomeStatement, raw string) { putNumber(&s.IncomeTax, raw) },
	"net_income":            func(s *model.IncomeStatement, raw string) { putNumber(&s.NetIncome, raw) },
	"net_income_growth_yoy": func(s *model.IncomeStatement, raw string) { putPercent(&s.NetIncomeGrowthYoY, raw) },
	"eps_basic":             func(s *model.IncomeStatement, raw string) { putNumber(&s.EPSBasic, raw) },
	"eps_diluted":           func(s *model.IncomeStatement, raw string) { putNumber(&s.EPSDiluted, raw) },
	"eps_growth_yoy":        func(s *model.IncomeStatement, raw string) { putPercent(&s.EPSGrowthYoY, raw) },
	"dividend_per_share":    func(s *model.IncomeStatement, raw string) { putNumber(&s.DividendPerShare, raw) },
	"dividend_growth_yoy":   func(s *model.IncomeStatement, raw string) { putPercent(&s.DividendGrowthYoY, raw) },
	"shares_basic":          func(s *model.IncomeStatement, raw string) { putShares(&s.SharesBasic, raw) },
	"shares_diluted":        func(s *model.IncomeStatement, raw string) { putShares(&s.SharesDiluted, raw) },
	"shares_change_yoy":     func(s *model.IncomeStatement, raw string) { putPercent(&s.SharesChangeYoY, raw) },
	"gross_margin":          func(s *model.IncomeStatement, raw string) { putPercent(&s.GrossMargin, raw) },
	"operating_margin":      func(s *model.IncomeStatement, raw string) { putPercent(&s.OperatingMargin, raw) },
	"profit_margin":         func(s *model.IncomeStatement, raw string) { putPercent(&s.ProfitMargin, raw) },
	"ebitda_margin":         func(s *model.IncomeStatement, raw string) { putPercent(&s.EBITDAMargin, raw) },
	"effective_tax_rate":    func(s *model.IncomeStatement, raw string) { putPercent(&s.EffectiveTaxRate, raw) },
	"free_cash_flow":        func(s *model.IncomeStatement, raw string) { putNumber(&s.FreeCashFlow, raw) },
	"fcf_per_share":         func(s *model.IncomeStatement, raw string) { putNumber(&s.FCFPerShare, raw) },
	"fcf_margin":            func(s *model.IncomeStatement, raw string) { putPercent(&s.FCFMargin, raw) },
}

var balanceSetters = map[string]func(*model.BalanceSheet, string){
	"cash_equivalents":          func(s *model.BalanceSheet, raw string) { putNumber(&s.CashEquivalents, raw) },
	"short_term_investments":    func(s *model.BalanceSheet, raw string) { putNumber(&s.ShortTermInvestments, raw) },
	"cash_and_st_investments":   func(s *model.BalanceSheet, raw string) { putNumber(&s.CashAndSTInvestments, raw) },
	"accounts_receivable":       func(s *model.BalanceSheet, raw string) { putNumber(&s.AccountsReceivable, raw) },
	"inventory":                 func(s *model.BalanceSheet, raw string) { putNumber(&s.Inventory, raw) },
	"other_current_assets":      func(s *model.BalanceSheet, raw string) { putNumber(&s.OtherCurrentAssets, raw) },
	"total_current_assets":      func(s *model.BalanceSheet, raw string) { putNumber(&s.TotalCurrentAssets, raw) },
	"ppe":                       func(s *model.BalanceSheet, raw string) { putNumber(&s.PPE, raw) },
	"goodwill":                  func(s *model.BalanceSheet, raw string) { putNumber(&s.Goodwill, raw) },
	"intangible_assets":         func(s *model.BalanceSheet, raw string) { putNumber(&s.IntangibleAssets, raw) },
	"long_term_investments":     func(s *model.BalanceSheet, raw string) { putNumber(&s.LongTermInvestments, raw) },
	"total_assets":              func(s *model.BalanceSheet, raw string) { putNumber(&s.TotalAssets, raw) },
	"accounts_payable":          func(s *model.BalanceSheet, raw string) { putNumber(&s.AccountsPayable, raw) },
	"short_term_debt":           func(s *model.BalanceSheet, raw string) { putNumber(&s.ShortTermDebt, raw) },
	"total_current_liabilities": func(s *model.BalanceSheet, raw string) { putNumber(&s.TotalCurrentLiab, raw) },
	"long_term_debt":            func(s *model.BalanceSheet, raw string) { putNumber(&s.LongTermDebt, raw) },
	"total_liabilities":         func(s *model.BalanceSheet, raw string) { putNumber(&s.TotalLiabilities, raw) },
	"common_stock":              func(s *model.BalanceSheet, raw string) { putNumber(&s.CommonStock, raw) },
	"retained_earnings":         func(s *model.BalanceSheet, raw string) { putNumber(&s.RetainedEarnings, raw) },
	"shareholders_equity":       func(s *model.BalanceSheet, raw string) { putNumber(&s.ShareholdersEquity, raw) },
	"total_debt":                func(s *model.BalanceSheet, raw string) { putNumber(&s.TotalDebt, raw) },
	"net_cash_debt":             func(s *model.BalanceSheet, raw string) { putNumber(&s.NetCashDebt, raw) },
	"working_capital":           func(s *model.BalanceSheet, raw string) { putNumber(&s.WorkingCapital, raw) },
	"book_value_per_share":      func(s *model.BalanceSheet, raw string) { putNumber(&s.BookValuePerShare, raw) },
	"shares_outstanding":        func(s *model.BalanceSheet, raw string) { putShares(&s.SharesOutstanding, raw) },
}

var cashflowSetters = map[string]func(*model.CashFlow, string){
	"net_income":                func(s *model.CashFlow, raw string) { putNumber(&s.NetIncome, raw) },
	"depreciation_amortization": func(s *model.CashFlow, raw string) { putNumber(&s.DepreciationAmort, raw) },
	"stock_based_compensation":  func(s *model.CashFlow, raw string) { putNumber(&s.StockBasedCompensation, raw) },
	"change_in_working_capital": func(s *model.CashFlow, raw string) { putNumber(&s.ChangeInWorkingCapital, raw) },
	"other_operating_activities": func(s *model.CashFlow, raw string) {
		putNumber(&s.OtherOperating, raw)
	},
	"operating_cash_flow": func(s *model.CashFlow, raw string) { putNumber(&s.OperatingCashFlow, raw) },
	"ocf_growth_yoy":      func(s *model.CashFlow, raw string) { putPercent(&s.OCFGrowthYoY, raw) },
	"capex":               func(s *model.CashFlow, raw string) { putNumber(&s.CapEx, raw) },
	"acquisitions":        func(s *model.CashFlow, raw string) { putNumber(&s.Acquisitions, raw) },
	"investing_cash_flow": func(s *model.CashFlow, raw string) { putNumber(&s.InvestingCashFlow, raw) },
	"debt_issued":         func(s *model.CashFlow, raw string) { putNumber(&s.DebtIssued, raw) },
	"debt_repaid":         func(s *model.CashFlow, raw string) { putNumber(&s.DebtRepaid, raw) },
	"buybacks":            func(s *model.CashFlow, raw string) { putNumber(&s.Buybacks, raw) },
	"dividends_paid":      func(s *model.CashFlow, raw string) { putNumber(&s.DividendsPaid, raw) },
	"financing_cash_flow": func(s *model.CashFlow, raw string) { putNumber(&s.FinancingCashFlow, raw) },
	"net_cash_flow":       func(s *model.CashFlow, raw string) { putNumber(&s.NetCashFlow, raw) },
	"free_cash_flow":      func(s *model.CashFlow, raw string) { putNumber(&s.FreeCashFlow, raw) },
	"fcf_growth_yoy":      func(s *model.CashFlow, raw string) { putPercent(&s.FCFGrowthYoY, raw) },
	"fcf_margin":          func(s *model.CashFlow, raw string) { putPercent(&s.FCFMargin, raw) },
	"fcf_per_share":       func(s *model.CashFlow, raw string) { putNumber(&s.FCFPerShare, raw) },
}

var ratioSetters = map[string]func(*model.StockRatio, string){
	"market_cap":         func(s *model.StockRatio, raw string) { putScaled(&s.MarketCap, raw) },
	"enterprise_value":   func(s *model.StockRatio, raw string) { putScaled(&s.EnterpriseValue, raw) },
	"last_close_price":   func(s *model.StockRatio, raw string) { putNumber(&s.LastClosePrice, raw) },
	"pe_ratio":           func(s *model.StockRatio, raw string) { putNumber(&s.PERatio, raw) },
	"forward_pe":         func(s *model.StockRatio, raw string) { putNumber(&s.ForwardPE, raw) },
	"ps_ratio":           func(s *model.StockRatio, raw string) { putNumber(&s.PSRatio, raw) },
	"pb_ratio":           func(s *model.StockRatio, raw string) { putNumber(&s.PBRatio, raw) },
	"p_fcf_ratio":        func(s *model.StockRatio, raw string) { putNumber(&s.PFCFRatio, raw) },
	"p_ocf_ratio":        func(s *model.StockRatio, raw string) { putNumber(&s.POCFRatio, raw) },
	"peg_ratio":          func(s *model.StockRatio, raw string) { putNumber(&s.PEGRatio, raw) },
	"ev_sales":           func(s *model.StockRatio, raw string) { putNumber(&s.EVSales, raw) },
	"ev_ebitda":          func(s *model.StockRatio, raw string) { putNumber(&s.EVEBITDA, raw) },
	"ev_ebit":            func(s *model.StockRatio, raw string) { putNumber(&s.EVEBIT, raw) },
	"ev_fcf":             func(s *model.StockRatio, raw string) { putNumber(&s.EVFCF, raw) },
	"debt_equity":        func(s *model.StockRatio, raw string) { putNumber(&s.DebtEquity, raw) },
	"debt_ebitda":        func(s *model.StockRatio, raw string) { putNumber(&s.DebtEBITDA, raw) },
	"debt_fcf":           func(s *model.StockRatio, raw string) { putNumber(&s.DebtFCF, raw) },
	"interest_coverage":  func(s *model.StockRatio, raw string) { putNumber(&s.InterestCoverage, raw) },
	"current_ratio":      func(s *model.StockRatio, raw string) { putNumber(&s.CurrentRatio, raw) },
	"quick_ratio":        func(s *model.StockRatio, raw string) { putNumber(&s.QuickRatio, raw) },
	"asset_turnover":     func(s *model.StockRatio, raw string) { putNumber(&s.AssetTurnover, raw) },
	"inventory_turnover": func(s *model.StockRatio, raw string) { putNumber(&s.InventoryTurnover, raw) },
	"roe":                func(s *model.StockRatio, raw string) { putPercent(&s.ROE, raw) },
	"roa":                func(s *model.StockRatio, raw string) { putPercent(&s.ROA, raw) },
	"roic":               func(s *model.StockRatio, raw string) { putPercent(&s.ROIC, raw) },
	"roce":               func(s *model.StockRatio, raw string) { putPercent(&s.ROCE, raw) },
	"earnings_yield":     func(s *model.StockRatio, raw string) { putPercent(&s.EarningsYield, raw) },
	"fcf_yield":          func(s *model.StockRatio, raw string) { putPercent(&s.FCFYield, raw) },
	"dividend_yield":     func(s *model.StockRatio, raw string) { putPercent(&s.DividendYield, raw) },
	"buyback_yield":      func(s *model.StockRatio, raw string) { putPercent(&s.BuybackYield, raw) },
	"payout_ratio":       func(s *model.StockRatio, raw string) { putPercent(&s.PayoutRatio, raw) },
	"altman_z_score":     func(s *model.StockRatio, raw string) { putNumber(&s.AltmanZScore, raw) },
	"piotroski_f_score":  func(s *model.StockRatio, raw string) { putInt(&s.PiotroskiFScore, raw) },
	"beta":               func(s *model.StockRatio, raw string) { putNumber(&s.Beta, raw) },
}

// statisticsSetters feed the live "current" ratio snapshot from the
// statistics page. The page reports percentages in the same ambiguous form
// as the ratio tables, so they go through the same fraction normalization.
var statisticsSetters = ratioSetters
