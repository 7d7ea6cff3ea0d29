package statement

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/equity-cli/internal/fintable"
	"github.com/sells-group/equity-cli/internal/model"
)

func tableOf(periods []string, rows [][2]any) *fintable.Table {
	t := &fintable.Table{
		Periods: periods,
		Rows:    make(map[string]map[string]string),
	}
	for _, r := range rows {
		label := r[0].(string)
		cells := r[1].(map[string]string)
		t.Rows[label] = cells
		t.RowOrder = append(t.RowOrder, label)
	}
	return t
}

func TestAddIncome_BindsCanonicalFields(t *testing.T) {
	tbl := tableOf(
		[]string{"Mar 31, 2025", "Mar 31, 2024"},
		[][2]any{
			{"Revenue", map[string]string{"Mar 31, 2025": "4,977", "Mar 31, 2024": "5,000"}},
			{"Revenue Growth (YoY)", map[string]string{"Mar 31, 2025": "-0.46%"}},
			{"Selling, General & Admin Expenses", map[string]string{"Mar 31, 2025": "1,200"}},
			{"Shares Outstanding (Basic)", map[string]string{"Mar 31, 2025": "4,977"}},
			{"Gross Margin", map[string]string{"Mar 31, 2025": "45"}},
		},
	)

	r := NewReconciler()
	r.AddIncome(tbl, model.PeriodFY)

	incomes := r.Incomes()
	require.Len(t, incomes, 2)

	first := incomes[0]
	assert.Equal(t, time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC), first.PeriodEnding)
	assert.Equal(t, model.PeriodFY, first.PeriodType)
	require.NotNil(t, first.Revenue)
	assert.InDelta(t, 4977, *first.Revenue, 1e-9)
	require.NotNil(t, first.RevenueGrowthYoY)
	assert.InDelta(t, -0.0046, *first.RevenueGrowthYoY, 1e-9)
	require.NotNil(t, first.SGAExpenses)
	assert.InDelta(t, 1200, *first.SGAExpenses, 1e-9)
	require.NotNil(t, first.SharesBasic)
	assert.Equal(t, int64(4_977_000_000), *first.SharesBasic)
	require.NotNil(t, first.GrossMargin)
	assert.InDelta(t, 0.45, *first.GrossMargin, 1e-9)

	second := incomes[1]
	require.NotNil(t, second.Revenue)
	assert.InDelta(t, 5000, *second.Revenue, 1e-9)
	assert.Nil(t, second.SGAExpenses)
}

func TestAddIncome_DropsUndatedPeriods(t *testing.T) {
	tbl := tableOf(
		[]string{"TTM", "Mar 31, 2025"},
		[][2]any{
			{"Revenue", map[string]string{"TTM": "6,012", "Mar 31, 2025": "4,977"}},
		},
	)

	r := NewReconciler()
	r.AddIncome(tbl, model.PeriodFY)

	incomes := r.Incomes()
	require.Len(t, incomes, 1)
	assert.Equal(t, time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC), incomes[0].PeriodEnding)
}

func TestAddIncome_MergePreservesCapturedValues(t *testing.T) {
	first := tableOf(
		[]string{"Mar 31, 2025"},
		[][2]any{
			{"Revenue", map[string]string{"Mar 31, 2025": "4,977"}},
			{"Net Income", map[string]string{"Mar 31, 2025": "731"}},
		},
	)
	// A later page for the same period: a dash where net income was, plus a
	// field the first page lacked.
	second := tableOf(
		[]string{"Mar 31, 2025"},
		[][2]any{
			{"Revenue", map[string]string{"Mar 31, 2025": "5,100"}},
			{"Net Income", map[string]string{"Mar 31, 2025": "—"}},
			{"Gross Profit", map[string]string{"Mar 31, 2025": "2,000"}},
		},
	)

	r := NewReconciler()
	r.AddIncome(first, model.PeriodFY)
	r.AddIncome(second, model.PeriodFY)

	incomes := r.Incomes()
	require.Len(t, incomes, 1)
	rec := incomes[0]
	require.NotNil(t, rec.Revenue)
	assert.InDelta(t, 5100, *rec.Revenue, 1e-9)
	require.NotNil(t, rec.NetIncome)
	assert.InDelta(t, 731, *rec.NetIncome, 1e-9)
	require.NotNil(t, rec.GrossProfit)
	assert.InDelta(t, 2000, *rec.GrossProfit, 1e-9)
}

func TestAddIncome_FiscalModesStaySeparate(t *testing.T) {
	tbl := tableOf(
		[]string{"Mar 31, 2025"},
		[][2]any{
			{"Revenue", map[string]string{"Mar 31, 2025": "1,200"}},
		},
	)

	r := NewReconciler()
	r.AddIncome(tbl, model.PeriodFY)
	r.AddIncome(tbl, model.PeriodQuarterly)

	incomes := r.Incomes()
	require.Len(t, incomes, 2)
	assert.Equal(t, model.PeriodFY, incomes[0].PeriodType)
	assert.Equal(t, model.PeriodQuarterly, incomes[1].PeriodType)
}

func TestAddBalance_EndToEndFromText(t *testing.T) {
	raw := strings.Join([]string{
		"Fiscal Year",
		"FY 2025 FY 2024",
		"Period Ending",
		"Mar 31, 2025 Mar 31, 2024",
		"Total Assets",
		"9,988 9,100",
		"Total Liabilities",
		"7,000 6,500",
		"Total Common Shares Outstanding",
		"4,977 4,977",
	}, "\n")

	tbl := fintable.ParseText(raw)
	r := NewReconciler()
	r.AddBalance(tbl, model.PeriodFY)

	balances := r.Balances()
	require.Len(t, balances, 2)
	require.NotNil(t, balances[0].TotalAssets)
	assert.InDelta(t, 9988, *balances[0].TotalAssets, 1e-9)
	require.NotNil(t, balances[0].SharesOutstanding)
	assert.Equal(t, int64(4_977_000_000), *balances[0].SharesOutstanding)
	require.NotNil(t, balances[1].TotalLiabilities)
	assert.InDelta(t, 6500, *balances[1].TotalLiabilities, 1e-9)
}

func TestAddRatios_ScaledAndPercentFields(t *testing.T) {
	tbl := tableOf(
		[]string{"Mar 31, 2025"},
		[][2]any{
			{"Market Capitalization", map[string]string{"Mar 31, 2025": "8.68B"}},
			{"PE Ratio", map[string]string{"Mar 31, 2025": "10.5"}},
			{"Return on Equity (ROE)", map[string]string{"Mar 31, 2025": "25.88%"}},
			{"Piotroski F-Score", map[string]string{"Mar 31, 2025": "7"}},
		},
	)

	r := NewReconciler()
	r.AddRatios(tbl, model.PeriodFY)

	ratios := r.Ratios()
	require.Len(t, ratios, 1)
	rec := ratios[0]
	require.NotNil(t, rec.MarketCap)
	assert.Equal(t, "8680", rec.MarketCap.String())
	require.NotNil(t, rec.PERatio)
	assert.InDelta(t, 10.5, *rec.PERatio, 1e-9)
	require.NotNil(t, rec.ROE)
	assert.InDelta(t, 0.2588, *rec.ROE, 1e-9)
	require.NotNil(t, rec.PiotroskiFScore)
	assert.Equal(t, int64(7), *rec.PiotroskiFScore)
}

func TestAddStatistics_BuildsCurrentSnapshot(t *testing.T) {
	asOf := time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)
	kv := map[string]string{
		"Market Cap":        "8.68B",
		"P/E Ratio":         "10.50",
		"Dividend Yield":    "4.52%",
		"Piotroski F-Score": "7",
		"Beta (5Y)":         "0.40",
	}

	r := NewReconciler()
	r.AddStatistics(kv, asOf)

	ratios := r.Ratios()
	require.Len(t, ratios, 1)
	rec := ratios[0]
	assert.Equal(t, model.PeriodCurrent, rec.PeriodType)
	assert.Equal(t, asOf, rec.PeriodEnding)
	require.NotNil(t, rec.MarketCap)
	assert.Equal(t, "8680", rec.MarketCap.String())
	require.NotNil(t, rec.DividendYield)
	assert.InDelta(t, 0.0452, *rec.DividendYield, 1e-9)
	require.NotNil(t, rec.Beta)
	assert.InDelta(t, 0.40, *rec.Beta, 1e-9)

	// Re-adding refreshes the same row instead of growing a second one.
	kv["P/E Ratio"] = "11.00"
	r.AddStatistics(kv, asOf)
	ratios = r.Ratios()
	require.Len(t, ratios, 1)
	require.NotNil(t, ratios[0].PERatio)
	assert.InDelta(t, 11.0, *ratios[0].PERatio, 1e-9)
}

func TestLookupKV_AmbiguousFuzzyMatchIsStable(t *testing.T) {
	// Both keys fold-contain the label; the lexicographically first one
	// must win on every run.
	kv := map[string]string{
		"Market Cap (intraday)": "9.00B",
		"Market Cap (diluted)":  "8.50B",
	}
	for i := 0; i < 20; i++ {
		v, ok := lookupKV(kv, "Market Cap")
		require.True(t, ok)
		assert.Equal(t, "8.50B", v)
	}
}

func TestLoadBindings_RejectsUnknownField(t *testing.T) {
	_, err := loadBindings([]byte("income:\n  - {field: bogus, label: Bogus}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestLoadBindings_EmbeddedTableIsValid(t *testing.T) {
	set, err := loadBindings(mappingsYAML)
	require.NoError(t, err)
	assert.NotEmpty(t, set.Income)
	assert.NotEmpty(t, set.Balance)
	assert.NotEmpty(t, set.CashFlow)
	assert.NotEmpty(t, set.Ratios)
	assert.NotEmpty(t, set.Statistics)
}
