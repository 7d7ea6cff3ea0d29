package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/equity-cli/internal/model"
)

func fp(v float64) *float64 { return &v }

func TestWorkbook_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acme.xlsx")

	wb := &Workbook{
		Stock: model.Stock{ID: 1, Symbol: "ACME", Name: "Acme Group"},
		Incomes: []model.IncomeStatement{
			{
				PeriodEnding: time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
				PeriodType:   model.PeriodFY,
				Revenue:      fp(4977),
				NetIncome:    fp(731),
			},
			{
				PeriodEnding: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
				PeriodType:   model.PeriodFY,
				Revenue:      fp(5000),
			},
		},
		Klines: []model.DailyKline{
			{Date: "2025-06-30", Open: fp(10), Close: fp(11)},
		},
	}
	require.NoError(t, wb.Write(path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	names := make([]string, 0, len(f.Sheets))
	for _, s := range f.Sheets {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "Profile")
	assert.Contains(t, names, "Income Statement")
	assert.Contains(t, names, "Daily Klines")
	assert.NotContains(t, names, "Balance Sheet", "empty record sets are skipped")

	income := f.Sheet["Income Statement"]
	require.NotNil(t, income)
	// Fields down, periods across, newest period first as reconciled.
	header := income.Rows[0]
	require.Len(t, header.Cells, 3)
	assert.Equal(t, "field", header.Cells[0].Value)
	assert.Equal(t, "2025-03-31 (FY)", header.Cells[1].Value)
	assert.Equal(t, "2024-03-31 (FY)", header.Cells[2].Value)

	var revenueRow bool
	for _, row := range income.Rows[1:] {
		if len(row.Cells) >= 3 && row.Cells[0].Value == "revenue" {
			assert.Equal(t, "4977", row.Cells[1].Value)
			assert.Equal(t, "5000", row.Cells[2].Value)
			revenueRow = true
		}
	}
	assert.True(t, revenueRow, "income sheet should carry the revenue row")

	profile := f.Sheet["Profile"]
	require.NotNil(t, profile)
	found := false
	for _, row := range profile.Rows {
		if len(row.Cells) >= 2 && row.Cells[0].Value == "symbol" {
			assert.Equal(t, "ACME", row.Cells[1].Value)
			found = true
		}
	}
	assert.True(t, found, "profile sheet should carry the symbol")
}

func TestWorkbook_SparsePeriodsAlign(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sparse.xlsx")

	wb := &Workbook{
		Stock: model.Stock{Symbol: "ACME"},
		Ratios: []model.StockRatio{
			{PeriodEnding: time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), PeriodType: model.PeriodFY, PERatio: fp(12.5)},
			{PeriodEnding: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), PeriodType: model.PeriodFY},
		},
	}
	require.NoError(t, wb.Write(path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	sheet := f.Sheet["Ratios"]
	require.NotNil(t, sheet)

	// One header plus one row per field in the union; the sparse second
	// period still gets a column.
	require.Greater(t, len(sheet.Rows), 2)
	require.Len(t, sheet.Rows[0].Cells, 3)
	for _, row := range sheet.Rows[1:] {
		assert.NotEmpty(t, row.Cells[0].Value, "field name column must be populated")
	}
}
