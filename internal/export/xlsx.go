// Package export writes a stock's stored financials to an xlsx workbook,
// one sheet per statement kind plus a profile sheet.
package export

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/equity-cli/internal/model"
)

// identityColumns lead every statement sheet; remaining columns are
// sorted by name.
var identityColumns = []string{"period_ending", "period_type"}

// Workbook collects everything one export writes.
type Workbook struct {
	Stock     model.Stock
	Incomes   []model.IncomeStatement
	Balances  []model.BalanceSheet
	CashFlows []model.CashFlow
	Ratios    []model.StockRatio
	Klines    []model.DailyKline
}

// Write saves the workbook to path. Empty record sets are skipped rather
// than written as empty sheets.
func (w *Workbook) Write(path string) error {
	f := xlsx.NewFile()

	if err := profileSheet(f, w.Stock); err != nil {
		return err
	}
	// Statement sheets mirror the source tables: fields down, periods across.
	for _, s := range []struct {
		name string
		recs []map[string]any
	}{
		{"Income Statement", toMaps(w.Incomes)},
		{"Balance Sheet", toMaps(w.Balances)},
		{"Cash Flow", toMaps(w.CashFlows)},
		{"Ratios", toMaps(w.Ratios)},
	} {
		if len(s.recs) == 0 {
			continue
		}
		if err := statementSheet(f, s.name, s.recs); err != nil {
			return err
		}
	}
	if klines := toMaps(w.Klines); len(klines) > 0 {
		if err := recordSheet(f, "Daily Klines", klines); err != nil {
			return err
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

// toMaps round-trips records through JSON so every sheet writer sees the
// same flat key/value shape the store persists.
func toMaps[T any](recs []T) []map[string]any {
	out := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		data, err := json.Marshal(rec)
		if err != nil {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			continue
		}
		out = append(out, m)
	}
	return out
}

func profileSheet(f *xlsx.File, stock model.Stock) error {
	sheet, err := f.AddSheet("Profile")
	if err != nil {
		return eris.Wrap(err, "export: add profile sheet")
	}
	for _, m := range toMaps([]model.Stock{stock}) {
		for _, key := range sortedKeys(m, nil) {
			row := sheet.AddRow()
			row.AddCell().Value = key
			setCell(row.AddCell(), m[key])
		}
	}
	return nil
}

// statementSheet writes one statement kind with periods as columns: the
// header row carries "period_ending (period_type)" labels in record order,
// each following row one field across all periods.
func statementSheet(f *xlsx.File, name string, recs []map[string]any) error {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "export: add sheet %s", name)
	}

	union := map[string]any{}
	for _, rec := range recs {
		for k, v := range rec {
			union[k] = v
		}
	}
	for _, id := range identityColumns {
		delete(union, id)
	}
	delete(union, "stock_id")
	fields := sortedKeys(union, nil)

	header := sheet.AddRow()
	header.AddCell().Value = "field"
	for _, rec := range recs {
		header.AddCell().Value = periodLabel(rec)
	}
	for _, field := range fields {
		row := sheet.AddRow()
		row.AddCell().Value = field
		for _, rec := range recs {
			setCell(row.AddCell(), rec[field])
		}
	}
	return nil
}

// periodLabel renders a column header like "2025-03-31 (FY)" from the
// record's identity values.
func periodLabel(rec map[string]any) string {
	ending, _ := rec["period_ending"].(string)
	if len(ending) > 10 {
		ending = ending[:10]
	}
	return fmt.Sprintf("%s (%v)", ending, rec["period_type"])
}

func recordSheet(f *xlsx.File, name string, recs []map[string]any) error {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "export: add sheet %s", name)
	}

	// Union of keys across records keeps sparse periods aligned.
	union := map[string]any{}
	for _, rec := range recs {
		for k, v := range rec {
			union[k] = v
		}
	}
	columns := sortedKeys(union, identityColumns)

	header := sheet.AddRow()
	for _, col := range columns {
		header.AddCell().Value = col
	}
	for _, rec := range recs {
		row := sheet.AddRow()
		for _, col := range columns {
			setCell(row.AddCell(), rec[col])
		}
	}
	return nil
}

// sortedKeys returns first (where present) followed by the remaining
// keys in sorted order.
func sortedKeys(m map[string]any, first []string) []string {
	keys := make([]string, 0, len(m))
	lead := map[string]bool{}
	for _, k := range first {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
			lead[k] = true
		}
	}
	rest := make([]string, 0, len(m))
	for k := range m {
		if !lead[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func setCell(cell *xlsx.Cell, v any) {
	switch val := v.(type) {
	case nil:
		// leave the cell blank
	case float64:
		cell.SetFloat(val)
	case bool:
		cell.SetBool(val)
	case string:
		cell.Value = val
	default:
		cell.Value = fmt.Sprint(val)
	}
}
