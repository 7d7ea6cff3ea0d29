package statement

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/equity-cli/internal/fintable"
	"github.com/sells-group/equity-cli/internal/model"
	"github.com/sells-group/equity-cli/internal/parse"
)

// Reconciler accumulates statement records across sections and fiscal
// modes, merging by (period ending, period type). Adding a table whose
// period already exists fills and refreshes that record's fields; a cell
// that fails to parse never blanks out a previously captured value.
type Reconciler struct {
	incomes   map[model.PeriodKey]*model.IncomeStatement
	balances  map[model.PeriodKey]*model.BalanceSheet
	cashflows map[model.PeriodKey]*model.CashFlow
	ratios    map[model.PeriodKey]*model.StockRatio

	incomeOrder   []model.PeriodKey
	balanceOrder  []model.PeriodKey
	cashflowOrder []model.PeriodKey
	ratioOrder    []model.PeriodKey
}

func NewReconciler() *Reconciler {
	return &Reconciler{
		incomes:   make(map[model.PeriodKey]*model.IncomeStatement),
		balances:  make(map[model.PeriodKey]*model.BalanceSheet),
		cashflows: make(map[model.PeriodKey]*model.CashFlow),
		ratios:    make(map[model.PeriodKey]*model.StockRatio),
	}
}

// forEachPeriod walks a table's period columns, keying each by its parsed
// ending date and classified type. Columns whose key does not parse as a
// date carry no usable identity and are dropped.
func forEachPeriod(t *fintable.Table, fallback model.PeriodType, fn func(model.PeriodKey, string)) {
	if t.IsEmpty() {
		return
	}
	for _, p := range t.Periods {
		d := parse.Date(p)
		if d == nil {
			zap.L().Debug("statement: dropping unparseable period key", zap.String("period", p))
			continue
		}
		fn(model.PeriodKey{Ending: *d, Type: model.ClassifyPeriod(p, fallback)}, p)
	}
}

// AddIncome folds one tokenized income table into the reconciler. fallback
// is the period type for date-keyed columns: FY for the fiscal-year pages,
// quarterly for the quarterly pages.
func (r *Reconciler) AddIncome(t *fintable.Table, fallback model.PeriodType) {
	forEachPeriod(t, fallback, func(key model.PeriodKey, period string) {
		rec, ok := r.incomes[key]
		if !ok {
			rec = &model.IncomeStatement{PeriodEnding: key.Ending, PeriodType: key.Type}
			r.incomes[key] = rec
			r.incomeOrder = append(r.incomeOrder, key)
		}
		for _, b := range bindings.Income {
			if raw, ok := t.Lookup(b.Label, period); ok {
				incomeSetters[b.Field](rec, raw)
			}
		}
	})
}

// AddBalance folds one tokenized balance-sheet table into the reconciler.
func (r *Reconciler) AddBalance(t *fintable.Table, fallback model.PeriodType) {
	forEachPeriod(t, fallback, func(key model.PeriodKey, period string) {
		rec, ok := r.balances[key]
		if !ok {
			rec = &model.BalanceSheet{PeriodEnding: key.Ending, PeriodType: key.Type}
			r.balances[key] = rec
			r.balanceOrder = append(r.balanceOrder, key)
		}
		for _, b := range bindings.Balance {
			if raw, ok := t.Lookup(b.Label, period); ok {
				balanceSetters[b.Field](rec, raw)
			}
		}
	})
}

// AddCashFlow folds one tokenized cash-flow table into the reconciler.
func (r *Reconciler) AddCashFlow(t *fintable.Table, fallback model.PeriodType) {
	forEachPeriod(t, fallback, func(key model.PeriodKey, period string) {
		rec, ok := r.cashflows[key]
		if !ok {
			rec = &model.CashFlow{PeriodEnding: key.Ending, PeriodType: key.Type}
			r.cashflows[key] = rec
			r.cashflowOrder = append(r.cashflowOrder, key)
		}
		for _, b := range bindings.CashFlow {
			if raw, ok := t.Lookup(b.Label, period); ok {
				cashflowSetters[b.Field](rec, raw)
			}
		}
	})
}

// AddRatios folds one tokenized ratio table into the reconciler.
func (r *Reconciler) AddRatios(t *fintable.Table, fallback model.PeriodType) {
	forEachPeriod(t, fallback, func(key model.PeriodKey, period string) {
		rec, ok := r.ratios[key]
		if !ok {
			rec = &model.StockRatio{PeriodEnding: key.Ending, PeriodType: key.Type}
			r.ratios[key] = rec
			r.ratioOrder = append(r.ratioOrder, key)
		}
		for _, b := range bindings.Ratios {
			if raw, ok := t.Lookup(b.Label, period); ok {
				ratioSetters[b.Field](rec, raw)
			}
		}
	})
}

// AddStatistics builds the live "current" snapshot from the statistics
// page's key/value pairs, stamped with the scrape date. There is at most
// one current row per stock; re-adding refreshes it in place.
func (r *Reconciler) AddStatistics(kv map[string]string, asOf time.Time) {
	if len(kv) == 0 {
		return
	}
	key := model.PeriodKey{Ending: asOf, Type: model.PeriodCurrent}
	rec, ok := r.ratios[key]
	if !ok {
		rec = &model.StockRatio{PeriodEnding: asOf, PeriodType: model.PeriodCurrent}
		r.ratios[key] = rec
		r.ratioOrder = append(r.ratioOrder, key)
	}
	for _, b := range bindings.Statistics {
		if raw, ok := lookupKV(kv, b.Label); ok {
			statisticsSetters[b.Field](rec, raw)
		}
	}
}

// lookupKV resolves a statistics label against scraped key/value pairs:
// exact match, then caseless substring in either direction. Fuzzy
// candidates are scanned in sorted key order so a label matching two
// scraped keys always resolves to the same one.
func lookupKV(kv map[string]string, label string) (string, bool) {
	if v, ok := kv[label]; ok {
		return v, true
	}
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if fintable.FoldContains(k, label) || fintable.FoldContains(label, k) {
			return kv[k], true
		}
	}
	return "", false
}

// Incomes returns the reconciled income statements in first-seen period order.
func (r *Reconciler) Incomes() []model.IncomeStatement {
	out := make([]model.IncomeStatement, 0, len(r.incomeOrder))
	for _, k := range r.incomeOrder {
		out = append(out, *r.incomes[k])
	}
	return out
}

// Balances returns the reconciled balance sheets in first-seen period order.
func (r *Reconciler) Balances() []model.BalanceSheet {
	out := make([]model.BalanceSheet, 0, len(r.balanceOrder))
	for _, k := range r.balanceOrder {
		out = append(out, *r.balances[k])
	}
	return out
}

// CashFlows returns the reconciled cash flows in first-seen period order.
func (r *Reconciler) CashFlows() []model.CashFlow {
	out := make([]model.CashFlow, 0, len(r.cashflowOrder))
	for _, k := range r.cashflowOrder {
		out = append(out, *r.cashflows[k])
	}
	return out
}

// Ratios returns the reconciled ratio rows in first-seen period order.
func (r *Reconciler) Ratios() []model.StockRatio {
	out := make([]model.StockRatio, 0, len(r.ratioOrder))
	for _, k := range r.ratioOrder {
		out = append(out, *r.ratios[k])
	}
	return out
}
