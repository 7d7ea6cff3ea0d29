package ingest

import (
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/equity-cli/internal/fintable"
	"github.com/sells-group/equity-cli/internal/model"
	"github.com/sells-group/equity-cli/internal/profile"
	"github.com/sells-group/equity-cli/internal/statement"
)

// Options controls a parse run.
type Options struct {
	// Quarterly classifies undated statement columns as quarterly rows
	// instead of fiscal-year rows.
	Quarterly bool
	// AsOf stamps the price snapshot and the current-ratios row. Zero
	// means time.Now.
	AsOf time.Time
}

func (o Options) asOf() time.Time {
	if o.AsOf.IsZero() {
		return time.Now().UTC()
	}
	return o.AsOf.UTC()
}

func (o Options) fallback() model.PeriodType {
	if o.Quarterly {
		return model.PeriodQuarterly
	}
	return model.PeriodFY
}

// Result holds everything one snapshot parsed into, ready for the store.
type Result struct {
	Stock     model.Stock
	Price     model.DailyKline
	Incomes   []model.IncomeStatement
	Balances  []model.BalanceSheet
	CashFlows []model.CashFlow
	Ratios    []model.StockRatio
	Klines    []model.DailyKline
}

// Parse normalizes a raw snapshot. It is deterministic and touches no
// network or storage: the same snapshot always parses to the same result.
func Parse(snap *Snapshot, opts Options) *Result {
	log := zap.L().With(zap.String("symbol", snap.Symbol))

	stock := profile.Parse(snap.Profile, snap.Symbol)
	profile.Enrich(&stock, snap.Overview, snap.Statistics)

	rec := statement.NewReconciler()
	fallback := opts.fallback()
	// Sections run in a fixed order so re-scrapes reconcile deterministically.
	for _, s := range []struct {
		name string
		add  func(*fintable.Table, model.PeriodType)
	}{
		{SectionIncome, rec.AddIncome},
		{SectionBalance, rec.AddBalance},
		{SectionCashFlow, rec.AddCashFlow},
		{SectionRatios, rec.AddRatios},
	} {
		text, ok := snap.Sections[s.name]
		if !ok {
			continue
		}
		t := fintable.ParseText(text)
		if t.IsEmpty() {
			log.Debug("ingest: empty statement section", zap.String("section", s.name))
			continue
		}
		s.add(t, fallback)
	}
	rec.AddStatistics(snap.Statistics, opts.asOf())

	res := &Result{
		Stock:     stock,
		Price:     profile.PriceSnapshot(snap.Overview, snap.Statistics, opts.asOf()),
		Incomes:   rec.Incomes(),
		Balances:  rec.Balances(),
		CashFlows: rec.CashFlows(),
		Ratios:    rec.Ratios(),
		Klines:    snap.Klines,
	}

	log.Info("ingest: snapshot parsed",
		zap.Int("incomes", len(res.Incomes)),
		zap.Int("balances", len(res.Balances)),
		zap.Int("cashflows", len(res.CashFlows)),
		zap.Int("ratios", len(res.Ratios)),
		zap.Int("klines", len(res.Klines)),
	)
	return res
}
