package ingest

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/equity-cli/internal/store"
)

// Persist writes one parsed result through the store inside a single
// logical pass: the stock row first, so its id anchors everything else,
// then statements, the price snapshot, and the kline feed rows. A price
// snapshot with no close price is dropped rather than written as an
// empty candle.
func Persist(ctx context.Context, st store.Store, res *Result) (int64, error) {
	stock, err := st.UpsertStock(ctx, res.Stock)
	if err != nil {
		return 0, eris.Wrapf(err, "ingest: upsert stock %s", res.Stock.Symbol)
	}
	log := zap.L().With(zap.String("symbol", stock.Symbol), zap.Int64("stock_id", stock.ID))

	for _, rec := range res.Incomes {
		if err := st.UpsertIncome(ctx, stock.ID, rec); err != nil {
			return stock.ID, eris.Wrap(err, "ingest: upsert income")
		}
	}
	for _, rec := range res.Balances {
		if err := st.UpsertBalance(ctx, stock.ID, rec); err != nil {
			return stock.ID, eris.Wrap(err, "ingest: upsert balance")
		}
	}
	for _, rec := range res.CashFlows {
		if err := st.UpsertCashFlow(ctx, stock.ID, rec); err != nil {
			return stock.ID, eris.Wrap(err, "ingest: upsert cash flow")
		}
	}
	for _, rec := range res.Ratios {
		if err := st.UpsertRatio(ctx, stock.ID, rec); err != nil {
			return stock.ID, eris.Wrap(err, "ingest: upsert ratios")
		}
	}

	if res.Price.Close != nil {
		if err := st.UpsertDailyKline(ctx, stock.ID, res.Price); err != nil {
			return stock.ID, eris.Wrap(err, "ingest: upsert price snapshot")
		}
	} else {
		log.Debug("ingest: no close price, skipping snapshot")
	}

	if len(res.Klines) > 0 {
		n, err := st.BulkUpsertDailyKlines(ctx, stock.ID, res.Klines)
		if err != nil {
			return stock.ID, eris.Wrap(err, "ingest: upsert kline feed")
		}
		log.Debug("ingest: kline feed written", zap.Int64("rows", n))
	}

	return stock.ID, nil
}
