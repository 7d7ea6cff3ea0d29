// Package store persists normalized equity entities. Both backends keep
// the same contract: identity columns plus a JSON payload per row, with
// upserts that look up by identity and merge before writing, so a re-scrape
// never erases a non-null field with a null.
package store

import (
	"context"

	"github.com/sells-group/equity-cli/internal/model"
)

// Store defines the persistence interface for the ingestion pipeline and
// the read API.
type Store interface {
	// Stocks
	UpsertStock(ctx context.Context, stock model.Stock) (*model.Stock, error)
	GetStock(ctx context.Context, id int64) (*model.Stock, error)
	GetStockBySymbol(ctx context.Context, symbol string) (*model.Stock, error)
	ListStocks(ctx context.Context, page, limit int) ([]model.Stock, error)
	SearchStocks(ctx context.Context, query string, limit int) ([]model.Stock, error)

	// Financial statements, keyed (stock, kind, period_ending, period_type).
	UpsertIncome(ctx context.Context, stockID int64, rec model.IncomeStatement) error
	UpsertBalance(ctx context.Context, stockID int64, rec model.BalanceSheet) error
	UpsertCashFlow(ctx context.Context, stockID int64, rec model.CashFlow) error
	UpsertRatio(ctx context.Context, stockID int64, rec model.StockRatio) error
	ListIncomes(ctx context.Context, stockID int64) ([]model.IncomeStatement, error)
	ListBalances(ctx context.Context, stockID int64) ([]model.BalanceSheet, error)
	ListCashFlows(ctx context.Context, stockID int64) ([]model.CashFlow, error)
	ListRatios(ctx context.Context, stockID int64) ([]model.StockRatio, error)

	// Daily klines, keyed (stock, date).
	UpsertDailyKline(ctx context.Context, stockID int64, k model.DailyKline) error
	BulkUpsertDailyKlines(ctx context.Context, stockID int64, klines []model.DailyKline) (int64, error)
	ReplaceDailyKlines(ctx context.Context, stockID int64, klines []model.DailyKline) (int64, error)
	ListDailyKlines(ctx context.Context, stockID int64) ([]model.DailyKline, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
