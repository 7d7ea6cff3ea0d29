package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/equity-cli/internal/db"
	"github.com/sells-group/equity-cli/internal/model"
	"github.com/sells-group/equity-cli/internal/parse"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	sdb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := sdb.Exec(pragma); err != nil {
			sdb.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: sdb}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS stocks (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol       TEXT NOT NULL UNIQUE,
	profile      TEXT NOT NULL DEFAULT '{}',
	last_updated DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS statements (
	stock_id      INTEGER NOT NULL REFERENCES stocks(id),
	kind          TEXT NOT NULL,
	period_ending TEXT NOT NULL,
	period_type   TEXT NOT NULL,
	data          TEXT NOT NULL,
	updated_at    DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE(stock_id, kind, period_ending, period_type)
);

CREATE TABLE IF NOT EXISTS daily_klines (
	stock_id INTEGER NOT NULL REFERENCES stocks(id),
	date     TEXT NOT NULL,
	data     TEXT NOT NULL,
	UNIQUE(stock_id, date)
);

CREATE INDEX IF NOT EXISTS idx_statements_stock_kind ON statements(stock_id, kind);
CREATE INDEX IF NOT EXISTS idx_daily_klines_stock_date ON daily_klines(stock_id, date);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertStock(ctx context.Context, stock model.Stock) (*model.Stock, error) {
	symbol := model.NormalizeSymbol(stock.Symbol)
	if symbol == "" {
		return nil, eris.New("sqlite: upsert stock: empty symbol")
	}
	stock.Symbol = symbol
	now := time.Now().UTC()
	stock.LastUpdated = &now

	var (
		id       int64
		existing []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, profile FROM stocks WHERE symbol = ?`, symbol,
	).Scan(&id, &existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		payload, merr := json.Marshal(stock)
		if merr != nil {
			return nil, eris.Wrap(merr, "sqlite: marshal stock")
		}
		res, ierr := s.db.ExecContext(ctx,
			`INSERT INTO stocks (symbol, profile, last_updated) VALUES (?, ?, ?)`,
			symbol, string(payload), now,
		)
		if ierr != nil {
			return nil, eris.Wrapf(ierr, "sqlite: insert stock %s", symbol)
		}
		if id, ierr = res.LastInsertId(); ierr != nil {
			return nil, eris.Wrap(ierr, "sqlite: stock insert id")
		}
		stock.ID = id
		return &stock, nil
	case err != nil:
		return nil, eris.Wrapf(err, "sqlite: lookup stock %s", symbol)
	}

	stock.ID = id
	payload, err := json.Marshal(stock)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal stock")
	}
	merged, err := db.MergeJSON(existing, payload)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: merge stock %s", symbol)
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE stocks SET profile = ?, last_updated = ? WHERE id = ?`,
		string(merged), now, id,
	); err != nil {
		return nil, eris.Wrapf(err, "sqlite: update stock %s", symbol)
	}

	var out model.Stock
	if err := json.Unmarshal(merged, &out); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal stock")
	}
	out.ID = id
	return &out, nil
}

func (s *SQLiteStore) GetStock(ctx context.Context, id int64) (*model.Stock, error) {
	return s.scanStock(s.db.QueryRowContext(ctx,
		`SELECT id, profile FROM stocks WHERE id = ?`, id))
}

func (s *SQLiteStore) GetStockBySymbol(ctx context.Context, symbol string) (*model.Stock, error) {
	return s.scanStock(s.db.QueryRowContext(ctx,
		`SELECT id, profile FROM stocks WHERE symbol = ?`, model.NormalizeSymbol(symbol)))
}

func (s *SQLiteStore) scanStock(row *sql.Row) (*model.Stock, error) {
	var (
		id      int64
		profile []byte
	)
	err := row.Scan(&id, &profile)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan stock")
	}
	var stock model.Stock
	if err := json.Unmarshal(profile, &stock); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal stock")
	}
	stock.ID = id
	return &stock, nil
}

func (s *SQLiteStore) ListStocks(ctx context.Context, page, limit int) ([]model.Stock, error) {
	if page < 1 {
		page = 1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, profile FROM stocks ORDER BY id LIMIT ? OFFSET ?`,
		limit, (page-1)*limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list stocks")
	}
	return collectStocks(rows)
}

func (s *SQLiteStore) SearchStocks(ctx context.Context, query string, limit int) ([]model.Stock, error) {
	like := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, profile FROM stocks WHERE symbol LIKE ? OR profile LIKE ? ORDER BY symbol LIMIT ?`,
		like, like, limit,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: search stocks %q", query)
	}
	return collectStocks(rows)
}

func collectStocks(rows *sql.Rows) ([]model.Stock, error) {
	defer rows.Close()
	var stocks []model.Stock
	for rows.Next() {
		var (
			id      int64
			profile []byte
		)
		if err := rows.Scan(&id, &profile); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan stock row")
		}
		var stock model.Stock
		if err := json.Unmarshal(profile, &stock); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal stock row")
		}
		stock.ID = id
		stocks = append(stocks, stock)
	}
	return stocks, eris.Wrap(rows.Err(), "sqlite: iterate stocks")
}

// upsertStatement looks up the row by identity, merges the incoming
// payload over the stored one, and writes back. A "current" period type is
// singular per (stock, kind): the lookup ignores period_ending and the
// stored row's date advances to the incoming one.
func (s *SQLiteStore) upsertStatement(ctx context.Context, stockID int64, kind model.StatementKind, ending string, ptype model.PeriodType, payload []byte) error {
	var (
		existing []byte
		err      error
	)
	if ptype == model.PeriodCurrent {
		err = s.db.QueryRowContext(ctx,
			`SELECT data FROM statements WHERE stock_id = ? AND kind = ? AND period_type = ?`,
			stockID, string(kind), string(ptype),
		).Scan(&existing)
	} else {
		err = s.db.QueryRowContext(ctx,
			`SELECT data FROM statements WHERE stock_id = ? AND kind = ? AND period_ending = ? AND period_type = ?`,
			stockID, string(kind), ending, string(ptype),
		).Scan(&existing)
	}

	now := time.Now().UTC()
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO statements (stock_id, kind, period_ending, period_type, data, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
			stockID, string(kind), ending, string(ptype), string(payload), now,
		)
		return eris.Wrapf(err, "sqlite: insert %s %s", kind, ending)
	case err != nil:
		return eris.Wrapf(err, "sqlite: lookup %s %s", kind, ending)
	}

	merged, err := db.MergeJSON(existing, payload)
	if err != nil {
		return eris.Wrapf(err, "sqlite: merge %s %s", kind, ending)
	}
	if ptype == model.PeriodCurrent {
		_, err = s.db.ExecContext(ctx,
			`UPDATE statements SET period_ending = ?, data = ?, updated_at = ? WHERE stock_id = ? AND kind = ? AND period_type = ?`,
			ending, string(merged), now, stockID, string(kind), string(ptype),
		)
	} else {
		_, err = s.db.ExecContext(ctx,
			`UPDATE statements SET data = ?, updated_at = ? WHERE stock_id = ? AND kind = ? AND period_ending = ? AND period_type = ?`,
			string(merged), now, stockID, string(kind), ending, string(ptype),
		)
	}
	return eris.Wrapf(err, "sqlite: update %s %s", kind, ending)
}

func (s *SQLiteStore) UpsertIncome(ctx context.Context, stockID int64, rec model.IncomeStatement) error {
	rec.StockID = stockID
	payload, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal income")
	}
	return s.upsertStatement(ctx, stockID, model.KindIncome, parse.DateString(rec.PeriodEnding), rec.PeriodType, payload)
}

func (s *SQLiteStore) UpsertBalance(ctx context.Context, stockID int64, rec model.BalanceSheet) error {
	rec.StockID = stockID
	payload, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal balance")
	}
	return s.upsertStatement(ctx, stockID, model.KindBalance, parse.DateString(rec.PeriodEnding), rec.PeriodType, payload)
}

func (s *SQLiteStore) UpsertCashFlow(ctx context.Context, stockID int64, rec model.CashFlow) error {
	rec.StockID = stockID
	payload, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal cashflow")
	}
	return s.upsertStatement(ctx, stockID, model.KindCashFlow, parse.DateString(rec.PeriodEnding), rec.PeriodType, payload)
}

func (s *SQLiteStore) UpsertRatio(ctx context.Context, stockID int64, rec model.StockRatio) error {
	rec.StockID = stockID
	payload, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal ratio")
	}
	return s.upsertStatement(ctx, stockID, model.KindRatios, parse.DateString(rec.PeriodEnding), rec.PeriodType, payload)
}

func (s *SQLiteStore) statementData(ctx context.Context, stockID int64, kind model.StatementKind) ([][]byte, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM statements WHERE stock_id = ? AND kind = ? ORDER BY period_ending DESC, period_type`,
		stockID, string(kind),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list %s", kind)
	}
	defer rows.Close()
	var payloads [][]byte
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrapf(err, "sqlite: scan %s", kind)
		}
		payloads = append(payloads, data)
	}
	return payloads, eris.Wrapf(rows.Err(), "sqlite: iterate %s", kind)
}

func (s *SQLiteStore) ListIncomes(ctx context.Context, stockID int64) ([]model.IncomeStatement, error) {
	payloads, err := s.statementData(ctx, stockID, model.KindIncome)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.IncomeStatement](payloads)
}

func (s *SQLiteStore) ListBalances(ctx context.Context, stockID int64) ([]model.BalanceSheet, error) {
	payloads, err := s.statementData(ctx, stockID, model.KindBalance)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.BalanceSheet](payloads)
}

func (s *SQLiteStore) ListCashFlows(ctx context.Context, stockID int64) ([]model.CashFlow, error) {
	payloads, err := s.statementData(ctx, stockID, model.KindCashFlow)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.CashFlow](payloads)
}

func (s *SQLiteStore) ListRatios(ctx context.Context, stockID int64) ([]model.StockRatio, error) {
	payloads, err := s.statementData(ctx, stockID, model.KindRatios)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.StockRatio](payloads)
}

func decodeAll[T any](payloads [][]byte) ([]T, error) {
	out := make([]T, 0, len(payloads))
	for _, p := range payloads {
		var rec T
		if err := json.Unmarshal(p, &rec); err != nil {
			return nil, eris.Wrap(err, "store: unmarshal statement")
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *SQLiteStore) UpsertDailyKline(ctx context.Context, stockID int64, k model.DailyKline) error {
	return s.upsertKlineExec(ctx, s.db, stockID, k)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLiteStore) upsertKlineExec(ctx context.Context, ex execer, stockID int64, k model.DailyKline) error {
	if k.Date == "" {
		return eris.New("sqlite: upsert kline: empty date")
	}
	k.StockID = stockID
	payload, err := json.Marshal(k)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal kline")
	}

	var existing []byte
	err = ex.QueryRowContext(ctx,
		`SELECT data FROM daily_klines WHERE stock_id = ? AND date = ?`,
		stockID, k.Date,
	).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = ex.ExecContext(ctx,
			`INSERT INTO daily_klines (stock_id, date, data) VALUES (?, ?, ?)`,
			stockID, k.Date, string(payload),
		)
		return eris.Wrapf(err, "sqlite: insert kline %s", k.Date)
	case err != nil:
		return eris.Wrapf(err, "sqlite: lookup kline %s", k.Date)
	}

	merged, err := db.MergeJSON(existing, payload)
	if err != nil {
		return eris.Wrapf(err, "sqlite: merge kline %s", k.Date)
	}
	_, err = ex.ExecContext(ctx,
		`UPDATE daily_klines SET data = ? WHERE stock_id = ? AND date = ?`,
		string(merged), stockID, k.Date,
	)
	return eris.Wrapf(err, "sqlite: update kline %s", k.Date)
}

func (s *SQLiteStore) BulkUpsertDailyKlines(ctx context.Context, stockID int64, klines []model.DailyKline) (int64, error) {
	if len(klines) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin kline upsert")
	}
	defer tx.Rollback()

	var n int64
	for _, k := range klines {
		if err := s.upsertKlineExec(ctx, tx, stockID, k); err != nil {
			return 0, err
		}
		n++
	}
	return n, eris.Wrap(tx.Commit(), "sqlite: commit kline upsert")
}

func (s *SQLiteStore) ReplaceDailyKlines(ctx context.Context, stockID int64, klines []model.DailyKline) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin kline replace")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM daily_klines WHERE stock_id = ?`, stockID,
	); err != nil {
		return 0, eris.Wrap(err, "sqlite: clear klines")
	}

	var n int64
	for _, k := range klines {
		if k.Date == "" {
			continue
		}
		k.StockID = stockID
		payload, merr := json.Marshal(k)
		if merr != nil {
			return 0, eris.Wrap(merr, "sqlite: marshal kline")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO daily_klines (stock_id, date, data) VALUES (?, ?, ?)`,
			stockID, k.Date, string(payload),
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert kline %s", k.Date)
		}
		n++
	}
	return n, eris.Wrap(tx.Commit(), "sqlite: commit kline replace")
}

func (s *SQLiteStore) ListDailyKlines(ctx context.Context, stockID int64) ([]model.DailyKline, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM daily_klines WHERE stock_id = ? ORDER BY date ASC`,
		stockID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list klines")
	}
	defer rows.Close()
	var klines []model.DailyKline
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan kline")
		}
		var k model.DailyKline
		if err := json.Unmarshal(data, &k); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal kline")
		}
		klines = append(klines, k)
	}
	return klines, eris.Wrap(rows.Err(), "sqlite: iterate klines")
}
