package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/equity-cli/internal/db"
	"github.com/sells-group/equity-cli/internal/model"
	"github.com/sells-group/equity-cli/internal/parse"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool, used by tests.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS stocks (
	id           BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	symbol       TEXT NOT NULL UNIQUE,
	profile      JSONB NOT NULL DEFAULT '{}',
	last_updated TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS statements (
	stock_id      BIGINT NOT NULL REFERENCES stocks(id),
	kind          TEXT NOT NULL,
	period_ending TEXT NOT NULL,
	period_type   TEXT NOT NULL,
	data          JSONB NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE(stock_id, kind, period_ending, period_type)
);

CREATE TABLE IF NOT EXISTS daily_klines (
	stock_id BIGINT NOT NULL REFERENCES stocks(id),
	date     TEXT NOT NULL,
	data     JSONB NOT NULL,
	UNIQUE(stock_id, date)
);

CREATE INDEX IF NOT EXISTS idx_statements_stock_kind ON statements(stock_id, kind);
CREATE INDEX IF NOT EXISTS idx_daily_klines_stock_date ON daily_klines(stock_id, date);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) UpsertStock(ctx context.Context, stock model.Stock) (*model.Stock, error) {
	symbol := model.NormalizeSymbol(stock.Symbol)
	if symbol == "" {
		return nil, eris.New("postgres: upsert stock: empty symbol")
	}
	stock.Symbol = symbol
	now := time.Now().UTC()
	stock.LastUpdated = &now

	var (
		id       int64
		existing []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, profile FROM stocks WHERE symbol = $1`, symbol,
	).Scan(&id, &existing)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		payload, merr := json.Marshal(stock)
		if merr != nil {
			return nil, eris.Wrap(merr, "postgres: marshal stock")
		}
		if err := s.pool.QueryRow(ctx,
			`INSERT INTO stocks (symbol, profile, last_updated) VALUES ($1, $2, $3) RETURNING id`,
			symbol, payload, now,
		).Scan(&id); err != nil {
			return nil, eris.Wrapf(err, "postgres: insert stock %s", symbol)
		}
		stock.ID = id
		return &stock, nil
	case err != nil:
		return nil, eris.Wrapf(err, "postgres: lookup stock %s", symbol)
	}

	stock.ID = id
	payload, err := json.Marshal(stock)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal stock")
	}
	merged, err := db.MergeJSON(existing, payload)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: merge stock %s", symbol)
	}
	if _, err := s.pool.Exec(ctx,
		`UPDATE stocks SET profile = $1, last_updated = $2 WHERE id = $3`,
		merged, now, id,
	); err != nil {
		return nil, eris.Wrapf(err, "postgres: update stock %s", symbol)
	}

	var out model.Stock
	if err := json.Unmarshal(merged, &out); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal stock")
	}
	out.ID = id
	return &out, nil
}

func (s *PostgresStore) GetStock(ctx context.Context, id int64) (*model.Stock, error) {
	return s.scanStock(s.pool.QueryRow(ctx,
		`SELECT id, profile FROM stocks WHERE id = $1`, id))
}

func (s *PostgresStore) GetStockBySymbol(ctx context.Context, symbol string) (*model.Stock, error) {
	return s.scanStock(s.pool.QueryRow(ctx,
		`SELECT id, profile FROM stocks WHERE symbol = $1`, model.NormalizeSymbol(symbol)))
}

func (s *PostgresStore) scanStock(row pgx.Row) (*model.Stock, error) {
	var (
		id      int64
		profile []byte
	)
	err := row.Scan(&id, &profile)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan stock")
	}
	var stock model.Stock
	if err := json.Unmarshal(profile, &stock); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal stock")
	}
	stock.ID = id
	return &stock, nil
}

func (s *PostgresStore) ListStocks(ctx context.Context, page, limit int) ([]model.Stock, error) {
	if page < 1 {
		page = 1
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, profile FROM stocks ORDER BY id LIMIT $1 OFFSET $2`,
		limit, (page-1)*limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list stocks")
	}
	return collectPgStocks(rows)
}

func (s *PostgresStore) SearchStocks(ctx context.Context, query string, limit int) ([]model.Stock, error) {
	like := "%" + query + "%"
	rows, err := s.pool.Query(ctx,
		`SELECT id, profile FROM stocks WHERE symbol ILIKE $1 OR profile::text ILIKE $1 ORDER BY symbol LIMIT $2`,
		like, limit,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: search stocks %q", query)
	}
	return collectPgStocks(rows)
}

func collectPgStocks(rows pgx.Rows) ([]model.Stock, error) {
	defer rows.Close()
	var stocks []model.Stock
	for rows.Next() {
		var (
			id      int64
			profile []byte
		)
		if err := rows.Scan(&id, &profile); err != nil {
			return nil, eris.Wrap(err, "postgres: scan stock row")
		}
		var stock model.Stock
		if err := json.Unmarshal(profile, &stock); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal stock row")
		}
		stock.ID = id
		stocks = append(stocks, stock)
	}
	return stocks, eris.Wrap(rows.Err(), "postgres: iterate stocks")
}

// upsertStatement carries the same merge contract as the SQLite backend.
func (s *PostgresStore) upsertStatement(ctx context.Context, stockID int64, kind model.StatementKind, ending string, ptype model.PeriodType, payload []byte) error {
	var (
		existing []byte
		err      error
	)
	if ptype == model.PeriodCurrent {
		err = s.pool.QueryRow(ctx,
			`SELECT data FROM statements WHERE stock_id = $1 AND kind = $2 AND period_type = $3`,
			stockID, string(kind), string(ptype),
		).Scan(&existing)
	} else {
		err = s.pool.QueryRow(ctx,
			`SELECT data FROM statements WHERE stock_id = $1 AND kind = $2 AND period_ending = $3 AND period_type = $4`,
			stockID, string(kind), ending, string(ptype),
		).Scan(&existing)
	}

	now := time.Now().UTC()
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		_, err = s.pool.Exec(ctx,
			`INSERT INTO statements (stock_id, kind, period_ending, period_type, data, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
			stockID, string(kind), ending, string(ptype), payload, now,
		)
		return eris.Wrapf(err, "postgres: insert %s %s", kind, ending)
	case err != nil:
		return eris.Wrapf(err, "postgres: lookup %s %s", kind, ending)
	}

	merged, err := db.MergeJSON(existing, payload)
	if err != nil {
		return eris.Wrapf(err, "postgres: merge %s %s", kind, ending)
	}
	if ptype == model.PeriodCurrent {
		_, err = s.pool.Exec(ctx,
			`UPDATE statements SET period_ending = $1, data = $2, updated_at = $3 WHERE stock_id = $4 AND kind = $5 AND period_type = $6`,
			ending, merged, now, stockID, string(kind), string(ptype),
		)
	} else {
		_, err = s.pool.Exec(ctx,
			`UPDATE statements SET data = $1, updated_at = $2 WHERE stock_id = $3 AND kind = $4 AND period_ending = $5 AND period_type = $6`,
			merged, now, stockID, string(kind), ending, string(ptype),
		)
	}
	return eris.Wrapf(err, "postgres: update %s %s", kind, ending)
}

func (s *PostgresStore) UpsertIncome(ctx context.Context, stockID int64, rec model.IncomeStatement) error {
	rec.StockID = stockID
	payload, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal income")
	}
	return s.upsertStatement(ctx, stockID, model.KindIncome, parse.DateString(rec.PeriodEnding), rec.PeriodType, payload)
}

func (s *PostgresStore) UpsertBalance(ctx context.Context, stockID int64, rec model.BalanceSheet) error {
	rec.StockID = stockID
	payload, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal balance")
	}
	return s.upsertStatement(ctx, stockID, model.KindBalance, parse.DateString(rec.PeriodEnding), rec.PeriodType, payload)
}

func (s *PostgresStore) UpsertCashFlow(ctx context.Context, stockID int64, rec model.CashFlow) error {
	rec.StockID = stockID
	payload, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal cashflow")
	}
	return s.upsertStatement(ctx, stockID, model.KindCashFlow, parse.DateString(rec.PeriodEnding), rec.PeriodType, payload)
}

func (s *PostgresStore) UpsertRatio(ctx context.Context, stockID int64, rec model.StockRatio) error {
	rec.StockID = stockID
	payload, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal ratio")
	}
	return s.upsertStatement(ctx, stockID, model.KindRatios, parse.DateString(rec.PeriodEnding), rec.PeriodType, payload)
}

func (s *PostgresStore) statementData(ctx context.Context, stockID int64, kind model.StatementKind) ([][]byte, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM statements WHERE stock_id = $1 AND kind = $2 ORDER BY period_ending DESC, period_type`,
		stockID, string(kind),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list %s", kind)
	}
	defer rows.Close()
	var payloads [][]byte
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrapf(err, "postgres: scan %s", kind)
		}
		payloads = append(payloads, data)
	}
	return payloads, eris.Wrapf(rows.Err(), "postgres: iterate %s", kind)
}

func (s *PostgresStore) ListIncomes(ctx context.Context, stockID int64) ([]model.IncomeStatement, error) {
	payloads, err := s.statementData(ctx, stockID, model.KindIncome)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.IncomeStatement](payloads)
}

func (s *PostgresStore) ListBalances(ctx context.Context, stockID int64) ([]model.BalanceSheet, error) {
	payloads, err := s.statementData(ctx, stockID, model.KindBalance)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.BalanceSheet](payloads)
}

func (s *PostgresStore) ListCashFlows(ctx context.Context, stockID int64) ([]model.CashFlow, error) {
	payloads, err := s.statementData(ctx, stockID, model.KindCashFlow)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.CashFlow](payloads)
}

func (s *PostgresStore) ListRatios(ctx context.Context, stockID int64) ([]model.StockRatio, error) {
	payloads, err := s.statementData(ctx, stockID, model.KindRatios)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.StockRatio](payloads)
}

func (s *PostgresStore) UpsertDailyKline(ctx context.Context, stockID int64, k model.DailyKline) error {
	if k.Date == "" {
		return eris.New("postgres: upsert kline: empty date")
	}
	k.StockID = stockID
	payload, err := json.Marshal(k)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal kline")
	}

	var existing []byte
	err = s.pool.QueryRow(ctx,
		`SELECT data FROM daily_klines WHERE stock_id = $1 AND date = $2`,
		stockID, k.Date,
	).Scan(&existing)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		_, err = s.pool.Exec(ctx,
			`INSERT INTO daily_klines (stock_id, date, data) VALUES ($1, $2, $3)`,
			stockID, k.Date, payload,
		)
		return eris.Wrapf(err, "postgres: insert kline %s", k.Date)
	case err != nil:
		return eris.Wrapf(err, "postgres: lookup kline %s", k.Date)
	}

	merged, err := db.MergeJSON(existing, payload)
	if err != nil {
		return eris.Wrapf(err, "postgres: merge kline %s", k.Date)
	}
	_, err = s.pool.Exec(ctx,
		`UPDATE daily_klines SET data = $1 WHERE stock_id = $2 AND date = $3`,
		merged, stockID, k.Date,
	)
	return eris.Wrapf(err, "postgres: update kline %s", k.Date)
}

func klineRows(stockID int64, klines []model.DailyKline) ([][]any, error) {
	rows := make([][]any, 0, len(klines))
	for _, k := range klines {
		if k.Date == "" {
			continue
		}
		k.StockID = stockID
		payload, err := json.Marshal(k)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: marshal kline")
		}
		rows = append(rows, []any{stockID, k.Date, payload})
	}
	return rows, nil
}

func (s *PostgresStore) BulkUpsertDailyKlines(ctx context.Context, stockID int64, klines []model.DailyKline) (int64, error) {
	rows, err := klineRows(stockID, klines)
	if err != nil {
		return 0, err
	}
	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "daily_klines",
		Columns:      []string{"stock_id", "date", "data"},
		ConflictKeys: []string{"stock_id", "date"},
		MergeCols:    []string{"data"},
	}, rows)
}

func (s *PostgresStore) ReplaceDailyKlines(ctx context.Context, stockID int64, klines []model.DailyKline) (int64, error) {
	rows, err := klineRows(stockID, klines)
	if err != nil {
		return 0, err
	}
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM daily_klines WHERE stock_id = $1`, stockID,
	); err != nil {
		return 0, eris.Wrap(err, "postgres: clear klines")
	}
	return db.CopyFrom(ctx, s.pool, "daily_klines", []string{"stock_id", "date", "data"}, rows)
}

func (s *PostgresStore) ListDailyKlines(ctx context.Context, stockID int64) ([]model.DailyKline, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM daily_klines WHERE stock_id = $1 ORDER BY date ASC`,
		stockID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list klines")
	}
	defer rows.Close()
	var klines []model.DailyKline
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan kline")
		}
		var k model.DailyKline
		if err := json.Unmarshal(data, &k); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal kline")
		}
		klines = append(klines, k)
	}
	return klines, eris.Wrap(rows.Err(), "postgres: iterate klines")
}
