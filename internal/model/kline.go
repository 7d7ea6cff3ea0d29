package model

import "github.com/shopspring/decimal"

// DailyKline is one OHLCV candle for a symbol on one date, keyed by
// (stock_id, date). The valuation snapshot fields, when present, come from
// the same day's feed and are never recomputed.
type DailyKline struct {
	StockID int64  `json:"stock_id"`
	Date    string `json:"date"` // YYYY-MM-DD

	Open      *float64 `json:"open"`
	High      *float64 `json:"high"`
	Low       *float64 `json:"low"`
	Close     *float64 `json:"close"`
	Volume    *int64   `json:"volume"`
	Turnover  *float64 `json:"turnover,omitempty"`
	Timestamp *int64   `json:"timestamp,omitempty"` // feed epoch millis

	// Technicals, same-day feed values.
	RSI    *float64 `json:"rsi,omitempty"`
	MA50D  *float64 `json:"ma_50d,omitempty"`
	MA200D *float64 `json:"ma_200d,omitempty"`
	Beta   *float64 `json:"beta,omitempty"`

	// Valuation snapshot, same-day feed values.
	Week52High       *float64         `json:"week_52_high,omitempty"`
	Week52Low        *float64         `json:"week_52_low,omitempty"`
	AvgVolume20D     *int64           `json:"avg_volume_20d,omitempty"`
	MarketCap        *decimal.Decimal `json:"market_cap,omitempty"`
	EnterpriseValue  *decimal.Decimal `json:"enterprise_value,omitempty"`
	PERatio          *float64         `json:"pe_ratio,omitempty"`
	ForwardPE        *float64         `json:"forward_pe,omitempty"`
	PSRatio          *float64         `json:"ps_ratio,omitempty"`
	PBRatio          *float64         `json:"pb_ratio,omitempty"`
	DividendPerShare *float64         `json:"dividend_per_share,omitempty"`
	DividendYield    *float64         `json:"dividend_yield,omitempty"`
	ExDividendDate   string           `json:"ex_dividend_date,omitempty"`
}

// Candle is one aggregated OHLCV bucket in an API response. Aggregates are
// built through safe-float coercion, so values are plain floats, not
// pointers; inclusion decisions happen before coercion.
type Candle struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// KlineResponse is the aggregated kline payload served to API callers.
type KlineResponse struct {
	StockID  int64    `json:"stock_id"`
	Symbol   string   `json:"symbol"`
	Interval string   `json:"interval"`
	Klines   []Candle `json:"klines"`
}
