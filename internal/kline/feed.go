package kline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/equity-cli/internal/model"
)

// feedEnvelope is the upstream kline API payload: a status code plus an
// array of compact candle rows.
type feedEnvelope struct {
	Code int       `json:"code"`
	Msg  string    `json:"msg"`
	Data []feedRow `json:"data"`
}

type feedRow struct {
	T  *int64   `json:"t"` // epoch milliseconds
	O  *float64 `json:"o"`
	H  *float64 `json:"h"`
	L  *float64 `json:"l"`
	C  *float64 `json:"c"`
	V  *float64 `json:"v"`
	Tu *float64 `json:"tu"`
}

// feedDate renders an epoch-milliseconds timestamp as the UTC calendar
// date klines are keyed by.
func feedDate(tsMillis int64) string {
	return time.UnixMilli(tsMillis).UTC().Format("2006-01-02")
}

// DecodeFeed reads one feed payload and returns its rows as daily klines.
// Rows without a timestamp are unaddressable and skipped, as are rows
// dated before minDate (if set). A non-zero envelope code is an upstream
// error and fails the whole payload.
func DecodeFeed(r io.Reader, minDate string) ([]model.DailyKline, error) {
	var env feedEnvelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, eris.Wrap(err, "kline: decode feed")
	}
	if env.Code != 0 {
		return nil, eris.Errorf("kline: feed error code %d: %s", env.Code, env.Msg)
	}

	klines := make([]model.DailyKline, 0, len(env.Data))
	for _, row := range env.Data {
		if row.T == nil {
			continue
		}
		date := feedDate(*row.T)
		if minDate != "" && date < minDate {
			continue
		}
		k := model.DailyKline{
			Date:      date,
			Timestamp: row.T,
			Open:      row.O,
			High:      row.H,
			Low:       row.L,
			Close:     row.C,
			Turnover:  row.Tu,
		}
		if row.V != nil {
			v := int64(*row.V)
			k.Volume = &v
		}
		klines = append(klines, k)
	}
	return klines, nil
}
