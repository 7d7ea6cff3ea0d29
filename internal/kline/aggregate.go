package kline

import (
	"fmt"
	"time"

	"github.com/sells-group/equity-cli/internal/model"
)

// safeFloat coerces an optional value to a plain float for aggregate
// construction. Inclusion decisions use null-ness, not the coerced zero.
func safeFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func safeVolume(v *int64) float64 {
	if v == nil {
		return 0
	}
	return float64(*v)
}

var dateLayouts = []string{"2006-01-02", "01/02/2006"}

// groupKey renders the bucket identity for a row date: ISO year-week for
// week, calendar prefixes for month and year, the date itself for day.
func groupKey(dateStr, interval string) (string, bool) {
	if interval == "day" {
		return dateStr, true
	}
	var dt time.Time
	var err error
	for _, layout := range dateLayouts {
		if dt, err = time.Parse(layout, dateStr); err == nil {
			break
		}
	}
	if err != nil {
		return "", false
	}
	switch interval {
	case "week":
		y, w := dt.ISOWeek()
		return fmt.Sprintf("%d-W%02d", y, w), true
	case "month":
		return dt.Format("2006-01"), true
	case "year":
		return dt.Format("2006"), true
	}
	return dateStr, true
}

// Aggregate groups a complete ascending-by-date run of daily candles into
// interval buckets, most recent bucket first, truncated to limit.
//
// Day interval slices the last N rows first and filters afterwards, so
// sparse data yields fewer than N candles rather than reaching further
// back. Aggregated intervals skip any row missing one of the OHLC fields;
// each bucket takes its date and open from the first row seen, runs
// max/min over highs and lows, keeps the last close, and sums volume.
// A non-positive limit yields no candles.
func Aggregate(daily []model.DailyKline, interval string, limit int) []model.Candle {
	if limit <= 0 {
		return nil
	}
	interval = Normalize(interval)

	if interval == "day" {
		tail := daily
		if len(tail) > limit {
			tail = tail[len(tail)-limit:]
		}
		candles := make([]model.Candle, 0, len(tail))
		for i := len(tail) - 1; i >= 0; i-- {
			r := tail[i]
			if r.Open == nil || r.Close == nil {
				continue
			}
			candles = append(candles, model.Candle{
				Date:   r.Date,
				Open:   safeFloat(r.Open),
				High:   safeFloat(r.High),
				Low:    safeFloat(r.Low),
				Close:  safeFloat(r.Close),
				Volume: safeVolume(r.Volume),
			})
		}
		return candles
	}

	groups := make(map[string]*model.Candle)
	var order []string
	for _, r := range daily {
		if r.Open == nil || r.High == nil || r.Low == nil || r.Close == nil {
			continue
		}
		key, ok := groupKey(r.Date, interval)
		if !ok {
			continue
		}
		g, seen := groups[key]
		if !seen {
			groups[key] = &model.Candle{
				Date:   r.Date,
				Open:   safeFloat(r.Open),
				High:   safeFloat(r.High),
				Low:    safeFloat(r.Low),
				Close:  safeFloat(r.Close),
				Volume: safeVolume(r.Volume),
			}
			order = append(order, key)
			continue
		}
		g.High = max(g.High, safeFloat(r.High))
		g.Low = min(g.Low, safeFloat(r.Low))
		g.Close = safeFloat(r.Close)
		g.Volume += safeVolume(r.Volume)
	}

	candles := make([]model.Candle, 0, min(len(order), limit))
	for i := len(order) - 1; i >= 0 && len(candles) < limit; i-- {
		candles = append(candles, *groups[order[i]])
	}
	return candles
}
