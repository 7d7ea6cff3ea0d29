package kline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/equity-cli/internal/model"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1d", "day"},
		{"daily", "day"},
		{"day", "day"},
		{"1w", "week"},
		{"Weekly", "week"},
		{"1m", "month"},
		{"monthly", "month"},
		{"1y", "year"},
		{"YEAR", "year"},
		{"fortnight", "day"},
		{"", "day"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "interval %q", tt.in)
	}
}

func fptr(v float64) *float64 { return &v }
func iptr(v int64) *int64     { return &v }

func daily(date string, o, h, l, c float64, v int64) model.DailyKline {
	return model.DailyKline{
		Date:   date,
		Open:   fptr(o),
		High:   fptr(h),
		Low:    fptr(l),
		Close:  fptr(c),
		Volume: iptr(v),
	}
}

func TestAggregate_WeekBuckets(t *testing.T) {
	// Mon/Tue of ISO week 2025-W27, then Mon of 2025-W28.
	rows := []model.DailyKline{
		daily("2025-06-30", 10, 15, 9, 14, 300),
		daily("2025-07-01", 14, 17, 12, 16, 400),
		daily("2025-07-07", 16, 18, 15, 17, 500),
	}

	candles := Aggregate(rows, "week", 10)
	require.Len(t, candles, 2)

	// Most recent bucket first.
	assert.Equal(t, "2025-07-07", candles[0].Date)
	assert.Equal(t, 16.0, candles[0].Open)

	wk := candles[1]
	assert.Equal(t, "2025-06-30", wk.Date)
	assert.Equal(t, 10.0, wk.Open)
	assert.Equal(t, 17.0, wk.High)
	assert.Equal(t, 9.0, wk.Low)
	assert.Equal(t, 16.0, wk.Close)
	assert.Equal(t, 700.0, wk.Volume)
}

func TestAggregate_WeekKeySpansYearBoundary(t *testing.T) {
	// 2024-12-30 and 2025-01-02 are both ISO week 2025-W01.
	rows := []model.DailyKline{
		daily("2024-12-30", 1, 2, 1, 2, 10),
		daily("2025-01-02", 2, 3, 1, 3, 20),
	}
	candles := Aggregate(rows, "1w", 10)
	require.Len(t, candles, 1)
	assert.Equal(t, "2024-12-30", candles[0].Date)
	assert.Equal(t, 1.0, candles[0].Open)
	assert.Equal(t, 3.0, candles[0].Close)
	assert.Equal(t, 30.0, candles[0].Volume)
}

func TestAggregate_MonthAndYear(t *testing.T) {
	rows := []model.DailyKline{
		daily("2024-11-29", 5, 6, 4, 5, 100),
		daily("2024-12-02", 5, 8, 5, 7, 100),
		daily("2024-12-31", 7, 9, 6, 8, 100),
		daily("2025-01-02", 8, 10, 7, 9, 100),
	}

	months := Aggregate(rows, "monthly", 10)
	require.Len(t, months, 3)
	assert.Equal(t, "2025-01-02", months[0].Date)
	assert.Equal(t, "2024-12-02", months[1].Date)
	assert.Equal(t, 8.0, months[1].Close)
	assert.Equal(t, 9.0, months[1].High)
	assert.Equal(t, 200.0, months[1].Volume)

	years := Aggregate(rows, "1y", 10)
	require.Len(t, years, 2)
	assert.Equal(t, "2025-01-02", years[0].Date)
	assert.Equal(t, "2024-11-29", years[1].Date)
	assert.Equal(t, 5.0, years[1].Open)
	assert.Equal(t, 8.0, years[1].Close)
	assert.Equal(t, 300.0, years[1].Volume)
}

func TestAggregate_SkipsIncompleteRowsInBuckets(t *testing.T) {
	rows := []model.DailyKline{
		daily("2025-06-30", 10, 15, 9, 14, 300),
		{Date: "2025-07-01", Open: fptr(99), Close: fptr(99)}, // no high/low
		daily("2025-07-02", 14, 17, 12, 16, 400),
	}
	candles := Aggregate(rows, "week", 10)
	require.Len(t, candles, 1)
	assert.Equal(t, 17.0, candles[0].High)
	assert.Equal(t, 700.0, candles[0].Volume)
}

func TestAggregate_DaySlicesThenFilters(t *testing.T) {
	rows := []model.DailyKline{
		daily("2025-07-01", 1, 1, 1, 1, 1),
		daily("2025-07-02", 2, 2, 2, 2, 2),
		{Date: "2025-07-03"}, // no OHLC at all
		daily("2025-07-04", 4, 4, 4, 4, 4),
	}

	// The slice is taken before filtering: limit 2 covers the last two
	// rows, one of which is dropped, so only one candle comes back.
	candles := Aggregate(rows, "day", 2)
	require.Len(t, candles, 1)
	assert.Equal(t, "2025-07-04", candles[0].Date)

	// Most recent first, nil volume coerced to zero.
	rows[2].Open = fptr(3)
	rows[2].Close = fptr(3)
	candles = Aggregate(rows, "day", 3)
	require.Len(t, candles, 3)
	assert.Equal(t, "2025-07-04", candles[0].Date)
	assert.Equal(t, "2025-07-03", candles[1].Date)
	assert.Equal(t, 0.0, candles[1].High)
	assert.Equal(t, 0.0, candles[1].Volume)
	assert.Equal(t, "2025-07-02", candles[2].Date)
}

func TestAggregate_LimitTruncatesBuckets(t *testing.T) {
	rows := []model.DailyKline{
		daily("2023-03-01", 1, 1, 1, 1, 1),
		daily("2024-03-01", 2, 2, 2, 2, 2),
		daily("2025-03-01", 3, 3, 3, 3, 3),
	}
	candles := Aggregate(rows, "year", 2)
	require.Len(t, candles, 2)
	assert.Equal(t, "2025-03-01", candles[0].Date)
	assert.Equal(t, "2024-03-01", candles[1].Date)
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil, "week", 10))
	assert.Empty(t, Aggregate(nil, "day", 10))
}

func TestAggregate_NonPositiveLimit(t *testing.T) {
	rows := []model.DailyKline{daily("2025-03-01", 1, 1, 1, 1, 1)}
	assert.Empty(t, Aggregate(rows, "day", 0))
	assert.Empty(t, Aggregate(rows, "day", -1))
	assert.Empty(t, Aggregate(rows, "week", 0))
}
