// Package kline aggregates daily OHLCV candles into day, week, month and
// year buckets, and decodes the upstream kline feed payload.
package kline

import "strings"

// intervalAliases maps user-facing interval strings to canonical keys.
var intervalAliases = map[string]string{
	"1d": "day", "daily": "day", "day": "day",
	"1w": "week", "weekly": "week", "week": "week",
	"1m": "month", "monthly": "month", "month": "month",
	"1y": "year", "yearly": "year", "year": "year",
}

// Normalize resolves an interval string to one of day, week, month or
// year. Unrecognized input falls back to day.
func Normalize(interval string) string {
	if k, ok := intervalAliases[strings.ToLower(interval)]; ok {
		return k
	}
	return "day"
}
