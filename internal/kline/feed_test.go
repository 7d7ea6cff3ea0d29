package kline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFeed(t *testing.T) {
	// 1751241600000 = 2025-06-30T00:00:00Z.
	payload := `{
		"code": 0,
		"msg": "ok",
		"data": [
			{"t": 1751241600000, "o": 10, "h": 15, "l": 9, "c": 14, "v": 300.0, "tu": 4200.5},
			{"t": null, "o": 1, "h": 1, "l": 1, "c": 1},
			{"t": 1751328000000, "o": 14, "h": 17, "l": 12, "c": 16}
		]
	}`

	klines, err := DecodeFeed(strings.NewReader(payload), "")
	require.NoError(t, err)
	require.Len(t, klines, 2)

	first := klines[0]
	assert.Equal(t, "2025-06-30", first.Date)
	require.NotNil(t, first.Timestamp)
	assert.Equal(t, int64(1751241600000), *first.Timestamp)
	require.NotNil(t, first.Open)
	assert.Equal(t, 10.0, *first.Open)
	require.NotNil(t, first.Volume)
	assert.Equal(t, int64(300), *first.Volume)
	require.NotNil(t, first.Turnover)
	assert.InDelta(t, 4200.5, *first.Turnover, 1e-9)

	second := klines[1]
	assert.Equal(t, "2025-07-01", second.Date)
	assert.Nil(t, second.Volume)
}

func TestDecodeFeed_MinDateCutoff(t *testing.T) {
	payload := `{"code":0,"data":[
		{"t": 1640995200000, "o": 1, "c": 1},
		{"t": 1751241600000, "o": 2, "c": 2}
	]}`

	klines, err := DecodeFeed(strings.NewReader(payload), "2023-01-01")
	require.NoError(t, err)
	require.Len(t, klines, 1)
	assert.Equal(t, "2025-06-30", klines[0].Date)
}

func TestDecodeFeed_UpstreamError(t *testing.T) {
	_, err := DecodeFeed(strings.NewReader(`{"code":42,"msg":"rate limited"}`), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestDecodeFeed_Malformed(t *testing.T) {
	_, err := DecodeFeed(strings.NewReader(`{"code":`), "")
	require.Error(t, err)
}
