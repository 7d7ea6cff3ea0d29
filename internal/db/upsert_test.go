package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkUpsert_EmptyRows(t *testing.T) {
	n, err := BulkUpsert(nil, nil, UpsertConfig{
		Table:        "daily_klines",
		Columns:      []string{"stock_id", "date", "data"},
		ConflictKeys: []string{"stock_id", "date"},
	}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestBulkUpsert_NoColumns(t *testing.T) {
	_, err := BulkUpsert(nil, nil, UpsertConfig{
		Table:        "daily_klines",
		ConflictKeys: []string{"stock_id", "date"},
	}, [][]any{{1, "2025-01-01", "{}"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns specified")
}

func TestBulkUpsert_NoConflictKeys(t *testing.T) {
	_, err := BulkUpsert(nil, nil, UpsertConfig{
		Table:   "daily_klines",
		Columns: []string{"stock_id", "date", "data"},
	}, [][]any{{1, "2025-01-01", "{}"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conflict keys specified")
}

func TestQuoteAndJoin(t *testing.T) {
	result := quoteAndJoin([]string{"stock_id", "date", "data"})
	assert.Equal(t, `"stock_id", "date", "data"`, result)
}
