package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/equity-cli/internal/model"
	"github.com/sells-group/equity-cli/internal/store"
)

func fp(v float64) *float64 { return &v }

func seedStore(t *testing.T) (store.Store, int64) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "equity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	require.NoError(t, st.Migrate(ctx))

	stock, err := st.UpsertStock(ctx, model.Stock{Symbol: "ACME", Name: "Acme Group", Sector: "Industrials"})
	require.NoError(t, err)

	require.NoError(t, st.UpsertIncome(ctx, stock.ID, model.IncomeStatement{
		PeriodEnding: time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		PeriodType:   model.PeriodFY,
		Revenue:      fp(4977),
	}))

	for _, k := range []model.DailyKline{
		{Date: "2025-06-30", Open: fp(10), High: fp(12), Low: fp(9), Close: fp(11), Volume: i64(100)},
		{Date: "2025-07-01", Open: fp(11), High: fp(13), Low: fp(10), Close: fp(12), Volume: i64(200)},
	} {
		require.NoError(t, st.UpsertDailyKline(ctx, stock.ID, k))
	}

	return st, stock.ID
}

func i64(v int64) *int64 { return &v }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	st, _ := seedStore(t)
	rec := get(t, newRouter(st), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_ListAndSearchStocks(t *testing.T) {
	st, _ := seedStore(t)
	r := newRouter(st)

	rec := get(t, r, "/stocks?page=1&limit=10")
	require.Equal(t, http.StatusOK, rec.Code)
	var stocks []model.Stock
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stocks))
	require.Len(t, stocks, 1)
	assert.Equal(t, "ACME", stocks[0].Symbol)

	rec = get(t, r, "/stocks/search?q=acme")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stocks))
	assert.Len(t, stocks, 1)

	rec = get(t, r, "/stocks/search")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_GetStock(t *testing.T) {
	st, id := seedStore(t)
	r := newRouter(st)

	rec := get(t, r, "/stocks/"+itoa(id))
	require.Equal(t, http.StatusOK, rec.Code)
	var stock model.Stock
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stock))
	assert.Equal(t, "Acme Group", stock.Name)

	assert.Equal(t, http.StatusNotFound, get(t, r, "/stocks/999").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, r, "/stocks/abc").Code)
}

func TestRouter_Klines(t *testing.T) {
	st, id := seedStore(t)
	r := newRouter(st)

	rec := get(t, r, "/stocks/"+itoa(id)+"/klines?interval=week")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.KlineResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ACME", resp.Symbol)
	assert.Equal(t, "week", resp.Interval)
	// Both days fall in ISO week 2025-W27.
	require.Len(t, resp.Klines, 1)
	assert.Equal(t, 10.0, resp.Klines[0].Open)
	assert.Equal(t, 12.0, resp.Klines[0].Close)
	assert.Equal(t, 300.0, resp.Klines[0].Volume)

	// Unknown intervals fall back to day.
	rec = get(t, r, "/stocks/"+itoa(id)+"/klines?interval=hourly")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "day", resp.Interval)
	assert.Len(t, resp.Klines, 2)
}

func TestRouter_Statements(t *testing.T) {
	st, id := seedStore(t)
	r := newRouter(st)

	rec := get(t, r, "/stocks/"+itoa(id)+"/statements/income")
	require.Equal(t, http.StatusOK, rec.Code)
	var incomes []model.IncomeStatement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &incomes))
	require.Len(t, incomes, 1)
	require.NotNil(t, incomes[0].Revenue)
	assert.Equal(t, 4977.0, *incomes[0].Revenue)

	assert.Equal(t, http.StatusBadRequest, get(t, r, "/stocks/"+itoa(id)+"/statements/bogus").Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestRunServer_DrainsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:    "127.0.0.1:0",
		Handler: http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {}),
	}

	done := make(chan error, 1)
	go func() { done <- runServer(ctx, srv) }()

	// Cancelling the serve context must still shut the server down
	// cleanly rather than returning a listen error.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down after context cancellation")
	}
}
