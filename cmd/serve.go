package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/equity-cli/internal/kline"
	"github.com/sells-group/equity-cli/internal/model"
	"github.com/sells-group/equity-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the stock data read API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort > 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
			Handler: newRouter(st),
		}

		zap.L().Info("starting server", zap.Int("port", cfg.Server.Port))
		return runServer(ctx, srv)
	},
}

// runServer serves until ctx is cancelled, then drains in-flight
// requests on a fresh deadline; the signal context is already
// cancelled by the time shutdown starts.
func runServer(ctx context.Context, srv *http.Server) error {
	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(drainCtx); err != nil {
			zap.L().Warn("server shutdown", zap.Error(err))
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server listen")
	}
	return nil
}

func newRouter(st store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/stocks", func(w http.ResponseWriter, req *http.Request) {
		page := queryInt(req, "page", 1, 1, 1<<31-1)
		limit := queryInt(req, "limit", 10, 1, 100)
		stocks, err := st.ListStocks(req.Context(), page, limit)
		if err != nil {
			serverError(w, "list stocks", err)
			return
		}
		writeJSON(w, http.StatusOK, stocks)
	})

	r.Get("/stocks/search", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query().Get("q")
		if q == "" {
			httpError(w, http.StatusBadRequest, "q is required")
			return
		}
		limit := queryInt(req, "limit", 10, 1, 50)
		stocks, err := st.SearchStocks(req.Context(), q, limit)
		if err != nil {
			serverError(w, "search stocks", err)
			return
		}
		writeJSON(w, http.StatusOK, stocks)
	})

	r.Get("/stocks/{id}", func(w http.ResponseWriter, req *http.Request) {
		stock, ok := lookupStock(w, req, st)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, stock)
	})

	r.Get("/stocks/{id}/klines", func(w http.ResponseWriter, req *http.Request) {
		stock, ok := lookupStock(w, req, st)
		if !ok {
			return
		}
		interval := kline.Normalize(req.URL.Query().Get("interval"))
		limit := queryInt(req, "limit", 500, 1, 1000)

		daily, err := st.ListDailyKlines(req.Context(), stock.ID)
		if err != nil {
			serverError(w, "list klines", err)
			return
		}
		writeJSON(w, http.StatusOK, model.KlineResponse{
			StockID:  stock.ID,
			Symbol:   stock.Symbol,
			Interval: interval,
			Klines:   kline.Aggregate(daily, interval, limit),
		})
	})

	r.Get("/stocks/{id}/statements/{kind}", func(w http.ResponseWriter, req *http.Request) {
		stock, ok := lookupStock(w, req, st)
		if !ok {
			return
		}

		var (
			recs any
			err  error
		)
		switch model.StatementKind(chi.URLParam(req, "kind")) {
		case model.KindIncome:
			recs, err = st.ListIncomes(req.Context(), stock.ID)
		case model.KindBalance:
			recs, err = st.ListBalances(req.Context(), stock.ID)
		case model.KindCashFlow:
			recs, err = st.ListCashFlows(req.Context(), stock.ID)
		case model.KindRatios:
			recs, err = st.ListRatios(req.Context(), stock.ID)
		default:
			httpError(w, http.StatusBadRequest, "unknown statement kind")
			return
		}
		if err != nil {
			serverError(w, "list statements", err)
			return
		}
		writeJSON(w, http.StatusOK, recs)
	})

	return r
}

// lookupStock resolves the {id} route parameter, writing the error
// response itself when the id is malformed or unknown.
func lookupStock(w http.ResponseWriter, req *http.Request, st store.Store) (*model.Stock, bool) {
	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid stock id")
		return nil, false
	}
	stock, err := st.GetStock(req.Context(), id)
	if err != nil {
		serverError(w, "get stock", err)
		return nil, false
	}
	if stock == nil {
		httpError(w, http.StatusNotFound, "stock not found")
		return nil, false
	}
	return stock, true
}

func queryInt(req *http.Request, key string, def, min, max int) int {
	raw := req.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min {
		return def
	}
	if n > max {
		return max
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func serverError(w http.ResponseWriter, action string, err error) {
	zap.L().Error("serve: "+action, zap.Error(err))
	httpError(w, http.StatusInternalServerError, "internal error")
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
