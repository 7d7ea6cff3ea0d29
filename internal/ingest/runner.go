package ingest

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/equity-cli/internal/store"
)

// Runner ingests a batch of symbols concurrently. One symbol failing is
// logged and counted; it never aborts the batch.
type Runner struct {
	Store store.Store
	// Dir is the snapshot root LoadSnapshot reads from.
	Dir string
	// Workers caps concurrent symbols. Zero or negative means 1.
	Workers int
	// RatePerSec paces snapshot loads across workers. Zero disables pacing.
	RatePerSec float64
	// MinKlineDate drops older feed rows, YYYY-MM-DD.
	MinKlineDate string
	Options      Options
}

// Summary reports a finished batch.
type Summary struct {
	RunID     string
	Succeeded int64
	Failed    int64
	Duration  time.Duration
}

// Run processes the symbols and returns the batch summary. The returned
// error is only ever the context's: per-symbol failures land in the
// summary instead.
func (r *Runner) Run(ctx context.Context, symbols []string) (Summary, error) {
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	var limiter *rate.Limiter
	if r.RatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.RatePerSec), 1)
	}

	sum := Summary{RunID: uuid.New().String()}
	log := zap.L().With(zap.String("run_id", sum.RunID))
	log.Info("ingest: batch starting",
		zap.Int("symbols", len(symbols)),
		zap.Int("workers", workers),
	)
	start := time.Now()

	var succeeded, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, symbol := range symbols {
		g.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(gctx); err != nil {
					return err
				}
			}
			if err := r.ingestOne(gctx, symbol); err != nil {
				failed.Add(1)
				log.Error("ingest: symbol failed",
					zap.String("symbol", symbol),
					zap.Error(err),
				)
				return nil
			}
			succeeded.Add(1)
			return nil
		})
	}

	err := g.Wait()
	sum.Succeeded = succeeded.Load()
	sum.Failed = failed.Load()
	sum.Duration = time.Since(start)
	log.Info("ingest: batch finished",
		zap.Int64("succeeded", sum.Succeeded),
		zap.Int64("failed", sum.Failed),
		zap.Duration("duration", sum.Duration),
	)
	return sum, err
}

func (r *Runner) ingestOne(ctx context.Context, symbol string) error {
	snap, err := LoadSnapshot(r.Dir, symbol, r.MinKlineDate)
	if err != nil {
		return err
	}
	_, err = Persist(ctx, r.Store, Parse(snap, r.Options))
	return err
}
