package main

import (
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/equity-cli/internal/ingest"
	"github.com/sells-group/equity-cli/internal/model"
)

var (
	batchDir       string
	batchWorkers   int
	batchRate      float64
	batchQuarterly bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Ingest every snapshot found in the snapshot directory",
	Long:  "Discovers symbols from the snapshot directory (one <SYMBOL>.json envelope or one subdirectory per symbol) and runs the ingest worker pool over all of them.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if batchDir != "" {
			cfg.Ingest.SnapshotDir = batchDir
		}
		if batchWorkers > 0 {
			cfg.Ingest.Workers = batchWorkers
		}
		if cmd.Flags().Changed("rate") {
			cfg.Ingest.RatePerSec = batchRate
		}
		if cmd.Flags().Changed("quarterly") {
			cfg.Ingest.Quarterly = batchQuarterly
		}
		if err := cfg.Validate("ingest"); err != nil {
			return err
		}

		symbols, err := discoverSymbols(cfg.Ingest.SnapshotDir)
		if err != nil {
			return err
		}
		if len(symbols) == 0 {
			return eris.Errorf("no snapshots found in %s", cfg.Ingest.SnapshotDir)
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		runner := &ingest.Runner{
			Store:        st,
			Dir:          cfg.Ingest.SnapshotDir,
			Workers:      cfg.Ingest.Workers,
			RatePerSec:   cfg.Ingest.RatePerSec,
			MinKlineDate: cfg.Ingest.MinKlineDate,
			Options:      ingest.Options{Quarterly: cfg.Ingest.Quarterly},
		}
		sum, err := runner.Run(ctx, symbols)
		if err != nil {
			return eris.Wrap(err, "batch ingest")
		}
		if sum.Failed > 0 {
			zap.L().Warn("batch finished with failures",
				zap.Int64("succeeded", sum.Succeeded),
				zap.Int64("failed", sum.Failed),
			)
		}
		return nil
	},
}

// discoverSymbols lists a snapshot root: every <SYMBOL>.json envelope and
// every subdirectory counts as one symbol.
func discoverSymbols(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "read snapshot dir %s", dir)
	}

	seen := map[string]bool{}
	var symbols []string
	for _, e := range entries {
		var symbol string
		switch {
		case e.IsDir():
			symbol = model.NormalizeSymbol(e.Name())
		case strings.HasSuffix(e.Name(), ".json") && e.Name() != "klines.json":
			symbol = model.NormalizeSymbol(strings.TrimSuffix(e.Name(), ".json"))
		default:
			continue
		}
		if symbol != "" && !seen[symbol] {
			seen[symbol] = true
			symbols = append(symbols, symbol)
		}
	}
	sort.Strings(symbols)
	return symbols, nil
}

func init() {
	batchCmd.Flags().StringVar(&batchDir, "dir", "", "snapshot directory (default from config)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "concurrent symbols (default from config)")
	batchCmd.Flags().Float64Var(&batchRate, "rate", 0, "snapshot loads per second, 0 disables pacing")
	batchCmd.Flags().BoolVar(&batchQuarterly, "quarterly", false, "classify undated statement columns as quarterly")
	rootCmd.AddCommand(batchCmd)
}
