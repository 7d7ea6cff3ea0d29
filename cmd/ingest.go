package main

import (
	"bufio"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/equity-cli/internal/ingest"
)

var (
	ingestDir       string
	ingestFile      string
	ingestWorkers   int
	ingestRate      float64
	ingestQuarterly bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [symbols...]",
	Short: "Ingest scrape snapshots for one or more symbols",
	Long:  "Parses each symbol's raw snapshot from the snapshot directory and upserts the normalized profile, statements, and klines. Symbols come from the arguments, a --file list, or both.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		symbols := append([]string(nil), args...)
		if ingestFile != "" {
			fromFile, err := readSymbolFile(ingestFile)
			if err != nil {
				return err
			}
			symbols = append(symbols, fromFile...)
		}
		if len(symbols) == 0 {
			return eris.New("no symbols given")
		}

		if ingestDir != "" {
			cfg.Ingest.SnapshotDir = ingestDir
		}
		if ingestWorkers > 0 {
			cfg.Ingest.Workers = ingestWorkers
		}
		if cmd.Flags().Changed("rate") {
			cfg.Ingest.RatePerSec = ingestRate
		}
		if cmd.Flags().Changed("quarterly") {
			cfg.Ingest.Quarterly = ingestQuarterly
		}
		if err := cfg.Validate("ingest"); err != nil {
			return err
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
			return eris.Wrap(err, "ingest batch")
		}
		if sum.Failed > 0 {
			zap.L().Warn("ingest finished with failures",
				zap.Int64("succeeded", sum.Succeeded),
				zap.Int64("failed", sum.Failed),
			)
		}
		return nil
	},
}

// readSymbolFile reads one symbol per line, skipping blanks and #-comments.
func readSymbolFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open symbol file %s", path)
	}
	defer f.Close()

	var symbols []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		symbols = append(symbols, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrapf(err, "read symbol file %s", path)
	}
	return symbols, nil
}

func init() {
	ingestCmd.Flags().StringVar(&ingestDir, "dir", "", "snapshot directory (default from config)")
	ingestCmd.Flags().StringVar(&ingestFile, "file", "", "file with one symbol per line")
	ingestCmd.Flags().IntVar(&ingestWorkers, "workers", 0, "concurrent symbols (default from config)")
	ingestCmd.Flags().Float64Var(&ingestRate, "rate", 0, "snapshot loads per second, 0 disables pacing")
	ingestCmd.Flags().BoolVar(&ingestQuarterly, "quarterly", false, "classify undated statement columns as quarterly")
	rootCmd.AddCommand(ingestCmd)
}
