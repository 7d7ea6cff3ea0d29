package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/equity-cli/internal/kline"
	"github.com/sells-group/equity-cli/internal/model"
)

var (
	klinesFile    string
	klinesReplace bool
	klinesMinDate string
)

var klinesCmd = &cobra.Command{
	Use:   "klines SYMBOL",
	Short: "Load a daily kline feed file for a symbol",
	Long:  "Decodes a kline feed JSON file and upserts its rows for the symbol. With --replace the symbol's history is cleared and reloaded from the feed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		symbol := model.NormalizeSymbol(args[0])

		f, err := os.Open(klinesFile)
		if err != nil {
			return eris.Wrapf(err, "open feed file %s", klinesFile)
		}
		defer f.Close()

		minDate := klinesMinDate
		if minDate == "" {
			minDate = cfg.Ingest.MinKlineDate
		}
		rows, err := kline.DecodeFeed(f, minDate)
		if err != nil {
			return eris.Wrap(err, "decode feed")
		}
		if len(rows) == 0 {
			return eris.Errorf("feed has no rows on or after %s", minDate)
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		stock, err := st.GetStockBySymbol(ctx, symbol)
		if err != nil {
			return eris.Wrap(err, "look up stock")
		}
		if stock == nil {
			stock, err = st.UpsertStock(ctx, model.Stock{Symbol: symbol})
			if err != nil {
				return eris.Wrap(err, "create stock")
			}
		}

		var written int64
		if klinesReplace {
			written, err = st.ReplaceDailyKlines(ctx, stock.ID, rows)
		} else {
			written, err = st.BulkUpsertDailyKlines(ctx, stock.ID, rows)
		}
		if err != nil {
			return eris.Wrap(err, "write klines")
		}

		zap.L().Info("klines loaded",
			zap.String("symbol", symbol),
			zap.Int64("rows", written),
			zap.Bool("replace", klinesReplace),
		)
		return nil
	},
}

func init() {
	klinesCmd.Flags().StringVar(&klinesFile, "file", "klines.json", "kline feed JSON file")
	klinesCmd.Flags().BoolVar(&klinesReplace, "replace", false, "clear the symbol's history before loading")
	klinesCmd.Flags().StringVar(&klinesMinDate, "min-date", "", "drop feed rows before this date (default from config)")
	rootCmd.AddCommand(klinesCmd)
}
