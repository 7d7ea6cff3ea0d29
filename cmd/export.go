package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/equity-cli/internal/export"
	"github.com/sells-group/equity-cli/internal/model"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export SYMBOL",
	Short: "Export a stock's stored financials to an xlsx workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		symbol := model.NormalizeSymbol(args[0])

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
			return eris.Errorf("unknown symbol %s", symbol)
		}

		wb := &export.Workbook{Stock: *stock}
		if wb.Incomes, err = st.ListIncomes(ctx, stock.ID); err != nil {
			return eris.Wrap(err, "list incomes")
		}
		if wb.Balances, err = st.ListBalances(ctx, stock.ID); err != nil {
			return eris.Wrap(err, "list balances")
		}
		if wb.CashFlows, err = st.ListCashFlows(ctx, stock.ID); err != nil {
			return eris.Wrap(err, "list cash flows")
		}
		if wb.Ratios, err = st.ListRatios(ctx, stock.ID); err != nil {
			return eris.Wrap(err, "list ratios")
		}
		if wb.Klines, err = st.ListDailyKlines(ctx, stock.ID); err != nil {
			return eris.Wrap(err, "list klines")
		}

		out := exportOut
		if out == "" {
			out = fmt.Sprintf("%s.xlsx", strings.ToLower(symbol))
		}
		if err := wb.Write(out); err != nil {
			return err
		}

		zap.L().Info("export written",
			zap.String("symbol", symbol),
			zap.String("path", out),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default <symbol>.xlsx)")
	rootCmd.AddCommand(exportCmd)
}
