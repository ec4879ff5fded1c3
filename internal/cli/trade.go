package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"tradejournal/internal/app"
	"tradejournal/internal/domain"
)

// parseDate parses an RFC3339 flag value, defaulting to now when empty.
func parseDate(value, flag string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	d, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s: %w", flag, err)
	}
	return d, nil
}

func newAddCmd() *cobra.Command {
	var (
		symbol, instrument, direction, strategy, notes string
		quantity, entryPrice, fees                     float64
		entryDate                                      string
		stopLoss, takeProfit                           float64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new trade",
	}
	cmd.Flags().StringVar(&symbol, "symbol", "", "instrument symbol")
	cmd.Flags().StringVar(&instrument, "instrument", "equity", "equity|futures|option|forex|crypto")
	cmd.Flags().StringVar(&direction, "direction", "long", "long|short")
	cmd.Flags().Float64Var(&quantity, "qty", 0, "position size")
	cmd.Flags().Float64Var(&entryPrice, "price", 0, "entry price")
	cmd.Flags().StringVar(&entryDate, "date", "", "entry date (RFC3339, default now)")
	cmd.Flags().Float64Var(&fees, "fees", 0, "entry fees")
	cmd.Flags().Float64Var(&stopLoss, "stop", 0, "stop loss price")
	cmd.Flags().Float64Var(&takeProfit, "target", 0, "take profit price")
	cmd.Flags().StringVar(&strategy, "strategy", "", "strategy name")
	cmd.Flags().StringVar(&notes, "notes", "", "trade notes")
	_ = cmd.MarkFlagRequired("symbol")
	_ = cmd.MarkFlagRequired("qty")
	_ = cmd.MarkFlagRequired("price")

	cmd.RunE = run(func(ctx context.Context, a *App, args []string) error {
		date, err := parseDate(entryDate, "date")
		if err != nil {
			return err
		}
		in := app.CreateTradeInput{
			Symbol:     symbol,
			Instrument: domain.InstrumentType(instrument),
			Direction:  domain.Direction(direction),
			Quantity:   quantity,
			EntryPrice: entryPrice,
			EntryDate:  date,
			Fees:       fees,
			Strategy:   strategy,
			Notes:      notes,
		}
		if stopLoss > 0 {
			in.StopLoss = &stopLoss
		}
		if takeProfit > 0 {
			in.TakeProfit = &takeProfit
		}

		trade, err := a.Service.CreateTrade(ctx, in)
		if err != nil {
			return err
		}
		fmt.Printf("created trade %s\n", trade.ID)
		for _, w := range a.Risk.Check(trade) {
			fmt.Printf("warning: %s\n", w)
		}
		return nil
	})
	return cmd
}

func newCloseCmd() *cobra.Command {
	var (
		price, fees float64
		date        string
	)
	cmd := &cobra.Command{
		Use:   "close <trade-id>",
		Short: "Close a trade with a single full exit",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().Float64Var(&price, "price", 0, "exit price")
	cmd.Flags().StringVar(&date, "date", "", "exit date (RFC3339, default now)")
	cmd.Flags().Float64Var(&fees, "fees", 0, "exit fees")
	_ = cmd.MarkFlagRequired("price")

	cmd.RunE = run(func(ctx context.Context, a *App, args []string) error {
		exitDate, err := parseDate(date, "date")
		if err != nil {
			return err
		}
		trade, err := a.Service.CloseTrade(ctx, args[0], app.CloseInput{
			ExitPrice: price,
			ExitDate:  exitDate,
			Fees:      fees,
		})
		if err != nil {
			return err
		}
		fmt.Printf("trade %s closed at %v\n", trade.ID, price)
		return nil
	})
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all trades",
		RunE: run(func(ctx context.Context, a *App, args []string) error {
			trades, err := a.Service.ListTrades(ctx)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSYMBOL\tDIR\tQTY\tREMAINING\tENTRY\tSTATUS")
			for _, t := range trades {
				fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%v\t%v\t%s\n",
					t.ID, t.Symbol, t.Direction, t.Quantity, t.RemainingQuantity(), t.EntryPrice, t.Status)
			}
			return w.Flush()
		}),
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <trade-id>",
		Short: "Delete a trade and its exits",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *App, args []string) error {
			return a.Service.DeleteTrade(ctx, args[0])
		}),
	}
}
