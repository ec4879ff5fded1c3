package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tradejournal/internal/analytics"
	"tradejournal/internal/export"
)

func newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics <trade-id>",
		Short: "Show derived metrics for a trade",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *App, args []string) error {
			m, err := a.Service.Metrics(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("P&L:            %.2f (%.2f%%)\n", m.ProfitLoss, m.ProfitLossPct)
			fmt.Printf("Risked:         %.2f\n", m.RiskedAmount)
			fmt.Printf("Max gain:       %.2f\n", m.MaxPotentialGain)
			fmt.Printf("Risk:reward:    %.2f\n", m.RiskRewardRatio)
			fmt.Printf("R-multiple:     %.2f\n", m.RMultiple)
			if m.WeightedExitPrice > 0 {
				fmt.Printf("Avg exit price: %.4f\n", m.WeightedExitPrice)
			}
			if m.UnrealizedPL != 0 {
				fmt.Printf("Unrealized P&L: %.2f\n", m.UnrealizedPL)
			}
			fmt.Printf("\n%s\n", m.TraceString())
			return nil
		}),
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize performance over closed trades",
		RunE: run(func(ctx context.Context, a *App, args []string) error {
			trades, err := a.Service.ListTrades(ctx)
			if err != nil {
				return err
			}
			s := analytics.Analyze(trades, a.Calc)
			fmt.Printf("Closed trades:  %d (%d wins / %d losses, %.1f%% win rate)\n",
				s.TotalTrades, s.WinningTrades, s.LosingTrades, s.WinRate*100)
			fmt.Printf("Total P&L:      %.2f\n", s.TotalProfit)
			fmt.Printf("Profit factor:  %.2f\n", s.ProfitFactor)
			fmt.Printf("Avg win/loss:   %.2f / %.2f\n", s.AverageWin, s.AverageLoss)
			fmt.Printf("Expectancy:     %.2f per trade\n", s.Expectancy)
			fmt.Printf("Avg R-multiple: %.2f\n", s.AverageRMultiple)
			fmt.Printf("Streaks:        %d wins / %d losses\n", s.MaxConsecutiveWins, s.MaxConsecutiveLosses)
			return nil
		}),
	}
}

func newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the journal as CSV",
	}
	cmd.Flags().StringVar(&out, "out", "journal.csv", "output file")

	cmd.RunE = run(func(ctx context.Context, a *App, args []string) error {
		trades, err := a.Service.ListTrades(ctx)
		if err != nil {
			return err
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.WriteTrades(f, trades); err != nil {
			return err
		}
		fmt.Printf("exported %d trades to %s\n", len(trades), out)
		return nil
	})
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import trades from CSV",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *App, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			n, err := export.ImportTrades(ctx, f, a.Service)
			if err != nil {
				return fmt.Errorf("imported %d trades before failure: %w", n, err)
			}
			fmt.Printf("imported %d trades\n", n)
			return nil
		}),
	}
}
