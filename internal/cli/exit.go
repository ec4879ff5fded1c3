package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tradejournal/internal/app"
)

// exitFlags registers the shared partial-exit flags on cmd.
func exitFlags(cmd *cobra.Command, qty, price, fees *float64, date, notes *string) {
	cmd.Flags().Float64Var(qty, "qty", 0, "quantity exited")
	cmd.Flags().Float64Var(price, "price", 0, "exit price")
	cmd.Flags().StringVar(date, "date", "", "exit date (RFC3339, default now)")
	cmd.Flags().Float64Var(fees, "fees", 0, "exit fees")
	cmd.Flags().StringVar(notes, "notes", "", "exit notes")
	_ = cmd.MarkFlagRequired("qty")
	_ = cmd.MarkFlagRequired("price")
}

func newExitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exit",
		Short: "Manage partial exits",
	}
	cmd.AddCommand(newExitAddCmd(), newExitEditCmd(), newExitRmCmd())
	return cmd
}

func newExitAddCmd() *cobra.Command {
	var (
		qty, price, fees float64
		date, notes      string
	)
	cmd := &cobra.Command{
		Use:   "add <trade-id>",
		Short: "Record a partial exit against a trade",
		Args:  cobra.ExactArgs(1),
	}
	exitFlags(cmd, &qty, &price, &fees, &date, &notes)

	cmd.RunE = run(func(ctx context.Context, a *App, args []string) error {
		exitDate, err := parseDate(date, "date")
		if err != nil {
			return err
		}
		trade, err := a.Service.AddPartialExit(ctx, args[0], app.ExitInput{
			Quantity:  qty,
			ExitPrice: price,
			ExitDate:  exitDate,
			Fees:      fees,
			Notes:     notes,
		})
		if err != nil {
			return err
		}
		fmt.Printf("trade %s: remaining %v, status %s\n", trade.ID, trade.RemainingQuantity(), trade.Status)
		return nil
	})
	return cmd
}

func newExitEditCmd() *cobra.Command {
	var (
		qty, price, fees float64
		date, notes      string
	)
	cmd := &cobra.Command{
		Use:   "edit <trade-id> <exit-id>",
		Short: "Edit a partial exit",
		Args:  cobra.ExactArgs(2),
	}
	exitFlags(cmd, &qty, &price, &fees, &date, &notes)

	cmd.RunE = run(func(ctx context.Context, a *App, args []string) error {
		exitDate, err := parseDate(date, "date")
		if err != nil {
			return err
		}
		trade, err := a.Service.EditPartialExit(ctx, args[0], args[1], app.ExitInput{
			Quantity:  qty,
			ExitPrice: price,
			ExitDate:  exitDate,
			Fees:      fees,
			Notes:     notes,
		})
		if err != nil {
			return err
		}
		fmt.Printf("trade %s: remaining %v, status %s\n", trade.ID, trade.RemainingQuantity(), trade.Status)
		return nil
	})
	return cmd
}

func newExitRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <trade-id> <exit-id>",
		Short: "Delete a partial exit",
		Args:  cobra.ExactArgs(2),
		RunE: run(func(ctx context.Context, a *App, args []string) error {
			trade, err := a.Service.DeletePartialExit(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("trade %s: remaining %v, status %s\n", trade.ID, trade.RemainingQuantity(), trade.Status)
			return nil
		}),
	}
}
