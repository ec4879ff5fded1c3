// Package cli implements the journal command line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tradejournal/config"
	"tradejournal/internal/adapters/binanceclient"
	"tradejournal/internal/adapters/events"
	"tradejournal/internal/adapters/idgen"
	"tradejournal/internal/adapters/logger"
	"tradejournal/internal/adapters/sqlite"
	"tradejournal/internal/app"
	"tradejournal/internal/metrics"
	"tradejournal/internal/ports"
	"tradejournal/internal/risk"
)

// App bundles the wired dependencies commands operate on.
type App struct {
	Cfg     *config.Config
	Logger  ports.Logger
	Repo    *sqlite.Repository
	Service *app.TradeService
	Calc    *metrics.Calculator
	Risk    *risk.Checker

	closers []func() error
}

// Close releases the app's resources in reverse acquisition order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

// bootstrap loads config and wires adapters and the trade service.
func bootstrap() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &App{Cfg: cfg, Logger: log}
	a.closers = append(a.closers, log.Sync)

	repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: log})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize repository: %w", err)
	}
	a.Repo = repo
	a.closers = append(a.closers, repo.Close)

	var quotes ports.QuoteProvider
	if cfg.QuotesEnabled {
		qc, err := binanceclient.New(binanceclient.Config{
			APIKey:    cfg.APIKey,
			SecretKey: cfg.SecretKey,
			Logger:    log,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize quote client: %w", err)
		}
		quotes = qc
	}

	a.Calc = metrics.NewCalculator(metrics.NewChain(cfg.PointValues))
	a.Risk = risk.NewChecker(risk.Policy{
		MaxRiskPerTrade: cfg.MaxRiskPerTrade,
		MinRiskReward:   cfg.MinRiskReward,
		RequireStopLoss: cfg.RequireStopLoss,
	}, a.Calc)

	bus := events.NewBus()
	bus.Subscribe(func(ev ports.TradeEvent) {
		log.Debug(context.Background(), "Trade changed", map[string]interface{}{"type": string(ev.Type), "tradeID": ev.TradeID})
	})

	svc, err := app.NewTradeService(app.Config{
		Logger:     log,
		Repo:       repo,
		IDs:        idgen.New(),
		Events:     bus,
		Quotes:     quotes,
		Calculator: a.Calc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize trade service: %w", err)
	}
	a.Service = svc
	return a, nil
}

// run wraps a command body with bootstrap and teardown.
func run(body func(ctx context.Context, a *App, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.Close()
		return body(cmd.Context(), a, args)
	}
}

// NewRootCmd assembles the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "journal",
		Short:         "Personal trading journal",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		newAddCmd(),
		newCloseCmd(),
		newExitCmd(),
		newListCmd(),
		newDeleteCmd(),
		newMetricsCmd(),
		newStatsCmd(),
		newExportCmd(),
		newImportCmd(),
		newServeCmd(),
		newPushCmd(),
		newPullCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
