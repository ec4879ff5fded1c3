// Package app wires the trade lifecycle together: every mutation re-reads
// the latest persisted trade, applies the ledger rules to a copy, persists
// the result wholesale, and notifies observers. A mutation either fully
// succeeds or leaves no partial state behind.
package app

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"tradejournal/internal/domain"
	"tradejournal/internal/ledger"
	"tradejournal/internal/metrics"
	"tradejournal/internal/ports"
)

// TradeService orchestrates trade and partial-exit mutations.
type TradeService struct {
	logger ports.Logger
	repo   ports.TradeRepository
	ids    ports.IDGenerator
	events ports.EventPublisher
	quotes ports.QuoteProvider // optional
	calc   *metrics.Calculator
	valid  *validator.Validate
}

// Config holds the dependencies of the trade service. Quotes and
// Calculator are optional; everything else is required.
type Config struct {
	Logger     ports.Logger
	Repo       ports.TradeRepository
	IDs        ports.IDGenerator
	Events     ports.EventPublisher
	Quotes     ports.QuoteProvider
	Calculator *metrics.Calculator
}

// NewTradeService creates a new application service instance.
func NewTradeService(cfg Config) (*TradeService, error) {
	if cfg.Logger == nil || cfg.Repo == nil || cfg.IDs == nil || cfg.Events == nil {
		return nil, fmt.Errorf("missing required dependencies for TradeService")
	}
	calc := cfg.Calculator
	if calc == nil {
		calc = metrics.NewCalculator(nil)
	}
	return &TradeService{
		logger: cfg.Logger,
		repo:   cfg.Repo,
		ids:    cfg.IDs,
		events: cfg.Events,
		quotes: cfg.Quotes,
		calc:   calc,
		valid:  validator.New(),
	}, nil
}

// CreateTrade validates the entry form and persists a new trade. Supplying
// both exit price and exit date records a historical, already-closed trade.
func (s *TradeService) CreateTrade(ctx context.Context, in CreateTradeInput) (*domain.Trade, error) {
	if err := checkInput(s.valid, in); err != nil {
		return nil, err
	}
	if !in.Instrument.IsValid() {
		return nil, ports.NewValidationError("instrument", "unknown instrument type")
	}
	if !in.Direction.IsValid() {
		return nil, ports.NewValidationError("direction", "unknown direction")
	}
	if (in.ExitPrice == nil) != (in.ExitDate == nil) {
		return nil, ports.NewValidationError("exit", "exit price and exit date must be set together")
	}

	trade := &domain.Trade{
		ID:         s.ids.NewID(),
		Symbol:     in.Symbol,
		Instrument: in.Instrument,
		Direction:  in.Direction,
		Quantity:   in.Quantity,
		EntryPrice: in.EntryPrice,
		EntryDate:  in.EntryDate,
		Fees:       in.Fees,
		StopLoss:   in.StopLoss,
		TakeProfit: in.TakeProfit,
		Contract:   in.Contract,
		Notes:      in.Notes,
		Tags:       in.Tags,
		Strategy:   in.Strategy,
		Status:     domain.StatusOpen,
	}
	if in.ExitPrice != nil {
		trade.ExitPrice = in.ExitPrice
		trade.ExitDate = in.ExitDate
		trade.Status = domain.StatusClosed
	}

	if err := s.repo.Create(ctx, trade); err != nil {
		s.logger.Error(ctx, err, "Failed to persist new trade", map[string]interface{}{"symbol": in.Symbol})
		return nil, err
	}
	s.events.Publish(ctx, ports.TradeEvent{Type: ports.TradeCreated, TradeID: trade.ID})
	s.logger.Info(ctx, "Trade created", map[string]interface{}{"tradeID": trade.ID, "symbol": trade.Symbol})
	return trade, nil
}

// GetTrade fetches a trade by ID.
func (s *TradeService) GetTrade(ctx context.Context, id string) (*domain.Trade, error) {
	trade, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if trade == nil {
		return nil, fmt.Errorf("trade %q: %w", id, ports.ErrNotFound)
	}
	return trade, nil
}

// ListTrades returns every trade in the journal.
func (s *TradeService) ListTrades(ctx context.Context) ([]*domain.Trade, error) {
	return s.repo.FindAll(ctx)
}

// DeleteTrade removes a trade and all of its partial exits.
func (s *TradeService) DeleteTrade(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Publish(ctx, ports.TradeEvent{Type: ports.TradeDeleted, TradeID: id})
	return nil
}

// AddPartialExit records a partial exit against the trade. The trade is
// re-fetched immediately before mutating to reduce lost-update risk from
// concurrent edits.
func (s *TradeService) AddPartialExit(ctx context.Context, tradeID string, in ExitInput) (*domain.Trade, error) {
	if err := checkInput(s.valid, in); err != nil {
		return nil, err
	}
	return s.mutate(ctx, tradeID, func(t *domain.Trade) (*domain.Trade, error) {
		return ledger.Add(t, s.ids.NewID(), ledger.ExitInput(in))
	})
}

// EditPartialExit replaces the fields of an existing partial exit.
func (s *TradeService) EditPartialExit(ctx context.Context, tradeID, exitID string, in ExitInput) (*domain.Trade, error) {
	if err := checkInput(s.valid, in); err != nil {
		return nil, err
	}
	return s.mutate(ctx, tradeID, func(t *domain.Trade) (*domain.Trade, error) {
		return ledger.Edit(t, exitID, ledger.ExitInput(in))
	})
}

// DeletePartialExit removes a partial exit from the trade.
func (s *TradeService) DeletePartialExit(ctx context.Context, tradeID, exitID string) (*domain.Trade, error) {
	return s.mutate(ctx, tradeID, func(t *domain.Trade) (*domain.Trade, error) {
		return ledger.Remove(t, exitID)
	})
}

// CloseTrade records a direct full exit on a trade without partial exits.
func (s *TradeService) CloseTrade(ctx context.Context, tradeID string, in CloseInput) (*domain.Trade, error) {
	if err := checkInput(s.valid, in); err != nil {
		return nil, err
	}
	return s.mutate(ctx, tradeID, func(t *domain.Trade) (*domain.Trade, error) {
		if len(t.PartialExits) > 0 {
			return nil, ports.NewValidationError("exit", "trade has partial exits; close it through the ledger")
		}
		c := t.Clone()
		price := in.ExitPrice
		date := in.ExitDate
		c.ExitPrice = &price
		c.ExitDate = &date
		c.Fees = in.Fees
		c.Status = domain.StatusClosed
		return c, nil
	})
}

// RemainingQuantity returns the open quantity of the trade.
func (s *TradeService) RemainingQuantity(ctx context.Context, tradeID string) (float64, error) {
	trade, err := s.GetTrade(ctx, tradeID)
	if err != nil {
		return 0, err
	}
	return trade.RemainingQuantity(), nil
}

// IsFullyExited reports whether partial exits cover the whole position.
func (s *TradeService) IsFullyExited(ctx context.Context, tradeID string) (bool, error) {
	trade, err := s.GetTrade(ctx, tradeID)
	if err != nil {
		return false, err
	}
	return trade.IsFullyExited(), nil
}

// Metrics computes the derived figures for a trade. For open trades with
// a configured quote provider it additionally attaches an unrealized P&L
// based on the current market price; quote failures degrade to a trace
// note, never to an error.
func (s *TradeService) Metrics(ctx context.Context, tradeID string) (metrics.Metrics, error) {
	trade, err := s.GetTrade(ctx, tradeID)
	if err != nil {
		return metrics.Metrics{}, err
	}

	m := s.calc.Calculate(trade)

	if s.quotes != nil && trade.IsOpen() && trade.RemainingQuantity() > 0 {
		price, qerr := s.quotes.LastPrice(ctx, trade.Symbol)
		if qerr != nil {
			s.logger.Warn(ctx, "Quote lookup failed", map[string]interface{}{"symbol": trade.Symbol, "error": qerr.Error()})
			m.Trace = append(m.Trace, "Current market price unavailable; unrealized P&L not computed.")
		} else {
			m.UnrealizedPL = (price - trade.EntryPrice) * trade.RemainingQuantity() * trade.Direction.Multiplier()
			m.Trace = append(m.Trace, fmt.Sprintf("Unrealized P&L on remaining %v units at market price %v.", trade.RemainingQuantity(), price))
		}
	}
	return m, nil
}

// mutate implements the read-latest, validate, write sequence shared by
// every trade mutation. The repository's version check turns a lost race
// into a recoverable conflict error rather than a silent overwrite.
func (s *TradeService) mutate(ctx context.Context, tradeID string, apply func(*domain.Trade) (*domain.Trade, error)) (*domain.Trade, error) {
	current, err := s.repo.FindByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("trade %q: %w", tradeID, ports.ErrNotFound)
	}

	wasClosed := current.Status == domain.StatusClosed

	updated, err := apply(current)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		s.logger.Error(ctx, err, "Failed to persist trade mutation", map[string]interface{}{"tradeID": tradeID})
		return nil, err
	}

	event := ports.TradeUpdated
	switch {
	case !wasClosed && updated.Status == domain.StatusClosed:
		event = ports.TradeClosed
	case wasClosed && updated.Status == domain.StatusOpen:
		event = ports.TradeReopened
	}
	s.events.Publish(ctx, ports.TradeEvent{Type: event, TradeID: tradeID})
	s.logger.Debug(ctx, "Trade mutated", map[string]interface{}{
		"tradeID":   tradeID,
		"status":    updated.Status,
		"remaining": updated.RemainingQuantity(),
	})
	return updated, nil
}
