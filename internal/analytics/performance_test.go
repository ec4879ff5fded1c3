package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tradejournal/internal/domain"
)

func closedTrade(day int, entry, exit, qty float64) *domain.Trade {
	exitDate := time.Date(2025, 3, day, 16, 0, 0, 0, time.UTC)
	return &domain.Trade{
		Symbol:     "AAPL",
		Instrument: domain.InstrumentEquity,
		Direction:  domain.Long,
		Quantity:   qty,
		EntryPrice: entry,
		EntryDate:  time.Date(2025, 3, day, 9, 30, 0, 0, time.UTC),
		ExitPrice:  &exit,
		ExitDate:   &exitDate,
		Status:     domain.StatusClosed,
	}
}

func TestAnalyze_Empty(t *testing.T) {
	s := Analyze(nil, nil)
	assert.Equal(t, 0, s.TotalTrades)
	assert.Equal(t, 0.0, s.WinRate)
}

func TestAnalyze_SkipsOpenTrades(t *testing.T) {
	open := &domain.Trade{
		Symbol:     "AAPL",
		Instrument: domain.InstrumentEquity,
		Direction:  domain.Long,
		Quantity:   10,
		EntryPrice: 100,
		EntryDate:  time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
		Status:     domain.StatusOpen,
	}

	s := Analyze([]*domain.Trade{open, closedTrade(2, 100, 105, 10)}, nil)
	assert.Equal(t, 1, s.TotalTrades)
}

func TestAnalyze_WinLossAccounting(t *testing.T) {
	trades := []*domain.Trade{
		closedTrade(1, 100, 110, 10), // +100
		closedTrade(2, 100, 95, 10),  // -50
		closedTrade(3, 100, 104, 10), // +40
	}

	s := Analyze(trades, nil)

	assert.Equal(t, 3, s.TotalTrades)
	assert.Equal(t, 2, s.WinningTrades)
	assert.Equal(t, 1, s.LosingTrades)
	assert.InDelta(t, 2.0/3.0, s.WinRate, 1e-9)
	assert.InDelta(t, 90.0, s.TotalProfit, 1e-9)
	assert.InDelta(t, 140.0, s.GrossProfit, 1e-9)
	assert.InDelta(t, 50.0, s.GrossLoss, 1e-9)
	assert.InDelta(t, 140.0/50.0, s.ProfitFactor, 1e-9)
	assert.InDelta(t, 70.0, s.AverageWin, 1e-9)
	assert.InDelta(t, 50.0, s.AverageLoss, 1e-9)
	assert.InDelta(t, 30.0, s.Expectancy, 1e-9)
}

func TestAnalyze_ConsecutiveStreaksFollowEntryDate(t *testing.T) {
	// Deliberately shuffled: analysis must order by entry date.
	trades := []*domain.Trade{
		closedTrade(5, 100, 95, 10),  // loss
		closedTrade(1, 100, 110, 10), // win
		closedTrade(4, 100, 96, 10),  // loss
		closedTrade(2, 100, 105, 10), // win
		closedTrade(3, 100, 102, 10), // win
	}

	s := Analyze(trades, nil)
	assert.Equal(t, 3, s.MaxConsecutiveWins)
	assert.Equal(t, 2, s.MaxConsecutiveLosses)
}

func TestAnalyze_AverageRMultipleNeedsRiskedTrades(t *testing.T) {
	withStop := closedTrade(1, 100, 110, 10)
	stop := 95.0
	withStop.StopLoss = &stop // risked 50, made 100, R = 2

	trades := []*domain.Trade{
		withStop,
		closedTrade(2, 100, 105, 10), // no stop, excluded from R average
	}

	s := Analyze(trades, nil)
	assert.InDelta(t, 2.0, s.AverageRMultiple, 1e-9)
}
