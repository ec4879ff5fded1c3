package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tradejournal/internal/domain"
)

func entry(stop, target *float64) *domain.Trade {
	return &domain.Trade{
		Symbol:     "AAPL",
		Instrument: domain.InstrumentEquity,
		Direction:  domain.Long,
		Quantity:   10,
		EntryPrice: 100,
		EntryDate:  time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
		StopLoss:   stop,
		TakeProfit: target,
		Status:     domain.StatusOpen,
	}
}

func TestCheck_NoPolicyNoWarnings(t *testing.T) {
	c := NewChecker(Policy{}, nil)
	assert.Empty(t, c.Check(entry(nil, nil)))
}

func TestCheck_RequireStopLoss(t *testing.T) {
	c := NewChecker(Policy{RequireStopLoss: true}, nil)

	assert.Contains(t, c.Check(entry(nil, nil)), "trade has no stop loss")

	stop := 95.0
	assert.Empty(t, c.Check(entry(&stop, nil)))
}

func TestCheck_MaxRiskPerTrade(t *testing.T) {
	c := NewChecker(Policy{MaxRiskPerTrade: 40}, nil)

	stop := 95.0 // risked 50
	warnings := c.Check(entry(&stop, nil))
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "exceeds limit")

	tight := 98.0 // risked 20
	assert.Empty(t, c.Check(entry(&tight, nil)))
}

func TestCheck_MinRiskReward(t *testing.T) {
	c := NewChecker(Policy{MinRiskReward: 2}, nil)

	stop, nearTarget := 95.0, 105.0 // rr 1.0
	warnings := c.Check(entry(&stop, &nearTarget))
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "below minimum")

	farTarget := 110.0 // rr 2.0
	assert.Empty(t, c.Check(entry(&stop, &farTarget)))

	// No target set means the ratio cannot be judged.
	assert.Empty(t, c.Check(entry(&stop, nil)))
}

func TestCheck_MultipleViolations(t *testing.T) {
	c := NewChecker(Policy{RequireStopLoss: true, MaxRiskPerTrade: 10, MinRiskReward: 3}, nil)

	stop, target := 95.0, 105.0
	warnings := c.Check(entry(&stop, &target))
	assert.Len(t, warnings, 2, "risk limit and risk:reward both violated")
}
