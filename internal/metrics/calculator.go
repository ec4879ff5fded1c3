// Package metrics derives P&L and risk figures from a trade snapshot.
//
// Calculation is pure and total: insufficient input never produces an
// error or a NaN, it yields zero for the affected figure plus a
// human-readable trace line explaining which precondition failed.
package metrics

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/internal/domain"
)

// Metrics holds the derived figures for one trade.
type Metrics struct {
	ProfitLoss        float64
	ProfitLossPct     float64
	RiskedAmount      float64
	MaxPotentialGain  float64
	RiskRewardRatio   float64
	RMultiple         float64
	WeightedExitPrice float64
	LatestExitDate    *time.Time

	// UnrealizedPL is filled in by the service layer when a quote
	// provider is available and the trade is still open.
	UnrealizedPL float64

	// Trace explains, line by line, how the figures were obtained and
	// which inputs were missing.
	Trace []string
}

// TraceString joins the calculation trace into a single display string.
func (m Metrics) TraceString() string {
	return strings.Join(m.Trace, "\n")
}

// Calculator computes Metrics for trades. The point value resolver is
// only consulted for futures trades.
type Calculator struct {
	resolver PointValueResolver
}

// NewCalculator creates a calculator. A nil resolver falls back to the
// standard chain without user overrides.
func NewCalculator(resolver PointValueResolver) *Calculator {
	if resolver == nil {
		resolver = NewChain(nil)
	}
	return &Calculator{resolver: resolver}
}

// Calculate derives all metrics for the given trade. It never returns an
// error and has no side effects on the trade.
func (c *Calculator) Calculate(trade *domain.Trade) Metrics {
	var m Metrics

	if trade.EntryPrice <= 0 {
		m.Trace = append(m.Trace, "Entry price is missing.")
	}
	if trade.Quantity <= 0 {
		m.Trace = append(m.Trace, "Quantity is missing.")
	}

	dir := trade.Direction.Multiplier()
	pointValue := c.pointValue(trade, &m)

	c.profitLoss(trade, dir, &m)
	c.risk(trade, pointValue, &m)

	// Percentage return on the entry value, guarded against zero.
	if trade.EntryPrice > 0 && trade.Quantity > 0 {
		m.ProfitLossPct = m.ProfitLoss / (trade.EntryPrice * trade.Quantity) * 100
	}

	return m
}

// pointValue resolves the per-point currency value. Non-futures
// instruments always have a point value of 1.
func (c *Calculator) pointValue(trade *domain.Trade, m *Metrics) float64 {
	if trade.Instrument != domain.InstrumentFutures {
		return 1
	}
	v, _ := c.resolver.Resolve(trade)
	m.Trace = append(m.Trace, fmt.Sprintf("Futures point value resolved to %v for %s.", v, trade.Symbol))
	return v
}

// profitLoss fills ProfitLoss, WeightedExitPrice and LatestExitDate.
// Fees are always subtracted per exit; the journal carries a single fee
// policy across all calculation paths.
func (c *Calculator) profitLoss(trade *domain.Trade, dir float64, m *Metrics) {
	switch {
	case len(trade.PartialExits) > 0:
		entry := decimal.NewFromFloat(trade.EntryPrice)
		pl := decimal.Zero
		notional := decimal.Zero
		qty := decimal.Zero
		for _, pe := range trade.PartialExits {
			q := decimal.NewFromFloat(pe.Quantity)
			px := decimal.NewFromFloat(pe.ExitPrice)
			pl = pl.Add(px.Sub(entry).Mul(q).Mul(decimal.NewFromFloat(dir)))
			pl = pl.Sub(decimal.NewFromFloat(pe.Fees))
			notional = notional.Add(px.Mul(q))
			qty = qty.Add(q)
		}
		m.ProfitLoss, _ = pl.Float64()
		if qty.IsPositive() {
			m.WeightedExitPrice, _ = notional.Div(qty).Float64()
		}
		if latest := trade.LatestExit(); latest != nil {
			d := latest.ExitDate
			m.LatestExitDate = &d
		}
		m.Trace = append(m.Trace, fmt.Sprintf("Realized P&L over %d partial exits (fees subtracted per exit).", len(trade.PartialExits)))

	case trade.ExitPrice != nil && trade.Quantity > 0:
		m.ProfitLoss = (*trade.ExitPrice-trade.EntryPrice)*trade.Quantity*dir - trade.Fees
		m.WeightedExitPrice = *trade.ExitPrice
		if trade.ExitDate != nil {
			d := *trade.ExitDate
			m.LatestExitDate = &d
		}
		m.Trace = append(m.Trace, "Realized P&L from single full exit (fees subtracted).")

	default:
		m.Trace = append(m.Trace, "No exit recorded yet; realized P&L is zero.")
	}
}

// risk fills RiskedAmount, MaxPotentialGain, RiskRewardRatio and RMultiple.
func (c *Calculator) risk(trade *domain.Trade, pointValue float64, m *Metrics) {
	if trade.StopLoss == nil {
		m.Trace = append(m.Trace, "Stop loss is missing; risk figures are zero.")
		return
	}

	perUnit := math.Abs(trade.EntryPrice - *trade.StopLoss)
	m.RiskedAmount = perUnit * trade.Quantity * pointValue
	m.Trace = append(m.Trace, fmt.Sprintf("Risked amount: |%v - %v| x %v x %v = %v.",
		trade.EntryPrice, *trade.StopLoss, trade.Quantity, pointValue, m.RiskedAmount))

	if trade.TakeProfit != nil {
		m.MaxPotentialGain = math.Abs(*trade.TakeProfit-trade.EntryPrice) * trade.Quantity * pointValue
		if m.RiskedAmount > 0 {
			m.RiskRewardRatio = m.MaxPotentialGain / m.RiskedAmount
		} else {
			m.Trace = append(m.Trace, "Risked amount is zero; risk:reward ratio is zero.")
		}
	}

	if m.RiskedAmount > 0 {
		m.RMultiple = m.ProfitLoss / m.RiskedAmount
	} else {
		m.Trace = append(m.Trace, "Risked amount is zero; R-multiple is zero.")
	}
}
