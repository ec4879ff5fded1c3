// Package analytics summarizes closed trades into journal-level
// performance figures.
package analytics

import (
	"math"
	"sort"

	"tradejournal/internal/domain"
	"tradejournal/internal/metrics"
)

// Summary holds aggregate performance metrics over closed trades.
type Summary struct {
	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	WinRate       float64

	TotalProfit  float64
	GrossProfit  float64
	GrossLoss    float64
	ProfitFactor float64
	AverageWin   float64
	AverageLoss  float64
	Expectancy   float64

	AverageRMultiple     float64
	MaxConsecutiveWins   int
	MaxConsecutiveLosses int
}

// Analyze computes the summary over the closed trades in the set, in
// entry-date order. Open trades are skipped.
func Analyze(trades []*domain.Trade, calc *metrics.Calculator) Summary {
	if calc == nil {
		calc = metrics.NewCalculator(nil)
	}

	closed := make([]*domain.Trade, 0, len(trades))
	for _, t := range trades {
		if t.Status == domain.StatusClosed {
			closed = append(closed, t)
		}
	}
	sort.Slice(closed, func(i, j int) bool {
		return closed[i].EntryDate.Before(closed[j].EntryDate)
	})

	var s Summary
	var rSum float64
	var rCount int
	var consecutiveWins, consecutiveLosses int

	for _, t := range closed {
		m := calc.Calculate(t)
		s.TotalTrades++
		s.TotalProfit += m.ProfitLoss

		if m.ProfitLoss > 0 {
			s.WinningTrades++
			s.GrossProfit += m.ProfitLoss
			consecutiveWins++
			consecutiveLosses = 0
		} else {
			s.LosingTrades++
			s.GrossLoss += math.Abs(m.ProfitLoss)
			consecutiveLosses++
			consecutiveWins = 0
		}
		if consecutiveWins > s.MaxConsecutiveWins {
			s.MaxConsecutiveWins = consecutiveWins
		}
		if consecutiveLosses > s.MaxConsecutiveLosses {
			s.MaxConsecutiveLosses = consecutiveLosses
		}

		if m.RiskedAmount > 0 {
			rSum += m.RMultiple
			rCount++
		}
	}

	if s.TotalTrades > 0 {
		s.WinRate = float64(s.WinningTrades) / float64(s.TotalTrades)
		s.Expectancy = s.TotalProfit / float64(s.TotalTrades)
	}
	if s.WinningTrades > 0 {
		s.AverageWin = s.GrossProfit / float64(s.WinningTrades)
	}
	if s.LosingTrades > 0 {
		s.AverageLoss = s.GrossLoss / float64(s.LosingTrades)
	}
	if s.GrossLoss > 0 {
		s.ProfitFactor = s.GrossProfit / s.GrossLoss
	}
	if rCount > 0 {
		s.AverageRMultiple = rSum / float64(rCount)
	}
	return s
}
