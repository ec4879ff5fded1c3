// Package risk reviews trade entries against a configured risk policy.
// Violations are advisory: the journal records the trade anyway and
// surfaces the warnings, it is a diary, not a gatekeeper.
package risk

import (
	"fmt"

	"tradejournal/internal/domain"
	"tradejournal/internal/metrics"
)

// Policy holds the journal owner's risk limits. Zero values disable the
// corresponding check.
type Policy struct {
	MaxRiskPerTrade float64 // currency amount risked on a single trade
	MinRiskReward   float64 // minimum acceptable risk:reward ratio
	RequireStopLoss bool
}

// Checker evaluates trades against a policy.
type Checker struct {
	policy Policy
	calc   *metrics.Calculator
}

// NewChecker creates a checker. A nil calculator falls back to the default.
func NewChecker(policy Policy, calc *metrics.Calculator) *Checker {
	if calc == nil {
		calc = metrics.NewCalculator(nil)
	}
	return &Checker{policy: policy, calc: calc}
}

// Check returns human-readable warnings for every policy violation.
// An empty slice means the trade passes review.
func (c *Checker) Check(trade *domain.Trade) []string {
	var warnings []string
	m := c.calc.Calculate(trade)

	if c.policy.RequireStopLoss && trade.StopLoss == nil {
		warnings = append(warnings, "trade has no stop loss")
	}
	if c.policy.MaxRiskPerTrade > 0 && m.RiskedAmount > c.policy.MaxRiskPerTrade {
		warnings = append(warnings, fmt.Sprintf("risked amount %.2f exceeds limit %.2f", m.RiskedAmount, c.policy.MaxRiskPerTrade))
	}
	if c.policy.MinRiskReward > 0 && trade.TakeProfit != nil && m.RiskRewardRatio > 0 && m.RiskRewardRatio < c.policy.MinRiskReward {
		warnings = append(warnings, fmt.Sprintf("risk:reward %.2f is below minimum %.2f", m.RiskRewardRatio, c.policy.MinRiskReward))
	}
	return warnings
}
