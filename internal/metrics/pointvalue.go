package metrics

import (
	"strings"

	"tradejournal/internal/domain"
)

// PointValueResolver resolves the currency value of one point of price
// movement for a futures trade. Resolvers are tried in order; the first
// one that reports ok wins.
type PointValueResolver interface {
	Resolve(trade *domain.Trade) (value float64, ok bool)
}

// Chain tries each resolver in sequence and falls back to defaultPointValue
// when none matches.
type Chain []PointValueResolver

// defaultPointValue is the last-resort point value for unrecognized
// futures symbols.
const defaultPointValue = 1000

// Resolve walks the chain. It always succeeds; the final tier is the
// unconditional default.
func (c Chain) Resolve(trade *domain.Trade) (float64, bool) {
	for _, r := range c {
		if v, ok := r.Resolve(trade); ok {
			return v, true
		}
	}
	return defaultPointValue, true
}

// NewChain builds the standard resolution order: user overrides, contract
// details, static table, symbol-pattern fallback. overrides may be nil.
func NewChain(overrides map[string]float64) Chain {
	return Chain{
		OverrideResolver(overrides),
		ContractResolver{},
		TableResolver{},
		PatternResolver{},
	}
}

// OverrideResolver resolves from user-configured symbol overrides
// (POINT_VALUES in the environment).
type OverrideResolver map[string]float64

func (o OverrideResolver) Resolve(trade *domain.Trade) (float64, bool) {
	if o == nil {
		return 0, false
	}
	v, ok := o[strings.ToUpper(trade.Symbol)]
	return v, ok && v > 0
}

// ContractResolver resolves from the contract details attached to the
// trade itself.
type ContractResolver struct{}

func (ContractResolver) Resolve(trade *domain.Trade) (float64, bool) {
	if trade.Contract == nil || trade.Contract.TickValue <= 0 {
		return 0, false
	}
	return trade.Contract.TickValue, true
}

// pointValues holds dollar point values for common futures contracts.
var pointValues = map[string]float64{
	// Equity index
	"ES": 50, "NQ": 20, "YM": 5, "RTY": 50,
	"MES": 5, "MNQ": 2, "MYM": 0.5, "M2K": 5,
	// Energy
	"CL": 1000, "MCL": 100, "NG": 10000, "RB": 42000, "HO": 42000,
	// Metals
	"GC": 100, "MGC": 10, "SI": 5000, "SIL": 1000, "HG": 25000, "PL": 50,
	// Rates
	"ZB": 1000, "ZN": 1000, "ZF": 1000, "ZT": 2000,
	// Grains
	"ZC": 50, "ZS": 50, "ZW": 50, "ZL": 600, "ZM": 100,
	// FX
	"6E": 125000, "6B": 62500, "6J": 12500000, "6A": 100000, "6C": 100000,
}

// TableResolver resolves by exact symbol lookup in the static table.
type TableResolver struct{}

func (TableResolver) Resolve(trade *domain.Trade) (float64, bool) {
	v, ok := pointValues[strings.ToUpper(trade.Symbol)]
	return v, ok
}

// PatternResolver handles symbols that carry a month/year suffix
// (e.g. "ESZ5", "MNQH26") by matching the longest known root prefix.
type PatternResolver struct{}

func (PatternResolver) Resolve(trade *domain.Trade) (float64, bool) {
	symbol := strings.ToUpper(trade.Symbol)
	var best string
	for root := range pointValues {
		if strings.HasPrefix(symbol, root) && len(root) > len(best) {
			best = root
		}
	}
	if best == "" {
		return 0, false
	}
	return pointValues[best], true
}
