package ports

import "context"

// QuoteProvider returns the current market price for a symbol. Used to
// attach an unrealized P&L figure to metrics of open trades; optional, a
// journal works fully without it.
type QuoteProvider interface {
	LastPrice(ctx context.Context, symbol string) (float64, error)
}
