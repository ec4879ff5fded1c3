// Package binanceclient implements ports.QuoteProvider against the
// Binance spot API. Only used to price open crypto positions for the
// unrealized P&L display; the journal never places orders.
package binanceclient

import (
	"context"
	"fmt"
	"strconv"

	"github.com/adshao/go-binance/v2"

	"tradejournal/internal/ports"
)

// Client wraps the Binance REST client as a quote provider.
type Client struct {
	client *binance.Client
	logger ports.Logger
}

// Config holds configuration for the Binance quote client. API keys are
// optional; public ticker endpoints do not require authentication.
type Config struct {
	APIKey    string
	SecretKey string
	Logger    ports.Logger
}

var _ ports.QuoteProvider = (*Client)(nil)

// New creates a new Binance quote client.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Binance client")
	}
	return &Client{
		client: binance.NewClient(cfg.APIKey, cfg.SecretKey),
		logger: cfg.Logger,
	}, nil
}

// LastPrice returns the latest traded price for the symbol.
func (c *Client) LastPrice(ctx context.Context, symbol string) (float64, error) {
	prices, err := c.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		c.logger.Warn(ctx, "Binance price lookup failed", map[string]interface{}{"symbol": symbol, "error": err.Error()})
		return 0, fmt.Errorf("price lookup for %s: %w", symbol, ports.ErrQuoteUnavailable)
	}
	if len(prices) == 0 {
		return 0, fmt.Errorf("no price returned for %s: %w", symbol, ports.ErrQuoteUnavailable)
	}
	price, err := strconv.ParseFloat(prices[0].Price, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse price %q for %s: %w", prices[0].Price, symbol, err)
	}
	return price, nil
}
