package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tradejournal/internal/domain"
	"tradejournal/internal/ports"
)

// Client pushes and pulls whole trade records against a remote sync
// server. Transfers are best-effort: a failure on one record is logged
// and counted, the rest still sync.
type Client struct {
	baseURL string
	http    *http.Client
	repo    ports.TradeRepository
	logger  ports.Logger
}

// NewClient creates a sync client for the given remote base URL
// (e.g. "https://journal.example.com").
func NewClient(baseURL string, repo ports.TradeRepository, logger ports.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("remote sync URL is required: %w", ports.ErrConfigurationError)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		repo:    repo,
		logger:  logger,
	}, nil
}

// Push uploads every local trade to the remote. Returns the number of
// records pushed and the number of failures.
func (c *Client) Push(ctx context.Context) (pushed, failed int, err error) {
	trades, err := c.repo.FindAll(ctx)
	if err != nil {
		return 0, 0, err
	}
	for _, trade := range trades {
		if perr := c.putTrade(ctx, trade); perr != nil {
			c.logger.Warn(ctx, "Failed to push trade", map[string]interface{}{"tradeID": trade.ID, "error": perr.Error()})
			failed++
			continue
		}
		pushed++
	}
	c.logger.Info(ctx, "Push complete", map[string]interface{}{"pushed": pushed, "failed": failed})
	return pushed, failed, nil
}

// Pull downloads every remote trade and upserts it locally, last write
// wins. Returns the number of records applied and the number of failures.
func (c *Client) Pull(ctx context.Context) (pulled, failed int, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/trades", nil)
	if err != nil {
		return 0, 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("pull from %s: %w", c.baseURL, ports.ErrRemoteUnavailable)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("pull from %s: status %d: %w", c.baseURL, resp.StatusCode, ports.ErrRemoteUnavailable)
	}

	var trades []*domain.Trade
	if err := json.NewDecoder(resp.Body).Decode(&trades); err != nil {
		return 0, 0, fmt.Errorf("failed to decode pull response: %w", err)
	}

	for _, trade := range trades {
		if uerr := c.upsert(ctx, trade); uerr != nil {
			c.logger.Warn(ctx, "Failed to apply pulled trade", map[string]interface{}{"tradeID": trade.ID, "error": uerr.Error()})
			failed++
			continue
		}
		pulled++
	}
	c.logger.Info(ctx, "Pull complete", map[string]interface{}{"pulled": pulled, "failed": failed})
	return pulled, failed, nil
}

func (c *Client) putTrade(ctx context.Context, trade *domain.Trade) error {
	body, err := json.Marshal(trade)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/trades/"+trade.ID, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("put trade %s: %w", trade.ID, ports.ErrRemoteUnavailable)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("put trade %s: status %d", trade.ID, resp.StatusCode)
	}
	return nil
}

func (c *Client) upsert(ctx context.Context, trade *domain.Trade) error {
	existing, err := c.repo.FindByID(ctx, trade.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return c.repo.Create(ctx, trade)
	}
	trade.Version = existing.Version
	return c.repo.Update(ctx, trade)
}
