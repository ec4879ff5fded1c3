package ports

import "context"

// TradeEventType distinguishes the mutations observers may care about.
type TradeEventType string

const (
	TradeCreated  TradeEventType = "trade.created"
	TradeUpdated  TradeEventType = "trade.updated"
	TradeClosed   TradeEventType = "trade.closed"
	TradeReopened TradeEventType = "trade.reopened"
	TradeDeleted  TradeEventType = "trade.deleted"
)

// TradeEvent is published after a successful mutation so interested
// observers (list views, detail views) can refresh from the repository.
type TradeEvent struct {
	Type    TradeEventType
	TradeID string
}

// EventPublisher notifies observers of trade changes. Delivery is
// best-effort and in-process; publishing must never fail a mutation.
type EventPublisher interface {
	Publish(ctx context.Context, event TradeEvent)
}
