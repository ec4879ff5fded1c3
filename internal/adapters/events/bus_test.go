package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"tradejournal/internal/ports"
)

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	b := NewBus()
	// Must not panic or block.
	b.Publish(context.Background(), ports.TradeEvent{Type: ports.TradeCreated, TradeID: "t1"})
}

func TestBus_DeliversToAllSubscribers(t *testing.T) {
	b := NewBus()

	var first, second []ports.TradeEvent
	b.Subscribe(func(e ports.TradeEvent) { first = append(first, e) })
	b.Subscribe(func(e ports.TradeEvent) { second = append(second, e) })

	b.Publish(context.Background(), ports.TradeEvent{Type: ports.TradeClosed, TradeID: "t1"})
	b.Publish(context.Background(), ports.TradeEvent{Type: ports.TradeReopened, TradeID: "t1"})

	assert.Len(t, first, 2)
	assert.Len(t, second, 2)
	assert.Equal(t, ports.TradeClosed, first[0].Type)
	assert.Equal(t, ports.TradeReopened, first[1].Type)
}

func TestBus_SubscribeDuringDelivery(t *testing.T) {
	b := NewBus()

	delivered := 0
	b.Subscribe(func(e ports.TradeEvent) {
		delivered++
		// Subscribing from a handler must not deadlock.
		b.Subscribe(func(ports.TradeEvent) {})
	})

	b.Publish(context.Background(), ports.TradeEvent{Type: ports.TradeUpdated, TradeID: "t1"})
	assert.Equal(t, 1, delivered)
}
