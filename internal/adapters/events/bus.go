// Package events provides an in-process implementation of
// ports.EventPublisher: a plain observer list, no ambient globals.
package events

import (
	"context"
	"sync"

	"tradejournal/internal/ports"
)

// Handler receives trade events. Handlers run synchronously on the
// publishing goroutine and must not block.
type Handler func(event ports.TradeEvent)

// Bus is a minimal synchronous event bus.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

var _ ports.EventPublisher = (*Bus)(nil)

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all future events.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers the event to every subscriber. Never fails; a bus with
// no subscribers is valid.
func (b *Bus) Publish(ctx context.Context, event ports.TradeEvent) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}
