package ports

import (
	"context"

	"tradejournal/internal/domain"
)

// TradeRepository defines the interface for storing and retrieving trades
// together with their partial exits. Implementations replace the whole
// record on update (no field-level merge).
type TradeRepository interface {
	// Create saves a new trade. The ID must already be assigned; the
	// repository sets the initial version on the passed trade.
	Create(ctx context.Context, trade *domain.Trade) error
	// Update replaces an existing trade wholesale. The write is rejected
	// with ErrConflict when the stored version no longer matches
	// trade.Version; on success the version on the passed trade is bumped.
	Update(ctx context.Context, trade *domain.Trade) error
	// FindByID retrieves a trade by its unique ID.
	// Returns nil, nil if not found.
	FindByID(ctx context.Context, id string) (*domain.Trade, error)
	// FindAll retrieves all trades, ordered by entry date descending.
	FindAll(ctx context.Context) ([]*domain.Trade, error)
	// Delete removes a trade and its partial exits. Returns ErrNotFound
	// (wrapped) when no such trade exists.
	Delete(ctx context.Context, id string) error
}
