// Package ledger implements the partial-exit settlement rules for a trade:
// quantity conservation, weighted-average exit aggregation, and the
// open/closed transition driven by remaining quantity.
//
// All functions are pure: they validate against a clone of the input trade
// and either return the updated clone or an error with the original left
// untouched.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/internal/domain"
	"tradejournal/internal/ports"
)

// ExitInput carries the user-supplied fields of a partial exit.
type ExitInput struct {
	Quantity  float64
	ExitPrice float64
	ExitDate  time.Time
	Fees      float64
	Notes     string
}

func (in ExitInput) validate() error {
	if in.Quantity <= 0 {
		return ports.NewValidationError("quantity", "quantity must be positive")
	}
	if in.ExitPrice <= 0 {
		return ports.NewValidationError("exitPrice", "exit price required")
	}
	if in.ExitDate.IsZero() {
		return ports.NewValidationError("exitDate", "exit date required")
	}
	if in.Fees < 0 {
		return ports.NewValidationError("fees", "fees cannot be negative")
	}
	return nil
}

// Add appends a new partial exit with the given id and settles the trade.
//
// Special case: a trade closed through the legacy single-exit path
// (status closed, exit price set, no partials) converts into the
// partial-exit model by recording its first exit at the full original
// quantity, preserving the existing aggregate exit fields.
func Add(trade *domain.Trade, exitID string, in ExitInput) (*domain.Trade, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	t := trade.Clone()

	if isLegacyClosed(t) {
		t.PartialExits = append(t.PartialExits, domain.PartialExit{
			ID:        exitID,
			Quantity:  t.Quantity,
			ExitPrice: in.ExitPrice,
			ExitDate:  in.ExitDate,
			Fees:      in.Fees,
			Notes:     in.Notes,
		})
		// Status and aggregates stay as the user originally entered them.
		return t, nil
	}

	if in.Quantity > t.RemainingQuantity() {
		return nil, ports.NewValidationError("quantity", "cannot exceed remaining quantity")
	}

	t.PartialExits = append(t.PartialExits, domain.PartialExit{
		ID:        exitID,
		Quantity:  in.Quantity,
		ExitPrice: in.ExitPrice,
		ExitDate:  in.ExitDate,
		Fees:      in.Fees,
		Notes:     in.Notes,
	})
	settle(t)
	return t, nil
}

// Edit replaces the fields of an existing partial exit and settles the
// trade. The exit may grow up to remaining quantity plus its own current
// quantity.
func Edit(trade *domain.Trade, exitID string, in ExitInput) (*domain.Trade, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	idx := trade.FindPartialExit(exitID)
	if idx < 0 {
		return nil, ports.ErrNotFound
	}

	maxQuantity := trade.RemainingQuantity() + trade.PartialExits[idx].Quantity
	if in.Quantity > maxQuantity {
		return nil, ports.NewValidationError("quantity", "cannot exceed remaining quantity")
	}

	t := trade.Clone()
	pe := &t.PartialExits[idx]
	pe.Quantity = in.Quantity
	pe.ExitPrice = in.ExitPrice
	pe.ExitDate = in.ExitDate
	pe.Fees = in.Fees
	pe.Notes = in.Notes
	settle(t)
	return t, nil
}

// Remove deletes a partial exit and settles the trade. Removing an exit
// from a fully-exited trade reopens it and clears the aggregate fields.
func Remove(trade *domain.Trade, exitID string) (*domain.Trade, error) {
	idx := trade.FindPartialExit(exitID)
	if idx < 0 {
		return nil, ports.ErrNotFound
	}

	t := trade.Clone()
	t.PartialExits = append(t.PartialExits[:idx], t.PartialExits[idx+1:]...)
	settle(t)
	return t, nil
}

// isLegacyClosed reports whether the trade was closed directly with a
// single exit price before any partial exits were recorded.
func isLegacyClosed(t *domain.Trade) bool {
	return t.Status == domain.StatusClosed && t.ExitPrice != nil && len(t.PartialExits) == 0
}

// settle re-derives status and aggregate exit fields from the partial
// exits. Closed iff the remaining quantity is zero; reopening clears the
// derived aggregates.
func settle(t *domain.Trade) {
	if len(t.PartialExits) > 0 && t.RemainingQuantity() <= 0 {
		t.Status = domain.StatusClosed
		price := weightedExitPrice(t.PartialExits)
		t.ExitPrice = &price
		latest := t.LatestExit().ExitDate
		t.ExitDate = &latest
		t.Fees = totalFees(t.PartialExits)
		return
	}

	t.Status = domain.StatusOpen
	t.ExitPrice = nil
	t.ExitDate = nil
	t.Fees = 0
}

// weightedExitPrice computes the quantity-weighted average exit price.
// Decimal arithmetic keeps the average exact for typical price inputs.
func weightedExitPrice(exits []domain.PartialExit) float64 {
	notional := decimal.Zero
	qty := decimal.Zero
	for _, pe := range exits {
		q := decimal.NewFromFloat(pe.Quantity)
		notional = notional.Add(decimal.NewFromFloat(pe.ExitPrice).Mul(q))
		qty = qty.Add(q)
	}
	if !qty.IsPositive() {
		return 0
	}
	v, _ := notional.Div(qty).Float64()
	return v
}

func totalFees(exits []domain.PartialExit) float64 {
	total := decimal.Zero
	for _, pe := range exits {
		total = total.Add(decimal.NewFromFloat(pe.Fees))
	}
	v, _ := total.Float64()
	return v
}
