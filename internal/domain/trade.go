package domain

import (
	"sort"
	"time"
)

// ContractDetails carries the futures contract specification for a trade.
// Only populated when the instrument type is futures.
type ContractDetails struct {
	Exchange     string  `json:"exchange,omitempty"`
	ContractSize float64 `json:"contractSize,omitempty"`
	TickSize     float64 `json:"tickSize,omitempty"`
	TickValue    float64 `json:"tickValue,omitempty"`
}

// PartialExit records closing part of a trade's quantity at a specific
// price and date. Exits are stored in insertion order; ordering is never
// semantically meaningful, aggregate fields always sort by exit date.
type PartialExit struct {
	ID        string    `json:"id"`
	Quantity  float64   `json:"quantity"`
	ExitPrice float64   `json:"exitPrice"`
	ExitDate  time.Time `json:"exitDate"`
	Fees      float64   `json:"fees,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

// Trade is the aggregate root of the journal: a position with entry terms,
// optional risk levels, and zero or more exits.
type Trade struct {
	ID         string         `json:"id"`
	Symbol     string         `json:"symbol"`
	Instrument InstrumentType `json:"instrument"`
	Direction  Direction      `json:"direction"`

	Quantity   float64   `json:"quantity"` // original total size, not remaining
	EntryPrice float64   `json:"entryPrice"`
	EntryDate  time.Time `json:"entryDate"`
	Fees       float64   `json:"fees,omitempty"` // aggregate, recomputed on full exit

	StopLoss   *float64 `json:"stopLoss,omitempty"`
	TakeProfit *float64 `json:"takeProfit,omitempty"`

	// Aggregate exit fields, derived from partial exits when those are used.
	// Nil while the trade is open.
	ExitPrice *float64   `json:"exitPrice,omitempty"` // quantity-weighted average
	ExitDate  *time.Time `json:"exitDate,omitempty"`  // latest exit date

	Status       TradeStatus   `json:"status"`
	PartialExits []PartialExit `json:"partialExits,omitempty"`

	Contract *ContractDetails `json:"contractDetails,omitempty"`

	// Journal annotations, not used by any calculation.
	Notes    string   `json:"notes,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Strategy string   `json:"strategy,omitempty"`

	// Version is a monotonic counter used for optimistic concurrency on
	// save. Zero for a trade that has never been persisted.
	Version int64 `json:"version"`
}

// TotalExitedQuantity returns the sum of all partial exit quantities.
func (t *Trade) TotalExitedQuantity() float64 {
	var total float64
	for _, pe := range t.PartialExits {
		total += pe.Quantity
	}
	return total
}

// RemainingQuantity returns the quantity still open, floored at zero.
func (t *Trade) RemainingQuantity() float64 {
	rem := t.Quantity - t.TotalExitedQuantity()
	if rem < 0 {
		return 0
	}
	return rem
}

// IsFullyExited reports whether partial exits cover the whole position.
func (t *Trade) IsFullyExited() bool {
	return len(t.PartialExits) > 0 && t.RemainingQuantity() == 0
}

// IsOpen reports whether the trade status is open.
func (t *Trade) IsOpen() bool {
	return t.Status == StatusOpen
}

// FindPartialExit returns the index of the exit with the given ID, or -1.
func (t *Trade) FindPartialExit(exitID string) int {
	for i := range t.PartialExits {
		if t.PartialExits[i].ID == exitID {
			return i
		}
	}
	return -1
}

// ExitsByDateDesc returns the partial exits sorted by exit date, most
// recent first. Ties keep insertion order.
func (t *Trade) ExitsByDateDesc() []PartialExit {
	out := make([]PartialExit, len(t.PartialExits))
	copy(out, t.PartialExits)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExitDate.After(out[j].ExitDate)
	})
	return out
}

// LatestExit returns the partial exit with the latest exit date, or nil
// when the trade has no partial exits.
func (t *Trade) LatestExit() *PartialExit {
	if len(t.PartialExits) == 0 {
		return nil
	}
	latest := t.ExitsByDateDesc()[0]
	return &latest
}

// Clone returns a deep copy of the trade. Mutation operations work on a
// copy so a failed validation never leaves a half-mutated aggregate behind.
func (t *Trade) Clone() *Trade {
	c := *t
	if t.StopLoss != nil {
		v := *t.StopLoss
		c.StopLoss = &v
	}
	if t.TakeProfit != nil {
		v := *t.TakeProfit
		c.TakeProfit = &v
	}
	if t.ExitPrice != nil {
		v := *t.ExitPrice
		c.ExitPrice = &v
	}
	if t.ExitDate != nil {
		v := *t.ExitDate
		c.ExitDate = &v
	}
	if t.Contract != nil {
		v := *t.Contract
		c.Contract = &v
	}
	if t.PartialExits != nil {
		c.PartialExits = make([]PartialExit, len(t.PartialExits))
		copy(c.PartialExits, t.PartialExits)
	}
	if t.Tags != nil {
		c.Tags = make([]string, len(t.Tags))
		copy(c.Tags, t.Tags)
	}
	return &c
}
