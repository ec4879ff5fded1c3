package domain

// InstrumentType classifies what kind of instrument a trade was taken on.
type InstrumentType string

const (
	InstrumentEquity  InstrumentType = "equity"
	InstrumentFutures InstrumentType = "futures"
	InstrumentOption  InstrumentType = "option"
	InstrumentForex   InstrumentType = "forex"
	InstrumentCrypto  InstrumentType = "crypto"
)

// IsValid reports whether the instrument type is one of the known values.
func (it InstrumentType) IsValid() bool {
	switch it {
	case InstrumentEquity, InstrumentFutures, InstrumentOption, InstrumentForex, InstrumentCrypto:
		return true
	}
	return false
}

// Direction represents the side of a trade.
type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// IsValid reports whether the direction is one of the known values.
func (d Direction) IsValid() bool {
	return d == Long || d == Short
}

// Multiplier returns +1 for long trades and -1 for short trades, so that
// (exit - entry) * quantity * Multiplier() yields signed profit on either side.
func (d Direction) Multiplier() float64 {
	if d == Short {
		return -1
	}
	return 1
}

// TradeStatus represents the lifecycle state of a trade.
type TradeStatus string

const (
	StatusOpen   TradeStatus = "open"
	StatusClosed TradeStatus = "closed"
)
