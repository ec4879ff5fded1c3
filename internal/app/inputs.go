package app

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"tradejournal/internal/domain"
	"tradejournal/internal/ports"
)

// CreateTradeInput carries the entry-form fields for a new trade. A trade
// may be entered as already closed (historical entry) by supplying
// ExitPrice and ExitDate.
type CreateTradeInput struct {
	Symbol     string                `validate:"required"`
	Instrument domain.InstrumentType `validate:"required"`
	Direction  domain.Direction      `validate:"required"`
	Quantity   float64               `validate:"gt=0"`
	EntryPrice float64               `validate:"gt=0"`
	EntryDate  time.Time             `validate:"required"`
	Fees       float64               `validate:"gte=0"`

	StopLoss   *float64 `validate:"omitempty,gt=0"`
	TakeProfit *float64 `validate:"omitempty,gt=0"`

	ExitPrice *float64   `validate:"omitempty,gt=0"`
	ExitDate  *time.Time `validate:"-"`

	Contract *domain.ContractDetails
	Notes    string
	Tags     []string
	Strategy string
}

// ExitInput carries the fields of a partial exit as entered by the user.
type ExitInput struct {
	Quantity  float64   `validate:"gt=0"`
	ExitPrice float64   `validate:"gt=0"`
	ExitDate  time.Time `validate:"required"`
	Fees      float64   `validate:"gte=0"`
	Notes     string
}

// CloseInput carries the fields of a direct full exit.
type CloseInput struct {
	ExitPrice float64   `validate:"gt=0"`
	ExitDate  time.Time `validate:"required"`
	Fees      float64   `validate:"gte=0"`
}

// checkInput runs struct-tag validation and converts the first failure
// into a user-facing ValidationError.
func checkInput(v *validator.Validate, in interface{}) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "gt":
			return ports.NewValidationError(fe.Field(), "must be positive")
		case "gte":
			return ports.NewValidationError(fe.Field(), "cannot be negative")
		default:
			return ports.NewValidationError(fe.Field(), "is required")
		}
	}
	return ports.NewValidationError("", err.Error())
}
