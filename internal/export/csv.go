// Package export reads and writes the journal as flat CSV, one row per
// trade with the aggregate exit fields. Import goes through the trade
// service so every lifecycle invariant still holds.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"tradejournal/internal/app"
	"tradejournal/internal/domain"
)

var header = []string{
	"id", "symbol", "instrument", "direction", "quantity", "entry_price",
	"entry_date", "fees", "stop_loss", "take_profit", "exit_price",
	"exit_date", "status", "strategy", "notes",
}

// WriteTrades writes the trades as CSV.
func WriteTrades(w io.Writer, trades []*domain.Trade) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return err
	}
	for _, t := range trades {
		row := []string{
			t.ID,
			t.Symbol,
			string(t.Instrument),
			string(t.Direction),
			formatFloat(t.Quantity),
			formatFloat(t.EntryPrice),
			t.EntryDate.Format(time.RFC3339),
			formatFloat(t.Fees),
			formatOptFloat(t.StopLoss),
			formatOptFloat(t.TakeProfit),
			formatOptFloat(t.ExitPrice),
			formatOptDate(t.ExitDate),
			string(t.Status),
			t.Strategy,
			t.Notes,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

// ImportTrades reads CSV rows and creates one trade per row through the
// service. Returns the number of trades created; stops on the first
// malformed row.
func ImportTrades(ctx context.Context, r io.Reader, svc *app.TradeService) (int, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}
	// Skip a header row if present.
	if records[0][0] == "id" || records[0][0] == "symbol" {
		records = records[1:]
	}

	created := 0
	for i, row := range records {
		in, err := rowToInput(row)
		if err != nil {
			return created, fmt.Errorf("row %d: %w", i+1, err)
		}
		if _, err := svc.CreateTrade(ctx, in); err != nil {
			return created, fmt.Errorf("row %d: %w", i+1, err)
		}
		created++
	}
	return created, nil
}

func rowToInput(row []string) (app.CreateTradeInput, error) {
	var in app.CreateTradeInput
	if len(row) < len(header) {
		return in, fmt.Errorf("expected %d columns, got %d", len(header), len(row))
	}

	quantity, err := strconv.ParseFloat(row[4], 64)
	if err != nil {
		return in, fmt.Errorf("invalid quantity %q", row[4])
	}
	entryPrice, err := strconv.ParseFloat(row[5], 64)
	if err != nil {
		return in, fmt.Errorf("invalid entry price %q", row[5])
	}
	entryDate, err := time.Parse(time.RFC3339, row[6])
	if err != nil {
		return in, fmt.Errorf("invalid entry date %q", row[6])
	}
	fees := 0.0
	if row[7] != "" {
		if fees, err = strconv.ParseFloat(row[7], 64); err != nil {
			return in, fmt.Errorf("invalid fees %q", row[7])
		}
	}

	in = app.CreateTradeInput{
		Symbol:     row[1],
		Instrument: domain.InstrumentType(row[2]),
		Direction:  domain.Direction(row[3]),
		Quantity:   quantity,
		EntryPrice: entryPrice,
		EntryDate:  entryDate,
		Fees:       fees,
		Strategy:   row[13],
		Notes:      row[14],
	}
	if in.StopLoss, err = parseOptFloat(row[8]); err != nil {
		return in, fmt.Errorf("invalid stop loss %q", row[8])
	}
	if in.TakeProfit, err = parseOptFloat(row[9]); err != nil {
		return in, fmt.Errorf("invalid take profit %q", row[9])
	}
	if in.ExitPrice, err = parseOptFloat(row[10]); err != nil {
		return in, fmt.Errorf("invalid exit price %q", row[10])
	}
	if row[11] != "" {
		d, err := time.Parse(time.RFC3339, row[11])
		if err != nil {
			return in, fmt.Errorf("invalid exit date %q", row[11])
		}
		in.ExitDate = &d
	}
	return in, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatOptDate(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.Format(time.RFC3339)
}

func parseOptFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
