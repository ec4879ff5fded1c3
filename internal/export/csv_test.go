package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradejournal/internal/app"
	"tradejournal/internal/domain"
	"tradejournal/internal/ports"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

type memRepo struct {
	trades map[string]*domain.Trade
}

func (m *memRepo) Create(ctx context.Context, trade *domain.Trade) error {
	trade.Version = 1
	m.trades[trade.ID] = trade.Clone()
	return nil
}

func (m *memRepo) Update(ctx context.Context, trade *domain.Trade) error {
	m.trades[trade.ID] = trade.Clone()
	return nil
}

func (m *memRepo) FindByID(ctx context.Context, id string) (*domain.Trade, error) {
	trade, ok := m.trades[id]
	if !ok {
		return nil, nil
	}
	return trade.Clone(), nil
}

func (m *memRepo) FindAll(ctx context.Context) ([]*domain.Trade, error) {
	out := make([]*domain.Trade, 0, len(m.trades))
	for _, t := range m.trades {
		out = append(out, t.Clone())
	}
	return out, nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	delete(m.trades, id)
	return nil
}

type seqIDs struct{ n int }

func (s *seqIDs) NewID() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

type nopEvents struct{}

func (nopEvents) Publish(ctx context.Context, event ports.TradeEvent) {}

func newService(t *testing.T) (*app.TradeService, *memRepo) {
	t.Helper()
	repo := &memRepo{trades: make(map[string]*domain.Trade)}
	svc, err := app.NewTradeService(app.Config{
		Logger: &mockLogger{},
		Repo:   repo,
		IDs:    &seqIDs{},
		Events: nopEvents{},
	})
	require.NoError(t, err)
	return svc, repo
}

func TestWriteTrades(t *testing.T) {
	stop := 95.0
	exitPrice := 106.8
	exitDate := time.Date(2025, 3, 12, 16, 0, 0, 0, time.UTC)
	trades := []*domain.Trade{
		{
			ID:         "t1",
			Symbol:     "AAPL",
			Instrument: domain.InstrumentEquity,
			Direction:  domain.Long,
			Quantity:   10,
			EntryPrice: 100,
			EntryDate:  time.Date(2025, 3, 1, 15, 30, 0, 0, time.UTC),
			Fees:       3,
			StopLoss:   &stop,
			ExitPrice:  &exitPrice,
			ExitDate:   &exitDate,
			Status:     domain.StatusClosed,
			Strategy:   "breakout",
			Notes:      "gap and go",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTrades(&buf, trades))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(header, ","), lines[0])
	assert.Equal(t, "t1,AAPL,equity,long,10,100,2025-03-01T15:30:00Z,3,95,,106.8,2025-03-12T16:00:00Z,closed,breakout,gap and go", lines[1])
}

func TestImportTrades_Roundtrip(t *testing.T) {
	stop := 95.0
	exported := []*domain.Trade{
		{
			ID:         "t1",
			Symbol:     "AAPL",
			Instrument: domain.InstrumentEquity,
			Direction:  domain.Long,
			Quantity:   10,
			EntryPrice: 100,
			EntryDate:  time.Date(2025, 3, 1, 15, 30, 0, 0, time.UTC),
			StopLoss:   &stop,
			Status:     domain.StatusOpen,
		},
		{
			ID:         "t2",
			Symbol:     "ES",
			Instrument: domain.InstrumentFutures,
			Direction:  domain.Short,
			Quantity:   2,
			EntryPrice: 5000,
			EntryDate:  time.Date(2025, 3, 2, 9, 30, 0, 0, time.UTC),
			Status:     domain.StatusOpen,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTrades(&buf, exported))

	svc, repo := newService(t)
	created, err := ImportTrades(context.Background(), &buf, svc)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Len(t, repo.trades, 2)

	// The imported rows get fresh IDs and go through full validation.
	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	symbols := map[string]bool{}
	for _, tr := range all {
		symbols[tr.Symbol] = true
		assert.NotEqual(t, "t1", tr.ID)
		assert.NotEqual(t, "t2", tr.ID)
	}
	assert.True(t, symbols["AAPL"])
	assert.True(t, symbols["ES"])
}

func TestImportTrades_ClosedRowStaysClosed(t *testing.T) {
	csv := strings.Join(header, ",") + "\n" +
		"t1,XYZ,equity,short,20,50,2025-03-01T15:30:00Z,0,,,40,2025-03-20T16:00:00Z,closed,,\n"

	svc, repo := newService(t)
	created, err := ImportTrades(context.Background(), strings.NewReader(csv), svc)
	require.NoError(t, err)
	require.Equal(t, 1, created)

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, domain.StatusClosed, all[0].Status)
	require.NotNil(t, all[0].ExitPrice)
	assert.Equal(t, 40.0, *all[0].ExitPrice)
}

func TestImportTrades_StopsOnMalformedRow(t *testing.T) {
	csv := strings.Join(header, ",") + "\n" +
		"t1,AAPL,equity,long,10,100,2025-03-01T15:30:00Z,0,,,,,open,,\n" +
		"t2,AAPL,equity,long,not-a-number,100,2025-03-01T15:30:00Z,0,,,,,open,,\n"

	svc, repo := newService(t)
	created, err := ImportTrades(context.Background(), strings.NewReader(csv), svc)
	require.Error(t, err)
	assert.Equal(t, 1, created)
	assert.Len(t, repo.trades, 1)
	assert.Contains(t, err.Error(), "row 2")
}

func TestImportTrades_EmptyInput(t *testing.T) {
	svc, _ := newService(t)
	created, err := ImportTrades(context.Background(), strings.NewReader(""), svc)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}
