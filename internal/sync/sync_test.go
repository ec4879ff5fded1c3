package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func newMemRepo() *memRepo {
	return &memRepo{trades: make(map[string]*domain.Trade)}
}

func (m *memRepo) Create(ctx context.Context, trade *domain.Trade) error {
	trade.Version = 1
	m.trades[trade.ID] = trade.Clone()
	return nil
}

func (m *memRepo) Update(ctx context.Context, trade *domain.Trade) error {
	stored, ok := m.trades[trade.ID]
	if !ok {
		return fmt.Errorf("trade %s: %w", trade.ID, ports.ErrNotFound)
	}
	if stored.Version != trade.Version {
		return fmt.Errorf("trade %s: %w", trade.ID, ports.ErrConflict)
	}
	trade.Version++
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
	if _, ok := m.trades[id]; !ok {
		return fmt.Errorf("trade %s: %w", id, ports.ErrNotFound)
	}
	delete(m.trades, id)
	return nil
}

func sampleTrade(id string) *domain.Trade {
	return &domain.Trade{
		ID:         id,
		Symbol:     "AAPL",
		Instrument: domain.InstrumentEquity,
		Direction:  domain.Long,
		Quantity:   10,
		EntryPrice: 100,
		EntryDate:  time.Date(2025, 3, 1, 15, 30, 0, 0, time.UTC),
		Status:     domain.StatusOpen,
	}
}

func TestServer_ListAndGet(t *testing.T) {
	repo := newMemRepo()
	require.NoError(t, repo.Create(context.Background(), sampleTrade("t1")))
	srv := httptest.NewServer(NewServer(repo, &mockLogger{}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/trades")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var trades []*domain.Trade
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&trades))
	require.Len(t, trades, 1)
	assert.Equal(t, "t1", trades[0].ID)

	resp, err = http.Get(srv.URL + "/trades/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_PutCreatesAndUpdates(t *testing.T) {
	repo := newMemRepo()
	srv := httptest.NewServer(NewServer(repo, &mockLogger{}))
	defer srv.Close()

	put := func(trade *domain.Trade) *http.Response {
		t.Helper()
		body, err := json.Marshal(trade)
		require.NoError(t, err)
		req, err := http.NewRequest(http.MethodPut, srv.URL+"/trades/"+trade.ID, bytes.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	trade := sampleTrade("t1")
	resp := put(trade)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// A second put with a stale remote version still applies: the server
	// adopts the local version counter before updating.
	trade.Notes = "updated remotely"
	trade.Version = 99
	resp = put(trade)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	stored, err := repo.FindByID(context.Background(), "t1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "updated remotely", stored.Notes)
	assert.Equal(t, int64(2), stored.Version)
}

func TestServer_Delete(t *testing.T) {
	repo := newMemRepo()
	require.NoError(t, repo.Create(context.Background(), sampleTrade("t1")))
	srv := httptest.NewServer(NewServer(repo, &mockLogger{}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/trades/t1", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestClient_PushThenPullRoundtrip(t *testing.T) {
	ctx := context.Background()

	remote := newMemRepo()
	srv := httptest.NewServer(NewServer(remote, &mockLogger{}))
	defer srv.Close()

	local := newMemRepo()
	require.NoError(t, local.Create(ctx, sampleTrade("t1")))
	require.NoError(t, local.Create(ctx, sampleTrade("t2")))

	client, err := NewClient(srv.URL, local, &mockLogger{})
	require.NoError(t, err)

	pushed, failed, err := client.Push(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, pushed)
	assert.Equal(t, 0, failed)
	assert.Len(t, remote.trades, 2)

	// A third trade only on the remote comes back with pull.
	require.NoError(t, remote.Create(ctx, sampleTrade("t3")))

	pulled, failed, err := client.Pull(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, pulled)
	assert.Equal(t, 0, failed)
	assert.Len(t, local.trades, 3)
}

func TestClient_PullPreservesLocalVersionCounter(t *testing.T) {
	ctx := context.Background()

	remote := newMemRepo()
	remoteTrade := sampleTrade("t1")
	require.NoError(t, remote.Create(ctx, remoteTrade))
	srv := httptest.NewServer(NewServer(remote, &mockLogger{}))
	defer srv.Close()

	local := newMemRepo()
	localTrade := sampleTrade("t1")
	require.NoError(t, local.Create(ctx, localTrade))
	localTrade.Notes = "local edit"
	require.NoError(t, local.Update(ctx, localTrade)) // version now 2

	client, err := NewClient(srv.URL, local, &mockLogger{})
	require.NoError(t, err)

	pulled, failed, err := client.Pull(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pulled)
	assert.Equal(t, 0, failed)

	stored, err := local.FindByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), stored.Version, "pull must not reset the local counter")
}

func TestNewClient_RequiresURL(t *testing.T) {
	_, err := NewClient("", newMemRepo(), &mockLogger{})
	assert.Error(t, err)
}
