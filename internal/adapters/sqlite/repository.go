package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tradejournal/internal/domain"
	"tradejournal/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements ports.TradeRepository using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/journal.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// WAL mode for better concurrency between the CLI and the sync server.
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// SQLite handles concurrency internally; the Go driver benefits from
	// limiting connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "Database schema initialized/verified", map[string]interface{}{"path": dbPath})

	return repo, nil
}

// initializeSchema creates tables if they don't exist.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		symbol TEXT NOT NULL,
		instrument TEXT NOT NULL,
		direction TEXT NOT NULL,
		quantity REAL NOT NULL,
		entry_price REAL NOT NULL,
		entry_date TIMESTAMP NOT NULL,
		fees REAL NOT NULL DEFAULT 0,
		stop_loss REAL DEFAULT NULL,
		take_profit REAL DEFAULT NULL,
		exit_price REAL DEFAULT NULL,
		exit_date TIMESTAMP DEFAULT NULL,
		status TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '',
		strategy TEXT NOT NULL DEFAULT '',
		contract_exchange TEXT DEFAULT NULL,
		contract_size REAL DEFAULT NULL,
		tick_size REAL DEFAULT NULL,
		tick_value REAL DEFAULT NULL,
		version INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS partial_exits (
		id TEXT PRIMARY KEY,
		trade_id TEXT NOT NULL REFERENCES trades(id) ON DELETE CASCADE,
		quantity REAL NOT NULL,
		exit_price REAL NOT NULL,
		exit_date TIMESTAMP NOT NULL,
		fees REAL NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_trades_symbol_status ON trades (symbol, status);
	CREATE INDEX IF NOT EXISTS idx_partial_exits_trade_id ON partial_exits (trade_id);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Create saves a new trade and its partial exits. Sets version 1 on the
// passed trade.
func (r *Repository) Create(ctx context.Context, trade *domain.Trade) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", ports.ErrDBConnection)
	}
	defer tx.Rollback()

	trade.Version = 1
	if err := insertTrade(ctx, tx, trade); err != nil {
		return err
	}
	if err := insertPartialExits(ctx, tx, trade); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trade %s: %w", trade.ID, err)
	}
	r.logger.Debug(ctx, "Trade created", map[string]interface{}{"tradeID": trade.ID, "symbol": trade.Symbol})
	return nil
}

// Update replaces an existing trade wholesale, rejecting stale writes.
func (r *Repository) Update(ctx context.Context, trade *domain.Trade) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", ports.ErrDBConnection)
	}
	defer tx.Rollback()

	const query = `
	UPDATE trades
	SET symbol = ?, instrument = ?, direction = ?, quantity = ?, entry_price = ?,
	    entry_date = ?, fees = ?, stop_loss = ?, take_profit = ?, exit_price = ?,
	    exit_date = ?, status = ?, notes = ?, tags = ?, strategy = ?,
	    contract_exchange = ?, contract_size = ?, tick_size = ?, tick_value = ?,
	    version = version + 1
	WHERE id = ? AND version = ?`

	args := tradeColumns(trade)
	args = append(args, trade.ID, trade.Version)
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update trade %s: %w", trade.ID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for trade %s: %w", trade.ID, err)
	}
	if rows == 0 {
		// Distinguish a missing record from a stale version.
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM trades WHERE id = ?`, trade.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check trade %s: %w", trade.ID, err)
		}
		if exists == 0 {
			return fmt.Errorf("trade %s not found for update: %w", trade.ID, ports.ErrNotFound)
		}
		return fmt.Errorf("trade %s version %d is stale: %w", trade.ID, trade.Version, ports.ErrConflict)
	}

	// Replace-entire-record semantics: rewrite the exits to match the
	// in-memory collection.
	if _, err := tx.ExecContext(ctx, `DELETE FROM partial_exits WHERE trade_id = ?`, trade.ID); err != nil {
		return fmt.Errorf("failed to clear partial exits for trade %s: %w", trade.ID, err)
	}
	if err := insertPartialExits(ctx, tx, trade); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit update for trade %s: %w", trade.ID, err)
	}
	trade.Version++
	r.logger.Debug(ctx, "Trade updated", map[string]interface{}{"tradeID": trade.ID, "status": trade.Status, "version": trade.Version})
	return nil
}

// FindByID retrieves a trade by its unique ID. Returns nil, nil if not found.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Trade, error) {
	row := r.db.QueryRowContext(ctx, selectTrades+` WHERE id = ?`, id)
	trade, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query trade %s: %w", id, err)
	}
	if err := r.loadPartialExits(ctx, trade); err != nil {
		return nil, err
	}
	return trade, nil
}

// FindAll retrieves all trades, ordered by entry date descending.
func (r *Repository) FindAll(ctx context.Context) ([]*domain.Trade, error) {
	rows, err := r.db.QueryContext(ctx, selectTrades+` ORDER BY entry_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	trades := make([]*domain.Trade, 0)
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade during FindAll: %w", err)
		}
		trades = append(trades, trade)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade rows: %w", err)
	}
	for _, trade := range trades {
		if err := r.loadPartialExits(ctx, trade); err != nil {
			return nil, err
		}
	}
	return trades, nil
}

// Delete removes a trade; its partial exits cascade.
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trades WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trade %s: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for delete of trade %s: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("trade %s not found for delete: %w", id, ports.ErrNotFound)
	}
	r.logger.Debug(ctx, "Trade deleted", map[string]interface{}{"tradeID": id})
	return nil
}

// --- Helpers ---

const selectTrades = `
	SELECT id, symbol, instrument, direction, quantity, entry_price, entry_date,
	       fees, stop_loss, take_profit, exit_price, exit_date, status, notes,
	       tags, strategy, contract_exchange, contract_size, tick_size, tick_value,
	       version
	FROM trades`

func insertTrade(ctx context.Context, tx *sql.Tx, trade *domain.Trade) error {
	const query = `
	INSERT INTO trades (symbol, instrument, direction, quantity, entry_price,
	                    entry_date, fees, stop_loss, take_profit, exit_price,
	                    exit_date, status, notes, tags, strategy,
	                    contract_exchange, contract_size, tick_size, tick_value,
	                    version, id)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	args := tradeColumns(trade)
	args = append(args, trade.Version, trade.ID)
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert trade %s: %w", trade.ID, err)
	}
	return nil
}

func insertPartialExits(ctx context.Context, tx *sql.Tx, trade *domain.Trade) error {
	const query = `
	INSERT INTO partial_exits (id, trade_id, quantity, exit_price, exit_date, fees, notes)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	for _, pe := range trade.PartialExits {
		if _, err := tx.ExecContext(ctx, query,
			pe.ID, trade.ID, pe.Quantity, pe.ExitPrice, pe.ExitDate, pe.Fees, pe.Notes); err != nil {
			return fmt.Errorf("failed to insert partial exit %s for trade %s: %w", pe.ID, trade.ID, err)
		}
	}
	return nil
}

// tradeColumns returns the shared column values for insert/update, in the
// order symbol..tick_value.
func tradeColumns(trade *domain.Trade) []interface{} {
	var exitDate sql.NullTime
	if trade.ExitDate != nil {
		exitDate = sql.NullTime{Time: *trade.ExitDate, Valid: true}
	}
	var contractExchange sql.NullString
	var contractSize, tickSize, tickValue sql.NullFloat64
	if trade.Contract != nil {
		contractExchange = sql.NullString{String: trade.Contract.Exchange, Valid: true}
		contractSize = sql.NullFloat64{Float64: trade.Contract.ContractSize, Valid: true}
		tickSize = sql.NullFloat64{Float64: trade.Contract.TickSize, Valid: true}
		tickValue = sql.NullFloat64{Float64: trade.Contract.TickValue, Valid: true}
	}
	return []interface{}{
		trade.Symbol, string(trade.Instrument), string(trade.Direction),
		trade.Quantity, trade.EntryPrice, trade.EntryDate, trade.Fees,
		nullFloat(trade.StopLoss), nullFloat(trade.TakeProfit),
		nullFloat(trade.ExitPrice), exitDate, string(trade.Status),
		trade.Notes, strings.Join(trade.Tags, ","), trade.Strategy,
		contractExchange, contractSize, tickSize, tickValue,
	}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanTrade scans a row into a domain.Trade struct.
func scanTrade(s scanner) (*domain.Trade, error) {
	t := &domain.Trade{}
	var instrument, direction, status, tags string
	var stopLoss, takeProfit, exitPrice sql.NullFloat64
	var exitDate sql.NullTime
	var contractExchange sql.NullString
	var contractSize, tickSize, tickValue sql.NullFloat64

	err := s.Scan(
		&t.ID, &t.Symbol, &instrument, &direction, &t.Quantity, &t.EntryPrice,
		&t.EntryDate, &t.Fees, &stopLoss, &takeProfit, &exitPrice, &exitDate,
		&status, &t.Notes, &tags, &t.Strategy,
		&contractExchange, &contractSize, &tickSize, &tickValue, &t.Version)
	if err != nil {
		return nil, err // Handle sql.ErrNoRows in the caller
	}

	t.Instrument = domain.InstrumentType(instrument)
	t.Direction = domain.Direction(direction)
	t.Status = domain.TradeStatus(status)
	if stopLoss.Valid {
		t.StopLoss = &stopLoss.Float64
	}
	if takeProfit.Valid {
		t.TakeProfit = &takeProfit.Float64
	}
	if exitPrice.Valid {
		t.ExitPrice = &exitPrice.Float64
	}
	if exitDate.Valid {
		t.ExitDate = &exitDate.Time
	}
	if tags != "" {
		t.Tags = strings.Split(tags, ",")
	}
	if contractExchange.Valid {
		t.Contract = &domain.ContractDetails{
			Exchange:     contractExchange.String,
			ContractSize: contractSize.Float64,
			TickSize:     tickSize.Float64,
			TickValue:    tickValue.Float64,
		}
	}
	return t, nil
}

// loadPartialExits attaches the trade's partial exits in insertion order.
func (r *Repository) loadPartialExits(ctx context.Context, trade *domain.Trade) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, quantity, exit_price, exit_date, fees, notes
		FROM partial_exits
		WHERE trade_id = ?
		ORDER BY rowid ASC`, trade.ID)
	if err != nil {
		return fmt.Errorf("failed to query partial exits for trade %s: %w", trade.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var pe domain.PartialExit
		if err := rows.Scan(&pe.ID, &pe.Quantity, &pe.ExitPrice, &pe.ExitDate, &pe.Fees, &pe.Notes); err != nil {
			return fmt.Errorf("failed to scan partial exit for trade %s: %w", trade.ID, err)
		}
		trade.PartialExits = append(trade.PartialExits, pe)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating partial exit rows for trade %s: %w", trade.ID, err)
	}
	return nil
}
