package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"canslim-hunter/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Candles table for cached daily OHLCV history
	CREATE TABLE IF NOT EXISTS candles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		date DATETIME NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(symbol, date)
	);

	-- Freshness of the cached history per symbol
	CREATE TABLE IF NOT EXISTS candle_sync (
		symbol TEXT PRIMARY KEY,
		synced_at DATETIME NOT NULL
	);

	-- Ticker universe watchlists
	CREATE TABLE IF NOT EXISTS watchlists (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		list_name TEXT NOT NULL,
		symbol TEXT NOT NULL,
		added_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(list_name, symbol)
	);

	CREATE INDEX IF NOT EXISTS idx_candles_symbol_date ON candles(symbol, date);
	CREATE INDEX IF NOT EXISTS idx_watchlists_list ON watchlists(list_name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// GetSeries returns the cached series for a symbol if it was synced
// within maxAge, or nil when the cache is stale or empty.
func (s *SQLiteStore) GetSeries(ctx context.Context, symbol string, maxAge time.Duration) (*models.PriceSeries, error) {
	var syncedAt time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT synced_at FROM candle_sync WHERE symbol = ?`, symbol).Scan(&syncedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying candle sync: %w", err)
	}
	if time.Since(syncedAt) > maxAge {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT date, open, high, low, close, volume
		 FROM candles WHERE symbol = ? ORDER BY date ASC`, symbol)
	if err != nil {
		return nil, fmt.Errorf("querying candles: %w", err)
	}
	defer rows.Close()

	series := &models.PriceSeries{Ticker: symbol}
	for rows.Next() {
		var bar models.PriceBar
		if err := rows.Scan(&bar.Date, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, fmt.Errorf("scanning candle: %w", err)
		}
		series.Bars = append(series.Bars, bar)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return series, nil
}

// SaveSeries replaces the cached history for the series' ticker and
// stamps it as freshly synced.
func (s *SQLiteStore) SaveSeries(ctx context.Context, series *models.PriceSeries) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM candles WHERE symbol = ?`, series.Ticker); err != nil {
		return fmt.Errorf("clearing stale candles: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO candles (symbol, date, open, high, low, close, volume)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, bar := range series.Bars {
		if _, err := stmt.ExecContext(ctx, series.Ticker, bar.Date, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume); err != nil {
			return fmt.Errorf("inserting candle: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO candle_sync (symbol, synced_at) VALUES (?, ?)
		 ON CONFLICT(symbol) DO UPDATE SET synced_at = excluded.synced_at`,
		series.Ticker, time.Now().UTC()); err != nil {
		return fmt.Errorf("updating sync time: %w", err)
	}

	return tx.Commit()
}

// AddToWatchlist adds a symbol to a watchlist.
func (s *SQLiteStore) AddToWatchlist(ctx context.Context, symbol, listName string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO watchlists (list_name, symbol) VALUES (?, ?)`,
		listName, symbol)
	if err != nil {
		return fmt.Errorf("adding to watchlist: %w", err)
	}
	return nil
}

// RemoveFromWatchlist removes a symbol from a watchlist.
func (s *SQLiteStore) RemoveFromWatchlist(ctx context.Context, symbol, listName string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM watchlists WHERE list_name = ? AND symbol = ?`,
		listName, symbol)
	if err != nil {
		return fmt.Errorf("removing from watchlist: %w", err)
	}
	return nil
}

// GetWatchlist returns the symbols of one watchlist in insertion order.
func (s *SQLiteStore) GetWatchlist(ctx context.Context, listName string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT symbol FROM watchlists WHERE list_name = ? ORDER BY added_at ASC, id ASC`,
		listName)
	if err != nil {
		return nil, fmt.Errorf("querying watchlist: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, err
		}
		symbols = append(symbols, symbol)
	}
	return symbols, rows.Err()
}

// GetAllWatchlists returns every watchlist keyed by name.
func (s *SQLiteStore) GetAllWatchlists(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT list_name, symbol FROM watchlists ORDER BY list_name, added_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying watchlists: %w", err)
	}
	defer rows.Close()

	lists := make(map[string][]string)
	for rows.Next() {
		var listName, symbol string
		if err := rows.Scan(&listName, &symbol); err != nil {
			return nil, err
		}
		lists[listName] = append(lists[listName], symbol)
	}
	return lists, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
