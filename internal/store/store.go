// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"canslim-hunter/internal/models"
)

// DataStore defines the persistence surface: a price history cache and
// the ticker universe watchlists. Screening verdicts are deliberately
// not persisted; every run re-evaluates from fresh data.
type DataStore interface {
	// Candle cache
	GetSeries(ctx context.Context, symbol string, maxAge time.Duration) (*models.PriceSeries, error)
	SaveSeries(ctx context.Context, series *models.PriceSeries) error

	// Watchlists
	AddToWatchlist(ctx context.Context, symbol, listName string) error
	RemoveFromWatchlist(ctx context.Context, symbol, listName string) error
	GetWatchlist(ctx context.Context, listName string) ([]string, error)
	GetAllWatchlists(ctx context.Context) (map[string][]string, error)

	// Lifecycle
	Close() error
}
