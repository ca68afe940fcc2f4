package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"canslim-hunter/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleSeries(ticker string, n int) *models.PriceSeries {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	series := &models.PriceSeries{Ticker: ticker}
	for i := 0; i < n; i++ {
		series.Bars = append(series.Bars, models.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   100 + float64(i),
			High:   101 + float64(i),
			Low:    99 + float64(i),
			Close:  100.5 + float64(i),
			Volume: int64(1000 * (i + 1)),
		})
	}
	return series
}

func TestSQLiteStore_SaveAndGetSeries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saved := sampleSeries("AAPL", 5)
	if err := store.SaveSeries(ctx, saved); err != nil {
		t.Fatalf("saving series: %v", err)
	}

	got, err := store.GetSeries(ctx, "AAPL", time.Hour)
	if err != nil {
		t.Fatalf("loading series: %v", err)
	}
	if got == nil {
		t.Fatal("expected a cached series")
	}
	if got.Len() != 5 {
		t.Fatalf("got %d bars, expected 5", got.Len())
	}
	for i := 1; i < got.Len(); i++ {
		if !got.Bars[i-1].Date.Before(got.Bars[i].Date) {
			t.Fatal("bars should be ascending by date")
		}
	}
	if got.Bars[0].Close != saved.Bars[0].Close || got.Bars[4].Volume != saved.Bars[4].Volume {
		t.Errorf("round trip mismatch: %+v vs %+v", got.Bars, saved.Bars)
	}
}

func TestSQLiteStore_GetSeries_UnknownSymbol(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetSeries(context.Background(), "NOPE", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for an unknown symbol, got %+v", got)
	}
}

func TestSQLiteStore_GetSeries_StaleCache(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveSeries(ctx, sampleSeries("AAPL", 3)); err != nil {
		t.Fatalf("saving series: %v", err)
	}

	got, err := store.GetSeries(ctx, "AAPL", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Error("expected a stale cache to return nil")
	}
}

func TestSQLiteStore_SaveSeries_ReplacesHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveSeries(ctx, sampleSeries("AAPL", 5)); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := store.SaveSeries(ctx, sampleSeries("AAPL", 2)); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := store.GetSeries(ctx, "AAPL", time.Hour)
	if err != nil {
		t.Fatalf("loading series: %v", err)
	}
	if got.Len() != 2 {
		t.Errorf("got %d bars, expected the replacement's 2", got.Len())
	}
}

func TestSQLiteStore_Watchlists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, symbol := range []string{"AAPL", "MSFT", "NVDA"} {
		if err := store.AddToWatchlist(ctx, symbol, "growth"); err != nil {
			t.Fatalf("adding %s: %v", symbol, err)
		}
	}
	// Duplicate adds are ignored.
	if err := store.AddToWatchlist(ctx, "AAPL", "growth"); err != nil {
		t.Fatalf("duplicate add: %v", err)
	}
	if err := store.AddToWatchlist(ctx, "SPY", "etfs"); err != nil {
		t.Fatalf("adding to second list: %v", err)
	}

	growth, err := store.GetWatchlist(ctx, "growth")
	if err != nil {
		t.Fatalf("loading watchlist: %v", err)
	}
	if len(growth) != 3 || growth[0] != "AAPL" || growth[2] != "NVDA" {
		t.Errorf("unexpected watchlist %v", growth)
	}

	if err := store.RemoveFromWatchlist(ctx, "MSFT", "growth"); err != nil {
		t.Fatalf("removing: %v", err)
	}
	growth, err = store.GetWatchlist(ctx, "growth")
	if err != nil {
		t.Fatalf("reloading watchlist: %v", err)
	}
	if len(growth) != 2 {
		t.Errorf("expected 2 symbols after removal, got %v", growth)
	}

	all, err := store.GetAllWatchlists(ctx)
	if err != nil {
		t.Fatalf("loading all watchlists: %v", err)
	}
	if len(all) != 2 || len(all["etfs"]) != 1 {
		t.Errorf("unexpected watchlists %v", all)
	}
}
