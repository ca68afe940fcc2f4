package screen

import (
	"testing"

	"canslim-hunter/internal/models"
)

func TestFilterAll_EmptyUniverse(t *testing.T) {
	screen := NewTechnicalScreen(testConfig(), nopLogger())

	benchmark := flatSeries("SPY", 252, 400.0, 1_000_000)
	got := screen.FilterAll(nil, benchmark)
	if len(got) != 0 {
		t.Fatalf("expected no candidates from empty universe, got %v", got)
	}
}

func TestFilterAll_PreservesInputOrder(t *testing.T) {
	screen := NewTechnicalScreen(testConfig(), nopLogger())

	universe := []*models.PriceSeries{
		risingSeries("CCC", 252, 100, 150, 300_000),
		risingSeries("AAA", 252, 100, 150, 300_000),
		risingSeries("BBB", 252, 100, 150, 300_000),
	}
	benchmark := flatSeries("SPY", 252, 400.0, 1_000_000)

	got := screen.FilterAll(universe, benchmark)
	want := []string{"CCC", "AAA", "BBB"}
	if len(got) != len(want) {
		t.Fatalf("expected %d candidates, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestFilterPrice_EqualityPasses(t *testing.T) {
	cfg := testConfig()
	screen := NewTechnicalScreen(cfg, nopLogger())

	tests := []struct {
		name  string
		close float64
		keep  bool
	}{
		{"above floor", cfg.MinPrice + 5, true},
		{"exactly at floor", cfg.MinPrice, true},
		{"just below floor", cfg.MinPrice - 0.01, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := []*models.PriceSeries{flatSeries("TST", 10, tt.close, 300_000)}
			out := screen.filterPrice(in)
			if kept := len(out) == 1; kept != tt.keep {
				t.Errorf("close %.2f: kept=%v, expected %v", tt.close, kept, tt.keep)
			}
		})
	}
}

func TestFilterVolume_ShortHistoryAveragesOverWhatExists(t *testing.T) {
	cfg := testConfig()
	screen := NewTechnicalScreen(cfg, nopLogger())

	// 10 bars, well below the 50-bar lookback. The mean is taken over
	// the 10 bars that exist.
	liquid := flatSeries("LIQ", 10, 50.0, 250_000)
	thin := flatSeries("THN", 10, 50.0, 150_000)

	out := screen.filterVolume([]*models.PriceSeries{liquid, thin})
	if len(out) != 1 || out[0].Ticker != "LIQ" {
		t.Fatalf("expected only LIQ to survive, got %v", tickers(out))
	}
}

func TestFilterTrend_DropsShortHistory(t *testing.T) {
	cfg := testConfig()
	screen := NewTechnicalScreen(cfg, nopLogger())

	short := risingSeries("SHRT", cfg.MA200Period-1, 100, 150, 300_000)
	long := risingSeries("LONG", cfg.MA200Period, 100, 150, 300_000)

	out := screen.filterTrend([]*models.PriceSeries{short, long})
	if len(out) != 1 || out[0].Ticker != "LONG" {
		t.Fatalf("expected only LONG to survive, got %v", tickers(out))
	}
}

func TestFilterTrend_BelowAverageDropped(t *testing.T) {
	cfg := testConfig()
	screen := NewTechnicalScreen(cfg, nopLogger())

	// Falling series: latest close sits below the 200-bar mean.
	closes := make([]float64, cfg.MA200Period)
	for i := range closes {
		closes[i] = 200.0 - float64(i)*0.5
	}
	falling := seriesFromCloses("FALL", 300_000, closes...)

	out := screen.filterTrend([]*models.PriceSeries{falling})
	if len(out) != 0 {
		t.Fatalf("expected falling series to be dropped, got %v", tickers(out))
	}
}

func TestFilterNearHigh_Boundary(t *testing.T) {
	cfg := testConfig()
	screen := NewTechnicalScreen(cfg, nopLogger())

	// Peak at 100, latest exactly at the 85% threshold.
	atThreshold := seriesFromCloses("AT", 300_000, 100.0, 85.0)
	below := seriesFromCloses("LOW", 300_000, 100.0, 84.0)

	out := screen.filterNearHigh([]*models.PriceSeries{atThreshold, below})
	if len(out) != 1 || out[0].Ticker != "AT" {
		t.Fatalf("expected only AT to survive, got %v", tickers(out))
	}
}

func TestFilterRelativeStrength_StrictInequality(t *testing.T) {
	screen := NewTechnicalScreen(testConfig(), nopLogger())

	benchmark := seriesFromCloses("SPY", 1_000_000, 100.0, 110.0) // +10%
	stronger := seriesFromCloses("STR", 300_000, 100.0, 120.0)    // +20%
	equal := seriesFromCloses("EQL", 300_000, 100.0, 110.0)       // +10%, ties fail
	weaker := seriesFromCloses("WK", 300_000, 100.0, 105.0)       // +5%

	out := screen.filterRelativeStrength([]*models.PriceSeries{stronger, equal, weaker}, benchmark)
	if len(out) != 1 || out[0].Ticker != "STR" {
		t.Fatalf("expected only STR to beat the benchmark, got %v", tickers(out))
	}
}

func TestFilterRelativeStrength_MissingBenchmarkPassesThrough(t *testing.T) {
	screen := NewTechnicalScreen(testConfig(), nopLogger())

	in := []*models.PriceSeries{
		seriesFromCloses("AAA", 300_000, 100.0, 95.0),
		seriesFromCloses("BBB", 300_000, 100.0, 105.0),
	}

	out := screen.filterRelativeStrength(in, nil)
	if len(out) != 2 {
		t.Fatalf("expected pass-through without a benchmark, got %v", tickers(out))
	}
	out = screen.filterRelativeStrength(in, &models.BenchmarkSeries{Ticker: "SPY"})
	if len(out) != 2 {
		t.Fatalf("expected pass-through with an empty benchmark, got %v", tickers(out))
	}
}

func tickers(in []*models.PriceSeries) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = s.Ticker
	}
	return out
}
