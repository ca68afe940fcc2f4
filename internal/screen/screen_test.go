package screen

import (
	"time"

	"github.com/rs/zerolog"

	"canslim-hunter/internal/config"
	"canslim-hunter/internal/models"
)

// testConfig returns the default thresholds used across the screen tests.
func testConfig() config.ScreeningConfig {
	return config.DefaultScreeningConfig()
}

func testExitConfig() config.ExitConfig {
	return config.DefaultExitConfig()
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// seriesFromCloses builds a daily series with the given closes and a
// constant volume.
func seriesFromCloses(ticker string, volume int64, closes ...float64) *models.PriceSeries {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]models.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = models.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: volume,
		}
	}
	return &models.PriceSeries{Ticker: ticker, Bars: bars}
}

// risingSeries builds n bars climbing linearly from first to last.
func risingSeries(ticker string, n int, first, last float64, volume int64) *models.PriceSeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = first + (last-first)*float64(i)/float64(n-1)
	}
	return seriesFromCloses(ticker, volume, closes...)
}

// flatSeries builds n bars all at the same close.
func flatSeries(ticker string, n int, close float64, volume int64) *models.PriceSeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = close
	}
	return seriesFromCloses(ticker, volume, closes...)
}
