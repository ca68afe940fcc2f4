// Package marketdata retrieves price history, fundamentals and the
// ticker universe for a screening run. It owns all I/O, rate limiting
// and retry; the screens only see fully materialized series.
package marketdata

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"canslim-hunter/internal/config"
	"canslim-hunter/internal/errors"
	"canslim-hunter/internal/logging"
	"canslim-hunter/internal/models"
	"canslim-hunter/pkg/utils"
)

// PriceSource fetches daily price history for one symbol.
type PriceSource interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]models.PriceBar, error)
}

// FundamentalsSource fetches quarterly financials for one symbol.
type FundamentalsSource interface {
	FetchFundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error)
}

// CandleCache persists fetched price history between runs so repeated
// runs on the same day skip the upstream API.
type CandleCache interface {
	GetSeries(ctx context.Context, symbol string, maxAge time.Duration) (*models.PriceSeries, error)
	SaveSeries(ctx context.Context, series *models.PriceSeries) error
}

// Loader coordinates data retrieval for a run: fixed inter-call delay
// against upstream rate limits, exponential-backoff retry on network
// errors, and optional caching.
type Loader struct {
	prices       PriceSource
	fundamentals FundamentalsSource
	cache        CandleCache
	cfg          config.DataConfig
	logger       zerolog.Logger

	lastCall time.Time
}

// NewLoader creates a loader. cache may be nil to disable caching.
func NewLoader(prices PriceSource, fundamentals FundamentalsSource, cache CandleCache, cfg config.DataConfig, logger zerolog.Logger) *Loader {
	return &Loader{
		prices:       prices,
		fundamentals: fundamentals,
		cache:        cache,
		cfg:          cfg,
		logger:       logger.With().Str("component", "marketdata").Logger(),
	}
}

// FetchPriceSeries fetches the daily series for every ticker plus the
// benchmark, in input order. Tickers whose history cannot be fetched
// are logged and omitted; a missing benchmark fails the run because
// the relative-strength filter cannot be evaluated without it.
func (l *Loader) FetchPriceSeries(ctx context.Context, tickers []string) ([]*models.PriceSeries, *models.BenchmarkSeries, error) {
	var universe []*models.PriceSeries
	for _, ticker := range tickers {
		series, err := l.fetchSeries(ctx, ticker)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			l.logger.Warn().Err(err).Str("ticker", ticker).Msg("Price history unavailable, omitting ticker")
			continue
		}
		universe = append(universe, series)
	}

	benchmark, err := l.fetchSeries(ctx, l.cfg.BenchmarkTicker)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrBenchmarkMissing, err.Error())
	}

	return universe, benchmark, nil
}

// FetchSeries fetches the daily series for a single ticker, with the
// same caching and retry behavior as a full run but without touching
// the benchmark.
func (l *Loader) FetchSeries(ctx context.Context, ticker string) (*models.PriceSeries, error) {
	return l.fetchSeries(ctx, ticker)
}

// FetchFundamentals retrieves financials for one candidate, honoring
// the inter-call delay. Suitable as a screen.FundamentalsProvider.
func (l *Loader) FetchFundamentals(ctx context.Context, ticker string) (*models.Fundamentals, error) {
	if err := l.throttle(ctx); err != nil {
		return nil, err
	}

	var data *models.Fundamentals
	start := time.Now()
	err := utils.Retry(ctx, l.retryConfig(), func() error {
		var ferr error
		data, ferr = l.fundamentals.FetchFundamentals(ctx, ticker)
		return ferr
	})
	logging.LogAPICall(l.logger, "GET", "fundamentals/"+ticker, time.Since(start), err)
	if err != nil {
		return nil, errors.NewDataError("fundamentals", ticker, "fetch failed", err)
	}
	return data, nil
}

func (l *Loader) fetchSeries(ctx context.Context, ticker string) (*models.PriceSeries, error) {
	maxAge := time.Duration(l.cfg.CacheMaxAgeHrs) * time.Hour
	if l.cache != nil {
		if series, err := l.cache.GetSeries(ctx, ticker, maxAge); err == nil && series != nil && series.Len() > 0 {
			l.logger.Debug().Str("ticker", ticker).Int("bars", series.Len()).Msg("Price history served from cache")
			return series, nil
		}
	}

	if err := l.throttle(ctx); err != nil {
		return nil, err
	}

	var bars []models.PriceBar
	start := time.Now()
	err := utils.Retry(ctx, l.retryConfig(), func() error {
		var ferr error
		bars, ferr = l.prices.FetchDailyBars(ctx, ticker, l.cfg.HistoryDays)
		return ferr
	})
	logging.LogAPICall(l.logger, "GET", "chart/"+ticker, time.Since(start), err)
	if err != nil {
		return nil, errors.NewDataError("prices", ticker, "fetch failed", err)
	}

	series := &models.PriceSeries{Ticker: ticker, Bars: bars}
	if l.cache != nil {
		if err := l.cache.SaveSeries(ctx, series); err != nil {
			l.logger.Warn().Err(err).Str("ticker", ticker).Msg("Failed to cache price history")
		}
	}
	return series, nil
}

// throttle enforces the fixed delay between upstream calls.
func (l *Loader) throttle(ctx context.Context) error {
	delay := time.Duration(l.cfg.APICallDelaySec * float64(time.Second))
	if delay <= 0 || l.lastCall.IsZero() {
		l.lastCall = time.Now()
		return nil
	}
	wait := delay - time.Since(l.lastCall)
	if wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	l.lastCall = time.Now()
	return nil
}

func (l *Loader) retryConfig() utils.RetryConfig {
	cfg := utils.DefaultRetryConfig()
	if l.cfg.MaxRetries > 0 {
		cfg.MaxAttempts = l.cfg.MaxRetries
	}
	return cfg
}
