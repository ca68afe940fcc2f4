// Package screen implements the CAN-SLIM screening pipeline: the
// technical filter chain, the fundamental qualification check and the
// exit plan arithmetic. The screens are stateless transforms; every
// call receives fully materialized, read-only input and returns newly
// constructed output.
package screen

import (
	"github.com/rs/zerolog"

	"canslim-hunter/internal/analysis/indicators"
	"canslim-hunter/internal/config"
	"canslim-hunter/internal/logging"
	"canslim-hunter/internal/models"
)

// TechnicalScreen reduces the ticker universe to candidates surviving
// five ordered price/volume filters. The stages are independent
// predicates; applying them in sequence and short-circuiting on an
// empty set is an optimization, not an ordering requirement.
type TechnicalScreen struct {
	cfg    config.ScreeningConfig
	logger zerolog.Logger
}

// NewTechnicalScreen creates a technical screen with the given thresholds.
func NewTechnicalScreen(cfg config.ScreeningConfig, logger zerolog.Logger) *TechnicalScreen {
	return &TechnicalScreen{
		cfg:    cfg,
		logger: logging.WithStage(logger, "technical"),
	}
}

// FilterAll applies the five filters in sequence and returns the
// tickers surviving every stage, preserving input order. An empty
// universe or an empty intermediate set yields an empty result
// without error.
func (t *TechnicalScreen) FilterAll(universe []*models.PriceSeries, benchmark *models.BenchmarkSeries) []string {
	alive := universe

	stages := []struct {
		name  string
		apply func([]*models.PriceSeries) []*models.PriceSeries
	}{
		{"price_floor", t.filterPrice},
		{"volume_floor", t.filterVolume},
		{"trend", t.filterTrend},
		{"near_high", t.filterNearHigh},
		{"relative_strength", func(in []*models.PriceSeries) []*models.PriceSeries {
			return t.filterRelativeStrength(in, benchmark)
		}},
	}

	for _, stage := range stages {
		if len(alive) == 0 {
			break
		}
		in := len(alive)
		alive = stage.apply(alive)
		logging.LogFilterStage(t.logger, stage.name, in, len(alive))
	}

	tickers := make([]string, 0, len(alive))
	for _, s := range alive {
		tickers = append(tickers, s.Ticker)
	}
	return tickers
}

// filterPrice keeps tickers whose latest close is at or above the
// minimum price. Equality passes.
func (t *TechnicalScreen) filterPrice(in []*models.PriceSeries) []*models.PriceSeries {
	var out []*models.PriceSeries
	for _, s := range in {
		if s.Len() == 0 {
			continue
		}
		if s.LatestClose() >= t.cfg.MinPrice {
			out = append(out, s)
		}
	}
	return out
}

// filterVolume keeps tickers whose mean volume over the trailing
// lookback window meets the floor. Shorter histories average over
// what exists.
func (t *TechnicalScreen) filterVolume(in []*models.PriceSeries) []*models.PriceSeries {
	var out []*models.PriceSeries
	for _, s := range in {
		if s.Len() == 0 {
			continue
		}
		if indicators.TrailingAvgVolume(s, t.cfg.VolumeLookback) >= t.cfg.MinVolAvg {
			out = append(out, s)
		}
	}
	return out
}

// filterTrend keeps tickers whose latest close is at or above the
// 200-bar simple moving average. With fewer than 200 bars the average
// is undefined and the ticker is dropped.
func (t *TechnicalScreen) filterTrend(in []*models.PriceSeries) []*models.PriceSeries {
	sma := indicators.NewSMA(t.cfg.MA200Period)
	var out []*models.PriceSeries
	for _, s := range in {
		latestSMA, err := sma.Latest(s.Bars)
		if err != nil {
			continue
		}
		if s.LatestClose() >= latestSMA {
			out = append(out, s)
		}
	}
	return out
}

// filterNearHigh keeps tickers trading at or above NearHighPct of
// their trailing 252-bar highest close.
func (t *TechnicalScreen) filterNearHigh(in []*models.PriceSeries) []*models.PriceSeries {
	var out []*models.PriceSeries
	for _, s := range in {
		if s.Len() == 0 {
			continue
		}
		high := indicators.TrailingMaxClose(s, t.cfg.HighLookback)
		if s.LatestClose() >= high*t.cfg.NearHighPct {
			out = append(out, s)
		}
	}
	return out
}

// filterRelativeStrength keeps tickers whose return over their
// available window strictly exceeds the benchmark's. Equality fails.
func (t *TechnicalScreen) filterRelativeStrength(in []*models.PriceSeries, benchmark *models.BenchmarkSeries) []*models.PriceSeries {
	if benchmark == nil || benchmark.Len() == 0 {
		return in
	}
	benchReturn := indicators.TotalReturn(benchmark)

	var out []*models.PriceSeries
	for _, s := range in {
		if s.Len() == 0 {
			continue
		}
		if indicators.TotalReturn(s) > benchReturn {
			out = append(out, s)
		}
	}
	return out
}
