package screen

import (
	"math"

	"github.com/rs/zerolog"

	"canslim-hunter/internal/config"
	"canslim-hunter/internal/logging"
	"canslim-hunter/internal/models"
)

// minQuarters is the number of quarterly values needed to compare the
// newest quarter against the same quarter one year prior.
const minQuarters = 5

// FundamentalScreen classifies technical candidates as qualified or
// not from their quarterly growth and profitability. A metrics record
// is produced for every evaluation, whatever the verdict.
type FundamentalScreen struct {
	cfg    config.ScreeningConfig
	logger zerolog.Logger
}

// NewFundamentalScreen creates a fundamental screen with the given thresholds.
func NewFundamentalScreen(cfg config.ScreeningConfig, logger zerolog.Logger) *FundamentalScreen {
	return &FundamentalScreen{
		cfg:    cfg,
		logger: logging.WithStage(logger, "fundamental"),
	}
}

// CheckCurrentEarnings evaluates the current-earnings criterion:
// quarterly EPS growth or quarterly revenue growth at or above the
// threshold, measured against the same quarter one year prior.
// Fewer than five quarters of either series leaves that growth at 0.
func (f *FundamentalScreen) CheckCurrentEarnings(data *models.Fundamentals) (bool, float64, float64) {
	epsGrowth := yearOverYearGrowth(data.QuarterlyEPS)
	revenueGrowth := yearOverYearGrowth(data.QuarterlyRevenue)

	passes := epsGrowth >= f.cfg.EPSGrowthThreshold ||
		revenueGrowth >= f.cfg.RevGrowthThreshold

	return passes, epsGrowth, revenueGrowth
}

// CheckAnnualEarnings evaluates the annual-earnings criterion: ROE at
// or above the threshold. Missing ROE is treated as 0.
func (f *FundamentalScreen) CheckAnnualEarnings(data *models.Fundamentals) (bool, float64) {
	roe := 0.0
	if data.ROE != nil {
		roe = *data.ROE
	}
	return roe >= f.cfg.ROEThreshold, roe
}

// Qualify runs both checks and returns the combined verdict plus the
// metrics record. A ticker qualifies only when both checks pass.
func (f *FundamentalScreen) Qualify(ticker string, data *models.Fundamentals) (bool, models.GrowthMetrics) {
	currentPasses, epsGrowth, revenueGrowth := f.CheckCurrentEarnings(data)
	annualPasses, roe := f.CheckAnnualEarnings(data)

	qualified := currentPasses && annualPasses

	metrics := models.GrowthMetrics{
		EPSGrowthQ:     epsGrowth,
		RevenueGrowthQ: revenueGrowth,
		ROE:            roe,
		Sector:         defaultNA(data.Sector),
		Industry:       defaultNA(data.Industry),
	}

	logging.LogQualification(f.logger, ticker, qualified, epsGrowth, revenueGrowth, roe)

	return qualified, metrics
}

// yearOverYearGrowth computes (newest - yearAgo) / |yearAgo| over a
// newest-first quarterly series. Fewer than five quarters, or a zero
// year-ago value, yields 0. A zero-growth quarter and insufficient
// history are therefore indistinguishable; callers treat both as a
// failed comparison.
func yearOverYearGrowth(quarters []float64) float64 {
	if len(quarters) < minQuarters {
		return 0
	}
	current := quarters[0]
	yearAgo := quarters[4]
	if yearAgo == 0 {
		return 0
	}
	return (current - yearAgo) / math.Abs(yearAgo)
}

func defaultNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
