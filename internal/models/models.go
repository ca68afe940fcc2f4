// Package models provides domain models for the stock screening application.
package models

import (
	"time"

	"canslim-hunter/internal/errors"
)

// PriceBar represents OHLCV data for a single trading day.
type PriceBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// PriceSeries holds the chronological price history for one ticker.
// Bars are ascending by date with no duplicate dates. The series is
// owned by the caller that fetched it and is read-only to the screens.
type PriceSeries struct {
	Ticker string
	Bars   []PriceBar
}

// Len returns the number of bars in the series.
func (s *PriceSeries) Len() int {
	return len(s.Bars)
}

// LatestClose returns the most recent closing price, or 0 if the
// series is empty.
func (s *PriceSeries) LatestClose() float64 {
	if len(s.Bars) == 0 {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Close
}

// Closes extracts the closing prices in chronological order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Tail returns the trailing n bars, or all bars if fewer exist.
func (s *PriceSeries) Tail(n int) []PriceBar {
	if n <= 0 || len(s.Bars) == 0 {
		return nil
	}
	if len(s.Bars) <= n {
		return s.Bars
	}
	return s.Bars[len(s.Bars)-n:]
}

// BenchmarkSeries is the price series of the reference instrument used
// for relative strength comparison. Same shape and contract as any
// other PriceSeries.
type BenchmarkSeries = PriceSeries

// StockSnapshot holds the derived technical state of a ticker at the
// time of a screening run.
type StockSnapshot struct {
	Ticker       string
	CurrentPrice float64
	Volume50dAvg float64
	SMA50        float64
	SMA200       float64
	High52w      float64
	Return1y     float64
}

// NewStockSnapshot constructs a snapshot, rejecting negative prices,
// volumes and levels. A negative value here means the input data is
// defective, not that the ticker merely fails a screen.
func NewStockSnapshot(ticker string, currentPrice, volume50dAvg, sma50, sma200, high52w, return1y float64) (*StockSnapshot, error) {
	if currentPrice < 0 {
		return nil, errors.NewValidationError("current_price", currentPrice, "must be non-negative")
	}
	if volume50dAvg < 0 {
		return nil, errors.NewValidationError("volume_50d_avg", volume50dAvg, "must be non-negative")
	}
	if sma50 < 0 {
		return nil, errors.NewValidationError("sma_50", sma50, "must be non-negative")
	}
	if sma200 < 0 {
		return nil, errors.NewValidationError("sma_200", sma200, "must be non-negative")
	}
	if high52w < 0 {
		return nil, errors.NewValidationError("high_52w", high52w, "must be non-negative")
	}
	return &StockSnapshot{
		Ticker:       ticker,
		CurrentPrice: currentPrice,
		Volume50dAvg: volume50dAvg,
		SMA50:        sma50,
		SMA200:       sma200,
		High52w:      high52w,
		Return1y:     return1y,
	}, nil
}

// GrowthMetrics holds the fundamental measurements taken during a
// qualification check. Produced once per evaluation and never mutated,
// whether or not the ticker qualifies.
type GrowthMetrics struct {
	EPSGrowthQ     float64
	RevenueGrowthQ float64
	ROE            float64
	Sector         string
	Industry       string
}

// Fundamentals is the raw financial data supplied by the fundamentals
// collaborator for one ticker. Quarterly values are newest-first and
// either list may be empty. ROE may be absent.
type Fundamentals struct {
	QuarterlyEPS     []float64
	QuarterlyRevenue []float64
	ROE              *float64
	Sector           string
	Industry         string
}

// ExitPlan holds the advisory profit-target and stop-loss reference
// levels for a qualified ticker. The conditions are descriptive text,
// not enforced triggers.
type ExitPlan struct {
	ProfitTargetPrice float64
	ProfitCondition   string
	ProfitReason      string
	StopLossPrice     float64
	StopLossCondition string
	StopLossReason    string
}

// NewExitPlan constructs an exit plan, rejecting negative prices.
func NewExitPlan(profitTargetPrice, stopLossPrice float64, profitCondition, profitReason, stopLossCondition, stopLossReason string) (*ExitPlan, error) {
	if profitTargetPrice < 0 {
		return nil, errors.NewValidationError("profit_target_price", profitTargetPrice, "must be non-negative")
	}
	if stopLossPrice < 0 {
		return nil, errors.NewValidationError("stop_loss_price", stopLossPrice, "must be non-negative")
	}
	return &ExitPlan{
		ProfitTargetPrice: profitTargetPrice,
		ProfitCondition:   profitCondition,
		ProfitReason:      profitReason,
		StopLossPrice:     stopLossPrice,
		StopLossCondition: stopLossCondition,
		StopLossReason:    stopLossReason,
	}, nil
}
