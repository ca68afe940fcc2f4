package indicators

import (
	"fmt"

	"canslim-hunter/internal/models"
)

// SMA calculates Simple Moving Average.
type SMA struct {
	period int
}

// NewSMA creates a new SMA indicator.
func NewSMA(period int) *SMA {
	return &SMA{period: period}
}

func (s *SMA) Name() string {
	return fmt.Sprintf("SMA_%d", s.period)
}

func (s *SMA) Period() int {
	return s.period
}

// Calculate returns the SMA series aligned to the input bars. Values
// before the first full window are zero.
func (s *SMA) Calculate(bars []models.PriceBar) ([]float64, error) {
	if s.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(bars) < s.period {
		return nil, ErrInsufficientData
	}

	result := make([]float64, len(bars))
	closes := closePrices(bars)

	for i := s.period - 1; i < len(bars); i++ {
		result[i] = mean(closes[i-s.period+1 : i+1])
	}

	return result, nil
}

// Latest returns the most recent SMA value, or ErrInsufficientData if
// fewer bars exist than the period requires. The average over a
// partial window is undefined, not approximated.
func (s *SMA) Latest(bars []models.PriceBar) (float64, error) {
	values, err := s.Calculate(bars)
	if err != nil {
		return 0, err
	}
	return values[len(values)-1], nil
}
