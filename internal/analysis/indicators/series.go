package indicators

import (
	"canslim-hunter/internal/models"
)

// TrailingAvgVolume returns the mean volume over the trailing lookback
// bars, or over the whole series when history is shorter. A short
// series degrades gracefully rather than erroring.
func TrailingAvgVolume(series *models.PriceSeries, lookback int) float64 {
	bars := series.Tail(lookback)
	if len(bars) == 0 {
		return 0
	}
	var total float64
	for _, b := range bars {
		total += float64(b.Volume)
	}
	return total / float64(len(bars))
}

// TrailingMaxClose returns the highest close over the trailing
// lookback bars, or over the whole series when history is shorter.
func TrailingMaxClose(series *models.PriceSeries, lookback int) float64 {
	bars := series.Tail(lookback)
	if len(bars) == 0 {
		return 0
	}
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return highest(closes)
}

// TotalReturn returns (last - first) / first over the available window
// of the series. Returns 0 for an empty series or a zero first close.
func TotalReturn(series *models.PriceSeries) float64 {
	if series.Len() == 0 {
		return 0
	}
	first := series.Bars[0].Close
	last := series.Bars[series.Len()-1].Close
	if first == 0 {
		return 0
	}
	return (last - first) / first
}
