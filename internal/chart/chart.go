// Package chart renders a PNG price chart for each qualified ticker:
// closing price with 50- and 200-day moving average overlays and the
// daily volume on a secondary axis.
package chart

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"

	"canslim-hunter/internal/analysis/indicators"
	"canslim-hunter/internal/errors"
	"canslim-hunter/internal/models"
)

// Generator writes chart images into a fixed output directory, one
// file per ticker. Regenerating a ticker overwrites its previous chart.
type Generator struct {
	outputDir string
	ma50      int
	ma200     int
}

// NewGenerator creates a chart generator, creating the output
// directory if needed.
func NewGenerator(outputDir string, ma50, ma200 int) (*Generator, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating chart directory: %w", err)
	}
	return &Generator{
		outputDir: outputDir,
		ma50:      ma50,
		ma200:     ma200,
	}, nil
}

// Generate renders the chart for one series and returns the file path.
// Moving average overlays are drawn only when the history covers their
// period; a shorter series still renders price and volume.
func (g *Generator) Generate(series *models.PriceSeries) (string, error) {
	if series == nil || series.Len() == 0 {
		return "", errors.NewValidationError("bars", 0, "no price data to chart")
	}

	dates := make([]time.Time, series.Len())
	volumes := make([]float64, series.Len())
	for i, b := range series.Bars {
		dates[i] = b.Date
		volumes[i] = float64(b.Volume)
	}

	chartSeries := []gochart.Series{
		gochart.TimeSeries{
			Name:    "Close",
			XValues: dates,
			YValues: series.Closes(),
			Style:   gochart.Style{StrokeColor: gochart.ColorGreen, StrokeWidth: 1.5},
		},
	}
	if x, y := g.overlay(series, g.ma50); x != nil {
		chartSeries = append(chartSeries, gochart.TimeSeries{
			Name:    fmt.Sprintf("SMA %d", g.ma50),
			XValues: x,
			YValues: y,
			Style:   gochart.Style{StrokeColor: gochart.ColorBlue, StrokeWidth: 1.0},
		})
	}
	if x, y := g.overlay(series, g.ma200); x != nil {
		chartSeries = append(chartSeries, gochart.TimeSeries{
			Name:    fmt.Sprintf("SMA %d", g.ma200),
			XValues: x,
			YValues: y,
			Style:   gochart.Style{StrokeColor: gochart.ColorRed, StrokeWidth: 1.0},
		})
	}
	chartSeries = append(chartSeries, gochart.TimeSeries{
		Name:    "Volume",
		YAxis:   gochart.YAxisSecondary,
		XValues: dates,
		YValues: volumes,
		Style:   gochart.Style{StrokeColor: gochart.ColorLightGray, StrokeWidth: 1.0},
	})

	graph := gochart.Chart{
		Title:          series.Ticker + " - CAN-SLIM Stock Chart",
		Width:          1200,
		Height:         800,
		YAxis:          gochart.YAxis{Name: "Price (USD)"},
		YAxisSecondary: gochart.YAxis{Name: "Volume"},
		Series:         chartSeries,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	path := filepath.Join(g.outputDir, "chart_"+series.Ticker+".png")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(gochart.PNG, f); err != nil {
		return "", fmt.Errorf("rendering chart for %s: %w", series.Ticker, err)
	}
	return path, nil
}

// overlay computes a moving average overlay aligned to the bars it
// covers, or (nil, nil) when the history is shorter than the period.
func (g *Generator) overlay(series *models.PriceSeries, period int) ([]time.Time, []float64) {
	values, err := indicators.NewSMA(period).Calculate(series.Bars)
	if err != nil {
		return nil, nil
	}
	x := make([]time.Time, 0, len(values)-period+1)
	y := make([]float64, 0, len(values)-period+1)
	for i := period - 1; i < len(values); i++ {
		x = append(x, series.Bars[i].Date)
		y = append(y, values[i])
	}
	return x, y
}
