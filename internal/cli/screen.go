package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"canslim-hunter/internal/chart"
	"canslim-hunter/internal/logging"
	"canslim-hunter/internal/marketdata"
	"canslim-hunter/internal/models"
	"canslim-hunter/internal/notify"
	"canslim-hunter/internal/screen"
)

// newScreenCmd creates the screen command: one full screening pass
// over the ticker universe.
func newScreenCmd(app *App) *cobra.Command {
	var (
		tickerFile string
		listName   string
		noNotify   bool
	)

	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Run the full screening pipeline",
		Long:  "Loads the ticker universe, applies the five technical filters and the fundamental qualification checks, computes exit plans for qualified tickers and delivers the results.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := logging.FromContext(ctx)

			tickers, err := loadUniverse(ctx, app, tickerFile, listName)
			if err != nil {
				return err
			}
			logger.Info().Int("tickers", len(tickers)).Msg("Ticker universe loaded")

			yahoo := marketdata.NewYahooClient()
			var cache marketdata.CandleCache
			if app.Store != nil {
				cache = app.Store
			}
			loader := marketdata.NewLoader(yahoo, yahoo, cache, app.Config.Data, logger)

			universe, benchmark, err := loader.FetchPriceSeries(ctx, tickers)
			if err != nil {
				return err
			}
			logger.Info().
				Int("series", len(universe)).
				Str("benchmark", app.Config.Data.BenchmarkTicker).
				Msg("Price history loaded")

			pipeline := screen.NewPipeline(app.Config.Screening, app.Config.Exit, logger)
			report, err := pipeline.Run(ctx, universe, benchmark, loader.FetchFundamentals)
			if err != nil {
				return err
			}

			if app.Config.Charts.Enabled {
				renderCharts(report, universe, app, logger)
			}

			if noNotify || !app.Config.Notifications.Enabled {
				fmt.Print(notify.FormatRunSummary(report))
				return nil
			}

			dispatcher := notify.NewDispatcherFromConfig(app.Config.Notifications, app.Config.Credentials, logger)
			for _, result := range report.QualifiedResults() {
				if err := dispatcher.SendStockAlert(ctx, result); err != nil {
					logger.Warn().Err(err).Str("ticker", result.Ticker).Msg("Alert delivery failed")
				}
			}
			return dispatcher.SendRunSummary(ctx, report)
		},
	}

	cmd.Flags().StringVarP(&tickerFile, "file", "f", "", "ticker universe CSV (defaults to data.ticker_list_path)")
	cmd.Flags().StringVarP(&listName, "watchlist", "w", "", "screen a stored watchlist instead of a CSV file")
	cmd.Flags().BoolVar(&noNotify, "no-notify", false, "print the summary instead of notifying")

	return cmd
}

// renderCharts draws a price chart for each qualified ticker and
// records its path on the result. A chart failure never fails the run.
func renderCharts(report *models.RunReport, universe []*models.PriceSeries, app *App, logger zerolog.Logger) {
	gen, err := chart.NewGenerator(app.Config.Charts.OutputDir, app.Config.Screening.MA50Period, app.Config.Screening.MA200Period)
	if err != nil {
		logger.Warn().Err(err).Msg("Chart generation disabled")
		return
	}

	bySymbol := make(map[string]*models.PriceSeries, len(universe))
	for _, series := range universe {
		bySymbol[series.Ticker] = series
	}

	for i := range report.Results {
		res := &report.Results[i]
		if !res.Qualified() {
			continue
		}
		series, ok := bySymbol[res.Ticker]
		if !ok {
			continue
		}
		path, err := gen.Generate(series)
		if err != nil {
			logger.Warn().Err(err).Str("ticker", res.Ticker).Msg("Chart generation failed")
			continue
		}
		res.ChartPath = path
		logger.Debug().Str("ticker", res.Ticker).Str("path", path).Msg("Chart rendered")
	}
}
