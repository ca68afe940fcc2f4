package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"canslim-hunter/internal/analysis/indicators"
	"canslim-hunter/internal/marketdata"
	"canslim-hunter/internal/models"
	"canslim-hunter/internal/screen"
	"canslim-hunter/pkg/utils"
)

// newExitsCmd creates the exits command: compute the advisory exit
// plan for a single ticker from its current price history.
func newExitsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exits <symbol>",
		Short: "Compute the exit plan for one ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			symbol := args[0]

			yahoo := marketdata.NewYahooClient()
			var cache marketdata.CandleCache
			if app.Store != nil {
				cache = app.Store
			}
			loader := marketdata.NewLoader(yahoo, yahoo, cache, app.Config.Data, app.Logger)

			series, err := loader.FetchSeries(ctx, symbol)
			if err != nil {
				return err
			}
			if series.Len() == 0 {
				return fmt.Errorf("no price history for %s", symbol)
			}

			plan, err := planFromSeries(app, series)
			if err != nil {
				return err
			}

			fmt.Printf("%s @ %s\n", symbol, utils.FormatUSD(series.LatestClose()))
			fmt.Printf("Profit target: %s\n", utils.FormatUSD(plan.ProfitTargetPrice))
			fmt.Printf("  condition: %s\n", plan.ProfitCondition)
			fmt.Printf("  reason:    %s\n", plan.ProfitReason)
			fmt.Printf("Stop loss:     %s\n", utils.FormatUSD(plan.StopLossPrice))
			fmt.Printf("  condition: %s\n", plan.StopLossCondition)
			fmt.Printf("  reason:    %s\n", plan.StopLossReason)
			return nil
		},
	}

	return cmd
}

func planFromSeries(app *App, series *models.PriceSeries) (*models.ExitPlan, error) {
	sc := app.Config.Screening
	ma10, err := indicators.NewSMA(sc.MA10Period).Latest(series.Bars)
	if err != nil {
		return nil, fmt.Errorf("10-day moving average: %w", err)
	}
	ma50, err := indicators.NewSMA(sc.MA50Period).Latest(series.Bars)
	if err != nil {
		return nil, fmt.Errorf("50-day moving average: %w", err)
	}

	planner := screen.NewExitPlanner(app.Config.Exit)
	return planner.Plan(series.LatestClose(), ma10, ma50)
}
