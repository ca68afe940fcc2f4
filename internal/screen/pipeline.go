package screen

import (
	"context"

	"github.com/rs/zerolog"

	"canslim-hunter/internal/analysis/indicators"
	"canslim-hunter/internal/config"
	"canslim-hunter/internal/logging"
	"canslim-hunter/internal/models"
)

// FundamentalsProvider supplies the raw financial data for one
// candidate ticker. Implementations own any rate limiting and retry;
// the pipeline only observes a value or an error.
type FundamentalsProvider func(ctx context.Context, ticker string) (*models.Fundamentals, error)

// Pipeline runs the full screening pass: technical filter chain,
// fundamental qualification and exit planning. It holds no state
// across runs; every Run is a fresh evaluation.
type Pipeline struct {
	technical   *TechnicalScreen
	fundamental *FundamentalScreen
	exits       *ExitPlanner
	cfg         config.ScreeningConfig
	logger      zerolog.Logger
}

// NewPipeline wires the three screens with a shared configuration.
func NewPipeline(screening config.ScreeningConfig, exit config.ExitConfig, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		technical:   NewTechnicalScreen(screening, logger),
		fundamental: NewFundamentalScreen(screening, logger),
		exits:       NewExitPlanner(exit),
		cfg:         screening,
		logger:      logger,
	}
}

// Run screens the universe and returns the per-ticker results.
// Candidates are evaluated in the order the technical screen emitted
// them, strictly one at a time: the fundamentals provider enforces a
// fixed inter-call delay against its upstream source.
func (p *Pipeline) Run(ctx context.Context, universe []*models.PriceSeries, benchmark *models.BenchmarkSeries, provider FundamentalsProvider) (*models.RunReport, error) {
	report := &models.RunReport{Universe: len(universe)}

	byTicker := make(map[string]*models.PriceSeries, len(universe))
	for _, s := range universe {
		byTicker[s.Ticker] = s
	}

	report.Candidates = p.technical.FilterAll(universe, benchmark)
	p.logger.Info().
		Int("universe", len(universe)).
		Int("candidates", len(report.Candidates)).
		Msg("Technical screening complete")

	if len(report.Candidates) == 0 {
		return report, nil
	}

	for _, ticker := range report.Candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Results = append(report.Results, p.evaluate(ctx, ticker, byTicker[ticker], provider))
	}

	p.logger.Info().
		Int("qualified", len(report.QualifiedResults())).
		Int("skipped", report.Skipped()).
		Msg("Fundamental screening complete")

	return report, nil
}

// evaluate produces the verdict for a single candidate. Missing data
// yields a SKIPPED result with the reason preserved; evaluation
// failures never abort the run.
func (p *Pipeline) evaluate(ctx context.Context, ticker string, series *models.PriceSeries, provider FundamentalsProvider) models.TickerResult {
	logger := logging.WithTicker(p.logger, ticker)

	data, err := provider(ctx, ticker)
	if err != nil {
		logger.Warn().Err(err).Msg("Fundamental data unavailable, skipping")
		return models.TickerResult{
			Ticker:  ticker,
			Verdict: models.VerdictSkipped,
			Reason:  "fundamental data unavailable: " + err.Error(),
		}
	}

	qualified, metrics := p.fundamental.Qualify(ticker, data)
	if !qualified {
		return models.TickerResult{
			Ticker:  ticker,
			Verdict: models.VerdictNotQualified,
			Reason:  "below current or annual earnings thresholds",
			Metrics: &metrics,
		}
	}

	snapshot, plan, err := p.planExit(series)
	if err != nil {
		logger.Warn().Err(err).Msg("Exit plan construction failed, skipping")
		return models.TickerResult{
			Ticker:  ticker,
			Verdict: models.VerdictSkipped,
			Reason:  "exit plan: " + err.Error(),
			Metrics: &metrics,
		}
	}

	logging.LogExitPlan(logger, ticker, plan.ProfitTargetPrice, plan.StopLossPrice)

	return models.TickerResult{
		Ticker:   ticker,
		Verdict:  models.VerdictQualified,
		Metrics:  &metrics,
		Snapshot: snapshot,
		ExitPlan: plan,
	}
}

// planExit derives the technical snapshot and exit plan from the
// ticker's most recent bar and its moving averages. A survivor of the
// trend filter always has enough history for every average.
func (p *Pipeline) planExit(series *models.PriceSeries) (*models.StockSnapshot, *models.ExitPlan, error) {
	ma10, err := indicators.NewSMA(p.cfg.MA10Period).Latest(series.Bars)
	if err != nil {
		return nil, nil, err
	}
	ma50, err := indicators.NewSMA(p.cfg.MA50Period).Latest(series.Bars)
	if err != nil {
		return nil, nil, err
	}
	ma200, err := indicators.NewSMA(p.cfg.MA200Period).Latest(series.Bars)
	if err != nil {
		return nil, nil, err
	}

	snapshot, err := models.NewStockSnapshot(
		series.Ticker,
		series.LatestClose(),
		indicators.TrailingAvgVolume(series, p.cfg.VolumeLookback),
		ma50,
		ma200,
		indicators.TrailingMaxClose(series, p.cfg.HighLookback),
		indicators.TotalReturn(series),
	)
	if err != nil {
		return nil, nil, err
	}

	plan, err := p.exits.Plan(snapshot.CurrentPrice, ma10, ma50)
	if err != nil {
		return nil, nil, err
	}
	return snapshot, plan, nil
}
