package screen

import (
	"fmt"

	"canslim-hunter/internal/config"
	"canslim-hunter/internal/models"
)

// ExitPlanner computes static advisory profit-target and stop-loss
// reference levels. Pure and stateless: the conditions it produces
// are descriptive text, never monitored or enforced.
type ExitPlanner struct {
	cfg config.ExitConfig
}

// NewExitPlanner creates an exit planner with the given parameters.
func NewExitPlanner(cfg config.ExitConfig) *ExitPlanner {
	return &ExitPlanner{cfg: cfg}
}

// ProfitPlan holds the profit-target side of an exit plan.
type ProfitPlan struct {
	TargetPrice float64
	Condition   string
	Reason      string
}

// StopPlan holds the stop-loss side of an exit plan. MAThreshold is
// the secondary trigger level derived from the 50-day moving average.
type StopPlan struct {
	StopPrice   float64
	MAThreshold float64
	Condition   string
	Reason      string
}

// ProfitTarget computes the profit-target level from the current price
// and describes the 10-day moving average exit condition.
func (p *ExitPlanner) ProfitTarget(currentPrice, ma10 float64) ProfitPlan {
	targetPrice := currentPrice * (1 + p.cfg.ProfitTargetPct)

	return ProfitPlan{
		TargetPrice: targetPrice,
		Condition:   fmt.Sprintf("price falls below the 10-day moving average ($%.2f)", ma10),
		Reason:      "consider taking profit once price closes below the 10-day moving average",
	}
}

// StopLoss computes the stop-loss level from the current price plus a
// secondary threshold below the 50-day moving average. Both triggers
// are independent advisory conditions.
func (p *ExitPlanner) StopLoss(currentPrice, ma50 float64) StopPlan {
	stopPrice := currentPrice * (1 - p.cfg.StopLossPct)
	maThreshold := ma50 * (1 - p.cfg.MAStopLossPct)

	return StopPlan{
		StopPrice:   stopPrice,
		MAThreshold: maThreshold,
		Condition: fmt.Sprintf("price drops %.0f%% from entry, or falls more than %.0f%% below the 50-day moving average ($%.2f or lower)",
			p.cfg.StopLossPct*100, p.cfg.MAStopLossPct*100, maThreshold),
		Reason: fmt.Sprintf("cut losses at a %.0f%% drawdown or a %.0f%% break of the 50-day moving average",
			p.cfg.StopLossPct*100, p.cfg.MAStopLossPct*100),
	}
}

// Plan combines both sides into a validated ExitPlan. Construction
// fails only when a computed level is negative, which signals
// defective input data.
func (p *ExitPlanner) Plan(currentPrice, ma10, ma50 float64) (*models.ExitPlan, error) {
	profit := p.ProfitTarget(currentPrice, ma10)
	stop := p.StopLoss(currentPrice, ma50)

	return models.NewExitPlan(
		profit.TargetPrice,
		stop.StopPrice,
		profit.Condition,
		profit.Reason,
		stop.Condition,
		stop.Reason,
	)
}
