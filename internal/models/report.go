package models

// Verdict classifies the outcome of evaluating one candidate ticker.
type Verdict string

const (
	VerdictQualified    Verdict = "QUALIFIED"
	VerdictNotQualified Verdict = "NOT_QUALIFIED"
	VerdictSkipped      Verdict = "SKIPPED"
)

// TickerResult records the per-ticker outcome of a screening run.
// Metrics is always present for evaluated tickers, qualified or not;
// Snapshot and ExitPlan are set only for qualified tickers. Reason
// explains a NOT_QUALIFIED or SKIPPED verdict. ChartPath is set when
// a chart image was rendered for the ticker.
type TickerResult struct {
	Ticker    string
	Verdict   Verdict
	Reason    string
	Metrics   *GrowthMetrics
	Snapshot  *StockSnapshot
	ExitPlan  *ExitPlan
	ChartPath string
}

// Qualified reports whether the ticker passed both fundamental checks.
func (r TickerResult) Qualified() bool {
	return r.Verdict == VerdictQualified
}

// RunReport summarizes one complete screening pass.
type RunReport struct {
	Universe   int
	Candidates []string
	Results    []TickerResult
}

// QualifiedResults returns the results that qualified, in pipeline order.
func (r *RunReport) QualifiedResults() []TickerResult {
	var out []TickerResult
	for _, res := range r.Results {
		if res.Qualified() {
			out = append(out, res)
		}
	}
	return out
}

// Skipped counts results that were skipped due to missing data.
func (r *RunReport) Skipped() int {
	n := 0
	for _, res := range r.Results {
		if res.Verdict == VerdictSkipped {
			n++
		}
	}
	return n
}
