package screen

import (
	"context"
	"math"
	"testing"

	"canslim-hunter/internal/errors"
	"canslim-hunter/internal/models"
)

func strongFundamentals() *models.Fundamentals {
	return &models.Fundamentals{
		QuarterlyEPS:     []float64{1.30, 1.20, 1.10, 1.05, 1.00},
		QuarterlyRevenue: []float64{130, 120, 110, 105, 100},
		ROE:              roePtr(0.25),
		Sector:           "Technology",
		Industry:         "Software",
	}
}

func weakFundamentals() *models.Fundamentals {
	return &models.Fundamentals{
		QuarterlyEPS:     []float64{1.00, 1.00, 1.00, 1.00, 1.00},
		QuarterlyRevenue: []float64{100, 100, 100, 100, 100},
		ROE:              roePtr(0.05),
	}
}

func staticProvider(data map[string]*models.Fundamentals) FundamentalsProvider {
	return func(_ context.Context, ticker string) (*models.Fundamentals, error) {
		d, ok := data[ticker]
		if !ok {
			return nil, errors.ErrNoFundamentals
		}
		return d, nil
	}
}

func TestPipelineRun_EndToEnd(t *testing.T) {
	pipeline := NewPipeline(testConfig(), testExitConfig(), nopLogger())

	universe := []*models.PriceSeries{
		risingSeries("WIN", 252, 100, 150, 300_000), // survives, qualifies
		risingSeries("FLAT", 252, 100, 150, 300_000), // survives, weak fundamentals
		risingSeries("LOST", 252, 100, 150, 300_000), // survives, no data
		flatSeries("PENNY", 252, 5.0, 300_000),       // fails the price floor
	}
	benchmark := flatSeries("SPY", 252, 400.0, 1_000_000)

	provider := staticProvider(map[string]*models.Fundamentals{
		"WIN":  strongFundamentals(),
		"FLAT": weakFundamentals(),
	})

	report, err := pipeline.Run(context.Background(), universe, benchmark, provider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Universe != 4 {
		t.Errorf("universe size %d, expected 4", report.Universe)
	}
	if len(report.Candidates) != 3 {
		t.Fatalf("candidates %v, expected WIN, FLAT, LOST", report.Candidates)
	}
	if len(report.Results) != 3 {
		t.Fatalf("results %d, expected one per candidate", len(report.Results))
	}

	byTicker := make(map[string]models.TickerResult)
	for _, r := range report.Results {
		byTicker[r.Ticker] = r
	}

	win := byTicker["WIN"]
	if win.Verdict != models.VerdictQualified {
		t.Fatalf("WIN verdict %s, expected QUALIFIED (reason: %s)", win.Verdict, win.Reason)
	}
	if win.ExitPlan == nil {
		t.Fatal("qualified result should carry an exit plan")
	}
	if math.Abs(win.ExitPlan.ProfitTargetPrice-180.0) > 1e-9 {
		t.Errorf("WIN profit target %v, expected 180.0", win.ExitPlan.ProfitTargetPrice)
	}
	if math.Abs(win.ExitPlan.StopLossPrice-139.5) > 1e-9 {
		t.Errorf("WIN stop loss %v, expected 139.5", win.ExitPlan.StopLossPrice)
	}
	if win.Metrics == nil || win.Metrics.Sector != "Technology" {
		t.Errorf("WIN metrics not carried through: %+v", win.Metrics)
	}
	if win.Snapshot == nil {
		t.Fatal("qualified result should carry a snapshot")
	}
	if math.Abs(win.Snapshot.CurrentPrice-150.0) > 1e-9 {
		t.Errorf("WIN snapshot price %v, expected 150.0", win.Snapshot.CurrentPrice)
	}
	if math.Abs(win.Snapshot.Return1y-0.5) > 1e-9 {
		t.Errorf("WIN snapshot return %v, expected 0.5", win.Snapshot.Return1y)
	}

	flat := byTicker["FLAT"]
	if flat.Verdict != models.VerdictNotQualified {
		t.Errorf("FLAT verdict %s, expected NOT_QUALIFIED", flat.Verdict)
	}
	if flat.Metrics == nil {
		t.Error("non-qualified result should still carry metrics")
	}
	if flat.ExitPlan != nil {
		t.Error("non-qualified result should not carry an exit plan")
	}

	lost := byTicker["LOST"]
	if lost.Verdict != models.VerdictSkipped {
		t.Errorf("LOST verdict %s, expected SKIPPED", lost.Verdict)
	}
	if lost.Reason == "" {
		t.Error("skipped result should preserve the failure reason")
	}

	if got := report.QualifiedResults(); len(got) != 1 || got[0].Ticker != "WIN" {
		t.Errorf("qualified results %v, expected only WIN", got)
	}
	if report.Skipped() != 1 {
		t.Errorf("skipped count %d, expected 1", report.Skipped())
	}
}

func TestPipelineRun_EmptyCandidateSet(t *testing.T) {
	pipeline := NewPipeline(testConfig(), testExitConfig(), nopLogger())

	universe := []*models.PriceSeries{flatSeries("PENNY", 252, 5.0, 300_000)}
	benchmark := flatSeries("SPY", 252, 400.0, 1_000_000)

	calls := 0
	provider := func(_ context.Context, _ string) (*models.Fundamentals, error) {
		calls++
		return nil, errors.ErrNoFundamentals
	}

	report, err := pipeline.Run(context.Background(), universe, benchmark, provider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Candidates) != 0 || len(report.Results) != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}
	if calls != 0 {
		t.Errorf("provider called %d times for an empty candidate set", calls)
	}
}

func TestPipelineRun_ContextCancellation(t *testing.T) {
	pipeline := NewPipeline(testConfig(), testExitConfig(), nopLogger())

	universe := []*models.PriceSeries{risingSeries("WIN", 252, 100, 150, 300_000)}
	benchmark := flatSeries("SPY", 252, 400.0, 1_000_000)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipeline.Run(ctx, universe, benchmark, staticProvider(nil))
	if err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
}

func TestPipelineRun_ProviderErrorDoesNotAbort(t *testing.T) {
	pipeline := NewPipeline(testConfig(), testExitConfig(), nopLogger())

	universe := []*models.PriceSeries{
		risingSeries("BAD", 252, 100, 150, 300_000),
		risingSeries("GOOD", 252, 100, 150, 300_000),
	}
	benchmark := flatSeries("SPY", 252, 400.0, 1_000_000)

	provider := staticProvider(map[string]*models.Fundamentals{
		"GOOD": strongFundamentals(),
	})

	report, err := pipeline.Run(context.Background(), universe, benchmark, provider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Results) != 2 {
		t.Fatalf("expected both candidates evaluated, got %d results", len(report.Results))
	}
	if report.Results[0].Verdict != models.VerdictSkipped {
		t.Errorf("BAD verdict %s, expected SKIPPED", report.Results[0].Verdict)
	}
	if report.Results[1].Verdict != models.VerdictQualified {
		t.Errorf("GOOD verdict %s, expected QUALIFIED", report.Results[1].Verdict)
	}
}
