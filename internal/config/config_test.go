package config

import (
	"os"
	"path/filepath"
	"testing"

	"canslim-hunter/internal/errors"
)

func TestLoad_MissingFilesCreatesTemplatesAndUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Screening.MinPrice != 10.0 {
		t.Errorf("min_price %v, expected default 10.0", cfg.Screening.MinPrice)
	}
	if cfg.Screening.NearHighPct != 0.85 {
		t.Errorf("near_high_pct %v, expected default 0.85", cfg.Screening.NearHighPct)
	}
	if cfg.Exit.ProfitTargetPct != 0.20 || cfg.Exit.StopLossPct != 0.07 {
		t.Errorf("unexpected exit defaults %+v", cfg.Exit)
	}
	if cfg.Data.BenchmarkTicker != "SPY" {
		t.Errorf("benchmark %q, expected SPY", cfg.Data.BenchmarkTicker)
	}

	for _, name := range []string{"config.toml", "credentials.toml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("template %s not created: %v", name, err)
		}
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `
[screening]
min_price = 25.0
roe_threshold = 0.18

[exit]
profit_target_pct = 0.25

[data]
benchmark_ticker = "QQQ"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Screening.MinPrice != 25.0 {
		t.Errorf("min_price %v, expected 25.0", cfg.Screening.MinPrice)
	}
	if cfg.Screening.ROEThreshold != 0.18 {
		t.Errorf("roe_threshold %v, expected 0.18", cfg.Screening.ROEThreshold)
	}
	if cfg.Exit.ProfitTargetPct != 0.25 {
		t.Errorf("profit_target_pct %v, expected 0.25", cfg.Exit.ProfitTargetPct)
	}
	if cfg.Data.BenchmarkTicker != "QQQ" {
		t.Errorf("benchmark %q, expected QQQ", cfg.Data.BenchmarkTicker)
	}
	// Untouched values keep their defaults.
	if cfg.Screening.MinVolAvg != 200_000 {
		t.Errorf("min_vol_avg %v, expected default 200000", cfg.Screening.MinVolAvg)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.example/T123")
	t.Setenv("TICKER_LIST_PATH", "/data/universe.csv")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Credentials.Slack.WebhookURL != "https://hooks.slack.example/T123" {
		t.Errorf("webhook not overridden: %q", cfg.Credentials.Slack.WebhookURL)
	}
	if cfg.Data.TickerListPath != "/data/universe.csv" {
		t.Errorf("ticker list path not overridden: %q", cfg.Data.TickerListPath)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Screening: DefaultScreeningConfig(),
			Exit:      DefaultExitConfig(),
			Data:      DataConfig{APICallDelaySec: 1.0},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero min price", func(c *Config) { c.Screening.MinPrice = 0 }, false},
		{"negative volume floor", func(c *Config) { c.Screening.MinVolAvg = -1 }, false},
		{"near high above one", func(c *Config) { c.Screening.NearHighPct = 1.5 }, false},
		{"zero ma period", func(c *Config) { c.Screening.MA200Period = 0 }, false},
		{"stop loss of one", func(c *Config) { c.Exit.StopLossPct = 1.0 }, false},
		{"negative api delay", func(c *Config) { c.Data.APICallDelaySec = -1 }, false},
		{"slack enabled without webhook", func(c *Config) { c.Notifications.Slack.Enabled = true }, false},
		{"slack enabled with webhook", func(c *Config) {
			c.Notifications.Slack.Enabled = true
			c.Credentials.Slack.WebhookURL = "https://hooks.slack.example/T123"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("expected a validation error")
				}
				if !errors.Is(err, errors.ErrConfigInvalid) {
					t.Errorf("error %v should match ErrConfigInvalid", err)
				}
			}
		})
	}
}
