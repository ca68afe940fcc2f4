package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# CAN-SLIM Hunter Configuration

[screening]
# Minimum share price in USD (tickers below are excluded)
min_price = 10.0
# Minimum 50-day average volume in shares
min_vol_avg = 200000
# Required proximity to the 52-week high (0.85 = within 15%)
near_high_pct = 0.85
# Quarterly EPS growth threshold vs the same quarter a year ago
eps_growth_threshold = 0.20
# Quarterly revenue growth threshold vs the same quarter a year ago
rev_growth_threshold = 0.20
# Trailing annual return-on-equity threshold
roe_threshold = 0.15
# Moving average periods in trading days
ma_10_period = 10
ma_50_period = 50
ma_200_period = 200
# Trailing window for the average volume check
volume_lookback = 50
# Trailing window for the 52-week high check
high_lookback = 252

[exit]
# Profit target above the current price (0.20 = +20%)
profit_target_pct = 0.20
# Stop loss below the current price (0.07 = -7%)
stop_loss_pct = 0.07
# Secondary stop: drawdown below the 50-day moving average
ma_stop_loss_pct = 0.03

[data]
# CSV file with the ticker universe (one symbol per row)
ticker_list_path = "tickers.csv"
# Benchmark instrument for relative strength
benchmark_ticker = "SPY"
# Trading days of price history to fetch (~1 year)
history_days = 252
# Delay between data API calls in seconds
api_call_delay_sec = 1.0
# Maximum retries on network errors
max_retries = 3
# SQLite cache for price history (defaults to hunter.db in the config dir)
# cache_path = "/path/to/hunter.db"
# Cached candles older than this are refetched
cache_max_age_hrs = 18

[charts]
# Render a PNG price chart for each qualified ticker
enabled = true
# Defaults to the charts/ directory under the config dir
# output_dir = "/path/to/charts"

[notifications]
enabled = true

[notifications.slack]
enabled = false
channel = "#stock-alerts"

[notifications.terminal]
enabled = true
color = true
`

const credentialsTemplate = `# CAN-SLIM Hunter Credentials
# Keep this file private. The SLACK_WEBHOOK_URL environment variable
# overrides the value below.

[slack]
webhook_url = ""
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}
	return nil
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	// Credentials are private to the user
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}
	return nil
}
