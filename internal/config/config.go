// Package config provides configuration management for the screening application.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"canslim-hunter/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Screening     ScreeningConfig    `mapstructure:"screening"`
	Exit          ExitConfig         `mapstructure:"exit"`
	Data          DataConfig         `mapstructure:"data"`
	Charts        ChartConfig        `mapstructure:"charts"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Credentials   Credentials        `mapstructure:"-"` // Loaded separately
}

// ScreeningConfig holds the screening thresholds. It is built once per
// run and passed explicitly into every screen; nothing reads it as
// global state.
type ScreeningConfig struct {
	MinPrice           float64 `mapstructure:"min_price"`
	MinVolAvg          float64 `mapstructure:"min_vol_avg"`
	NearHighPct        float64 `mapstructure:"near_high_pct"`
	EPSGrowthThreshold float64 `mapstructure:"eps_growth_threshold"`
	RevGrowthThreshold float64 `mapstructure:"rev_growth_threshold"`
	ROEThreshold       float64 `mapstructure:"roe_threshold"`
	MA10Period         int     `mapstructure:"ma_10_period"`
	MA50Period         int     `mapstructure:"ma_50_period"`
	MA200Period        int     `mapstructure:"ma_200_period"`
	VolumeLookback     int     `mapstructure:"volume_lookback"`
	HighLookback       int     `mapstructure:"high_lookback"`
}

// ExitConfig holds the exit strategy parameters.
type ExitConfig struct {
	ProfitTargetPct float64 `mapstructure:"profit_target_pct"`
	StopLossPct     float64 `mapstructure:"stop_loss_pct"`
	MAStopLossPct   float64 `mapstructure:"ma_stop_loss_pct"`
}

// DataConfig holds data source configuration.
type DataConfig struct {
	TickerListPath  string  `mapstructure:"ticker_list_path"`
	BenchmarkTicker string  `mapstructure:"benchmark_ticker"`
	HistoryDays     int     `mapstructure:"history_days"`
	APICallDelaySec float64 `mapstructure:"api_call_delay_sec"`
	MaxRetries      int     `mapstructure:"max_retries"`
	CachePath       string  `mapstructure:"cache_path"`
	CacheMaxAgeHrs  int     `mapstructure:"cache_max_age_hrs"`
}

// ChartConfig holds chart generation configuration.
type ChartConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	OutputDir string `mapstructure:"output_dir"`
}

// NotificationConfig holds notification configuration.
type NotificationConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Slack    SlackConfig    `mapstructure:"slack"`
	Terminal TerminalConfig `mapstructure:"terminal"`
}

// SlackConfig holds Slack notification configuration.
type SlackConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Channel string `mapstructure:"channel"`
}

// TerminalConfig holds terminal output configuration.
type TerminalConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Color   bool `mapstructure:"color"`
}

// Credentials holds API credentials.
type Credentials struct {
	Slack SlackCredentials `mapstructure:"slack"`
}

// SlackCredentials holds the Slack webhook credentials.
type SlackCredentials struct {
	WebhookURL string `mapstructure:"webhook_url"`
}

// DefaultScreeningConfig returns the stock screening thresholds used
// when no config file overrides them.
func DefaultScreeningConfig() ScreeningConfig {
	return ScreeningConfig{
		MinPrice:           10.0,
		MinVolAvg:          200_000,
		NearHighPct:        0.85,
		EPSGrowthThreshold: 0.20,
		RevGrowthThreshold: 0.20,
		ROEThreshold:       0.15,
		MA10Period:         10,
		MA50Period:         50,
		MA200Period:        200,
		VolumeLookback:     50,
		HighLookback:       252,
	}
}

// DefaultExitConfig returns the default exit strategy parameters.
func DefaultExitConfig() ExitConfig {
	return ExitConfig{
		ProfitTargetPct: 0.20,
		StopLossPct:     0.07,
		MAStopLossPct:   0.03,
	}
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/canslim-hunter"
	}
	return filepath.Join(home, ".config", "canslim-hunter")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	// Load main config
	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	// Load credentials
	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target *Config) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, create template and continue on defaults
			if terr := createTemplateConfig(configDir); terr != nil {
				return terr
			}
			return v.Unmarshal(target)
		}
		return err
	}

	return v.Unmarshal(target)
}

func setDefaults(v *viper.Viper) {
	sc := DefaultScreeningConfig()
	v.SetDefault("screening.min_price", sc.MinPrice)
	v.SetDefault("screening.min_vol_avg", sc.MinVolAvg)
	v.SetDefault("screening.near_high_pct", sc.NearHighPct)
	v.SetDefault("screening.eps_growth_threshold", sc.EPSGrowthThreshold)
	v.SetDefault("screening.rev_growth_threshold", sc.RevGrowthThreshold)
	v.SetDefault("screening.roe_threshold", sc.ROEThreshold)
	v.SetDefault("screening.ma_10_period", sc.MA10Period)
	v.SetDefault("screening.ma_50_period", sc.MA50Period)
	v.SetDefault("screening.ma_200_period", sc.MA200Period)
	v.SetDefault("screening.volume_lookback", sc.VolumeLookback)
	v.SetDefault("screening.high_lookback", sc.HighLookback)

	ec := DefaultExitConfig()
	v.SetDefault("exit.profit_target_pct", ec.ProfitTargetPct)
	v.SetDefault("exit.stop_loss_pct", ec.StopLossPct)
	v.SetDefault("exit.ma_stop_loss_pct", ec.MAStopLossPct)

	v.SetDefault("data.ticker_list_path", "tickers.csv")
	v.SetDefault("data.benchmark_ticker", "SPY")
	v.SetDefault("data.history_days", 252)
	v.SetDefault("data.api_call_delay_sec", 1.0)
	v.SetDefault("data.max_retries", 3)
	v.SetDefault("data.cache_path", filepath.Join(DefaultConfigDir(), "hunter.db"))
	v.SetDefault("data.cache_max_age_hrs", 18)

	v.SetDefault("charts.enabled", true)
	v.SetDefault("charts.output_dir", filepath.Join(DefaultConfigDir(), "charts"))

	v.SetDefault("notifications.enabled", true)
	v.SetDefault("notifications.slack.enabled", false)
	v.SetDefault("notifications.slack.channel", "#stock-alerts")
	v.SetDefault("notifications.terminal.enabled", true)
	v.SetDefault("notifications.terminal.color", true)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Credentials.Slack.WebhookURL = v
	}
	if v := os.Getenv("SLACK_CHANNEL"); v != "" {
		cfg.Notifications.Slack.Channel = v
	}
	if v := os.Getenv("TICKER_LIST_PATH"); v != "" {
		cfg.Data.TickerListPath = v
	}
}

// Validate validates the configuration. Every failure wraps
// errors.ErrConfigInvalid so callers can match on the family.
func (c *Config) Validate() error {
	if c.Screening.MinPrice <= 0 {
		return errors.Wrap(errors.ErrConfigInvalid, "min_price must be positive")
	}
	if c.Screening.MinVolAvg <= 0 {
		return errors.Wrap(errors.ErrConfigInvalid, "min_vol_avg must be positive")
	}
	if c.Screening.NearHighPct <= 0 || c.Screening.NearHighPct > 1 {
		return errors.Wrap(errors.ErrConfigInvalid, "near_high_pct must be in (0, 1]")
	}
	if c.Screening.MA10Period <= 0 || c.Screening.MA50Period <= 0 || c.Screening.MA200Period <= 0 {
		return errors.Wrap(errors.ErrConfigInvalid, "moving average periods must be positive")
	}
	if c.Exit.ProfitTargetPct < 0 {
		return errors.Wrap(errors.ErrConfigInvalid, "profit_target_pct must be non-negative")
	}
	if c.Exit.StopLossPct < 0 || c.Exit.StopLossPct >= 1 {
		return errors.Wrap(errors.ErrConfigInvalid, "stop_loss_pct must be in [0, 1)")
	}
	if c.Exit.MAStopLossPct < 0 || c.Exit.MAStopLossPct >= 1 {
		return errors.Wrap(errors.ErrConfigInvalid, "ma_stop_loss_pct must be in [0, 1)")
	}
	if c.Data.APICallDelaySec < 0 {
		return errors.Wrap(errors.ErrConfigInvalid, "api_call_delay_sec must be non-negative")
	}
	if c.Notifications.Slack.Enabled && c.Credentials.Slack.WebhookURL == "" {
		return errors.Wrap(errors.ErrConfigInvalid, "slack notifications enabled but no webhook URL configured")
	}
	return nil
}
