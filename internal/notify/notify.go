// Package notify delivers screening results to the configured channels.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"canslim-hunter/internal/config"
	"canslim-hunter/internal/models"
	"canslim-hunter/pkg/utils"
)

// Channel defines the interface for a notification channel.
type Channel interface {
	Name() string
	Send(ctx context.Context, n Notification) error
	IsEnabled() bool
}

// Notification represents one outgoing message.
type Notification struct {
	Type      NotificationType
	Title     string
	Message   string
	Timestamp time.Time
}

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationAlert   NotificationType = "stock_alert"
	NotificationSummary NotificationType = "run_summary"
)

// Dispatcher fans a notification out to every enabled channel.
// A failing channel is logged and does not block the others.
type Dispatcher struct {
	channels []Channel
	logger   zerolog.Logger
}

// NewDispatcher creates a dispatcher over the given channels.
func NewDispatcher(logger zerolog.Logger, channels ...Channel) *Dispatcher {
	return &Dispatcher{
		channels: channels,
		logger:   logger.With().Str("component", "notify").Logger(),
	}
}

// NewDispatcherFromConfig builds the channel set the configuration enables.
func NewDispatcherFromConfig(cfg config.NotificationConfig, creds config.Credentials, logger zerolog.Logger) *Dispatcher {
	var channels []Channel
	if cfg.Terminal.Enabled {
		channels = append(channels, NewTerminalChannel(cfg.Terminal.Color))
	}
	if cfg.Slack.Enabled && creds.Slack.WebhookURL != "" {
		channels = append(channels, NewSlackChannel(creds.Slack.WebhookURL, cfg.Slack.Channel))
	}
	return NewDispatcher(logger, channels...)
}

// Send delivers the notification to every enabled channel.
func (d *Dispatcher) Send(ctx context.Context, n Notification) error {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}

	var lastErr error
	for _, ch := range d.channels {
		if !ch.IsEnabled() {
			continue
		}
		if err := ch.Send(ctx, n); err != nil {
			d.logger.Warn().Err(err).Str("channel", ch.Name()).Msg("Notification failed")
			lastErr = err
		}
	}
	return lastErr
}

// SendStockAlert formats and delivers the alert for one qualified ticker.
func (d *Dispatcher) SendStockAlert(ctx context.Context, result models.TickerResult) error {
	return d.Send(ctx, Notification{
		Type:    NotificationAlert,
		Title:   fmt.Sprintf("CAN-SLIM candidate: %s", result.Ticker),
		Message: FormatStockAlert(result),
	})
}

// SendRunSummary formats and delivers the end-of-run summary.
func (d *Dispatcher) SendRunSummary(ctx context.Context, report *models.RunReport) error {
	return d.Send(ctx, Notification{
		Type:    NotificationSummary,
		Title:   "Screening run summary",
		Message: FormatRunSummary(report),
	})
}

// FormatStockAlert renders the alert body for a qualified ticker.
func FormatStockAlert(result models.TickerResult) string {
	var b strings.Builder

	if s := result.Snapshot; s != nil {
		fmt.Fprintf(&b, "Price: %s | 52w high: %s | 1y return: %s\n",
			utils.FormatUSD(s.CurrentPrice), utils.FormatUSD(s.High52w), utils.FormatPercent(s.Return1y))
		fmt.Fprintf(&b, "Avg volume: %s | SMA50: %s | SMA200: %s\n",
			utils.FormatVolume(s.Volume50dAvg), utils.FormatUSD(s.SMA50), utils.FormatUSD(s.SMA200))
	}
	if m := result.Metrics; m != nil {
		fmt.Fprintf(&b, "Sector: %s | Industry: %s\n", m.Sector, m.Industry)
		fmt.Fprintf(&b, "EPS growth (QoQ yearly): %s\n", utils.FormatPercent(m.EPSGrowthQ))
		fmt.Fprintf(&b, "Revenue growth (QoQ yearly): %s\n", utils.FormatPercent(m.RevenueGrowthQ))
		fmt.Fprintf(&b, "ROE: %s\n", utils.FormatPercent(m.ROE))
	}
	if p := result.ExitPlan; p != nil {
		fmt.Fprintf(&b, "Profit target: %s (exit if %s)\n", utils.FormatUSD(p.ProfitTargetPrice), p.ProfitCondition)
		fmt.Fprintf(&b, "Stop loss: %s (exit if %s)\n", utils.FormatUSD(p.StopLossPrice), p.StopLossCondition)
	}
	if result.ChartPath != "" {
		fmt.Fprintf(&b, "Chart: %s\n", result.ChartPath)
	}
	return b.String()
}

// FormatRunSummary renders the end-of-run summary body.
func FormatRunSummary(report *models.RunReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Universe: %d tickers\n", report.Universe)
	fmt.Fprintf(&b, "Technical candidates: %d\n", len(report.Candidates))
	fmt.Fprintf(&b, "Qualified: %d\n", len(report.QualifiedResults()))
	fmt.Fprintf(&b, "Skipped: %d\n", report.Skipped())
	for _, res := range report.QualifiedResults() {
		fmt.Fprintf(&b, "  • %s\n", res.Ticker)
	}
	return b.String()
}
