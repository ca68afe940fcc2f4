package notify

import (
	"context"
	"fmt"
	"os"
)

// TerminalChannel prints notifications to stdout.
type TerminalChannel struct {
	color bool
}

// NewTerminalChannel creates a terminal output channel.
func NewTerminalChannel(color bool) *TerminalChannel {
	return &TerminalChannel{color: color}
}

func (t *TerminalChannel) Name() string {
	return "terminal"
}

func (t *TerminalChannel) IsEnabled() bool {
	return true
}

// Send prints the notification title and body.
func (t *TerminalChannel) Send(_ context.Context, n Notification) error {
	title := n.Title
	if t.color {
		title = "\033[1;32m" + title + "\033[0m"
	}
	fmt.Fprintf(os.Stdout, "\n%s\n%s\n", title, n.Message)
	return nil
}
