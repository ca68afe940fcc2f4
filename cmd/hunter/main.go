package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"canslim-hunter/internal/cli"
	"canslim-hunter/internal/config"
	"canslim-hunter/internal/logging"
)

func main() {
	logger := logging.NewLogger()

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
