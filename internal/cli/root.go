// Package cli provides the command-line interface for the screening application.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"canslim-hunter/internal/config"
	"canslim-hunter/internal/logging"
	"canslim-hunter/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.DataStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize SQLite cache store; screening still works without it
	if cfg.Data.CachePath != "" {
		dataStore, err := store.NewSQLiteStore(cfg.Data.CachePath)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize cache store, caching disabled")
		} else {
			app.Store = dataStore
			logger.Debug().Str("path", cfg.Data.CachePath).Msg("SQLite cache initialized")
		}
	}

	rootCmd := &cobra.Command{
		Use:     "hunter",
		Short:   "CAN-SLIM growth stock screener",
		Long:    "Screens a ticker universe against CAN-SLIM technical and fundamental criteria and computes advisory exit levels for the survivors.",
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				logging.SetDebugLevel()
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), app.Logger))
		},
	}

	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")

	rootCmd.AddCommand(
		newScreenCmd(app),
		newUniverseCmd(app),
		newExitsCmd(app),
	)

	return rootCmd
}
