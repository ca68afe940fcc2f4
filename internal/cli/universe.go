package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"canslim-hunter/internal/errors"
	"canslim-hunter/internal/marketdata"
)

// loadUniverse resolves the ticker universe for a run: an explicit
// CSV file, a stored watchlist, or the configured default list path.
func loadUniverse(ctx context.Context, app *App, tickerFile, listName string) ([]string, error) {
	if listName != "" {
		if app.Store == nil {
			return nil, fmt.Errorf("watchlist requested but cache store is unavailable")
		}
		tickers, err := app.Store.GetWatchlist(ctx, listName)
		if err != nil {
			return nil, err
		}
		if len(tickers) == 0 {
			return nil, errors.Wrapf(errors.ErrTickerListEmpty, "watchlist %q", listName)
		}
		return tickers, nil
	}

	path := tickerFile
	if path == "" {
		path = app.Config.Data.TickerListPath
	}
	return marketdata.LoadTickerList(path)
}

// newUniverseCmd creates the universe command group for managing
// stored ticker watchlists.
func newUniverseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "universe",
		Short: "Manage stored ticker watchlists",
	}

	addCmd := &cobra.Command{
		Use:   "add <list> <symbol>...",
		Short: "Add symbols to a watchlist",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("cache store is unavailable")
			}
			list := args[0]
			for _, symbol := range args[1:] {
				if err := app.Store.AddToWatchlist(cmd.Context(), symbol, list); err != nil {
					return err
				}
			}
			fmt.Printf("Added %d symbol(s) to %s\n", len(args)-1, list)
			return nil
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove <list> <symbol>...",
		Short: "Remove symbols from a watchlist",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("cache store is unavailable")
			}
			list := args[0]
			for _, symbol := range args[1:] {
				if err := app.Store.RemoveFromWatchlist(cmd.Context(), symbol, list); err != nil {
					return err
				}
			}
			fmt.Printf("Removed %d symbol(s) from %s\n", len(args)-1, list)
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show [list]",
		Short: "Show one or all watchlists",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("cache store is unavailable")
			}
			if len(args) == 1 {
				tickers, err := app.Store.GetWatchlist(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				for _, t := range tickers {
					fmt.Println(t)
				}
				return nil
			}
			lists, err := app.Store.GetAllWatchlists(cmd.Context())
			if err != nil {
				return err
			}
			for name, tickers := range lists {
				fmt.Printf("%s (%d)\n", name, len(tickers))
				for _, t := range tickers {
					fmt.Printf("  %s\n", t)
				}
			}
			return nil
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <list> <csv-file>",
		Short: "Import a ticker CSV into a watchlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("cache store is unavailable")
			}
			tickers, err := marketdata.LoadTickerList(args[1])
			if err != nil {
				return err
			}
			for _, symbol := range tickers {
				if err := app.Store.AddToWatchlist(cmd.Context(), symbol, args[0]); err != nil {
					return err
				}
			}
			fmt.Printf("Imported %d symbol(s) into %s\n", len(tickers), args[0])
			return nil
		},
	}

	cmd.AddCommand(addCmd, removeCmd, showCmd, importCmd)
	return cmd
}
