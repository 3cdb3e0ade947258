// Package main is the entry point for the minddeck CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/minddeck/minddeck"
	"github.com/spf13/cobra"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	flagEnvFile string
	flagDBURL   string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "minddeck",
		Short: "Minddeck personal memory log",
		Long:  `Minddeck records project events, embeds them for semantic retrieval, and answers questions grounded in your own log.`,
	}

	cmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "path to a .env file (default: ./.env)")
	cmd.PersistentFlags().StringVar(&flagDBURL, "db", "", "database URL (overrides DB_URL)")

	cmd.AddCommand(askCmd())
	cmd.AddCommand(searchCmd())
	cmd.AddCommand(backfillCmd())
	cmd.AddCommand(eventsCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// newClient assembles the core from the shared flags.
func newClient(cmd *cobra.Command) (*minddeck.Client, error) {
	opts := []minddeck.Option{minddeck.WithEnvFile(flagEnvFile)}
	if flagDBURL != "" {
		opts = append(opts, minddeck.WithDatabaseURL(flagDBURL))
	}
	return minddeck.New(cmd.Context(), opts...)
}
