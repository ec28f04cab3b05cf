// Package cmd provides the finledger CLI commands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/finledger/internal/platform/config"
	"github.com/spf13/cobra"
)

var (
	dbPath  string
	actorID string
	debug   bool

	cfg    *config.Config
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "finledger",
	Short: "Double-entry ledger for financial statement ingestion",
	Long: `finledger records normalized statement records (bank, mutual fund, stock,
retirement and tax statements) into a single double-entry ledger. Every
financial event is recorded at most once and every journal balances.

Configuration comes from the environment and an optional .env file.

Example:
  finledger migrate
  finledger setup
  finledger ingest --source-type CAMS --file statement.jsonl
  finledger balance 1101 --as-of 2024-03-31
  finledger serve`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if dbPath != "" {
			cfg.DBPath = dbPath
		}
		if actorID == "" {
			actorID = cfg.SystemActorID
		}

		level := cfg.LogLevel
		if debug {
			level = slog.LevelDebug
		}
		opts := &slog.HandlerOptions{Level: level}
		if cfg.IsProduction {
			logger = slog.New(slog.NewJSONHandler(os.Stderr, opts))
		} else {
			logger = slog.New(slog.NewTextHandler(os.Stderr, opts))
		}
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite ledger file (overrides LEDGER_DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&actorID, "actor", "", "actor ID recorded on journals and audit entries (default SYSTEM_ACTOR_ID)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(reverseCmd)
	rootCmd.AddCommand(trialBalanceCmd)
	rootCmd.AddCommand(ratesCmd)
}
