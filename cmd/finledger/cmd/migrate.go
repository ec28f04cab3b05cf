package cmd

import (
	"github.com/SscSPs/finledger/pkg/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return database.RunMigrations(cfg.DBDriver, cfg.DSN(), logger)
	},
}
