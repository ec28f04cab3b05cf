package cmd

import (
	"context"
	"fmt"
	"log/slog"

	portssvc "github.com/SscSPs/finledger/internal/core/ports/services"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Install the standard chart of accounts",
	Long: `Install the standard chart of accounts. Running it again inserts only
accounts that are missing and never changes existing ones.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(ctx context.Context, svc *portssvc.ServiceContainer) error {
			inserted, err := svc.Account.Setup(ctx, actorID)
			if err != nil {
				return err
			}
			logger.Info("Chart of accounts ready", slog.Int("inserted", inserted))
			fmt.Fprintf(cmd.OutOrStdout(), "%d accounts inserted\n", inserted)
			return nil
		})
	},
}
