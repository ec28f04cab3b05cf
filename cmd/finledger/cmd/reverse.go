package cmd

import (
	"context"
	"fmt"

	portssvc "github.com/SscSPs/finledger/internal/core/ports/services"
	"github.com/spf13/cobra"
)

var reverseCmd = &cobra.Command{
	Use:   "reverse <journal-id>",
	Short: "Reverse a journal by posting its mirror image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(ctx context.Context, svc *portssvc.ServiceContainer) error {
			reversal, err := svc.Journal.ReverseJournal(ctx, actorID, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "journal %s reversed by %s\n", args[0], reversal.JournalID)
			return nil
		})
	},
}
