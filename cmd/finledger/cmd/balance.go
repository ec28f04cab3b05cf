package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/finledger/internal/core/domain"
	portssvc "github.com/SscSPs/finledger/internal/core/ports/services"
	"github.com/spf13/cobra"
)

var balanceAsOf string

var balanceCmd = &cobra.Command{
	Use:   "balance <account-code>",
	Short: "Show an account balance in the account's currency",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asOf, err := parseOptionalDate(balanceAsOf)
		if err != nil {
			return err
		}
		return withServices(cmd.Context(), func(ctx context.Context, svc *portssvc.ServiceContainer) error {
			account, err := svc.Account.Lookup(ctx, args[0])
			if err != nil {
				return err
			}
			balance, err := svc.Journal.AccountBalance(ctx, account.Code, asOf)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s %s\n",
				account.Code, account.Name,
				balance.StringFixed(domain.MinorUnits(account.CurrencyCode)), account.CurrencyCode)
			return nil
		})
	},
}

// parseOptionalDate returns nil for an empty flag value.
func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return &d, nil
}

func init() {
	balanceCmd.Flags().StringVar(&balanceAsOf, "as-of", "", "only count journals dated on or before this day (YYYY-MM-DD)")
}
