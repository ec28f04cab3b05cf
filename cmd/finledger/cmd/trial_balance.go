package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	portssvc "github.com/SscSPs/finledger/internal/core/ports/services"
	"github.com/spf13/cobra"
)

var trialBalanceAsOf string

var trialBalanceCmd = &cobra.Command{
	Use:   "trial-balance",
	Short: "Print the trial balance in base currency",
	RunE: func(cmd *cobra.Command, args []string) error {
		asOf, err := parseOptionalDate(trialBalanceAsOf)
		if err != nil {
			return err
		}
		return withServices(cmd.Context(), func(ctx context.Context, svc *portssvc.ServiceContainer) error {
			tb, err := svc.Reporting.TrialBalance(ctx, asOf)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "CODE\tACCOUNT\tTYPE\tDEBIT\tCREDIT\t")
			for _, row := range tb.Rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
					row.AccountCode, row.AccountName, row.AccountType,
					row.Debit.StringFixed(2), row.Credit.StringFixed(2))
			}
			fmt.Fprintf(w, "\tTOTAL (%s)\t\t%s\t%s\t\n", cfg.BaseCurrency,
				tb.TotalDebit.StringFixed(2), tb.TotalCredit.StringFixed(2))
			if err := w.Flush(); err != nil {
				return err
			}

			if !tb.Balanced(cfg.BalanceTolerance) {
				return fmt.Errorf("trial balance is off by %s", tb.TotalDebit.Sub(tb.TotalCredit).StringFixed(2))
			}
			return nil
		})
	},
}

func init() {
	trialBalanceCmd.Flags().StringVar(&trialBalanceAsOf, "as-of", "", "only count journals dated on or before this day (YYYY-MM-DD)")
}
