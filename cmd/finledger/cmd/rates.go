package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/SscSPs/finledger/internal/core/domain"
	portssvc "github.com/SscSPs/finledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var rateSource string

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Manage exchange rates",
}

var ratesAddCmd = &cobra.Command{
	Use:     "add <date> <from> <to> <rate>",
	Short:   "Store the value of one unit of <from> in <to> on <date>",
	Example: `  finledger rates add 2024-03-28 USD INR 83.41 --source RBI`,
	Args:    cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := domain.ParseDate(args[0])
		if err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", args[0])
		}
		rate, err := decimal.NewFromString(args[3])
		if err != nil {
			return fmt.Errorf("invalid rate %q: %w", args[3], err)
		}
		return withServices(cmd.Context(), func(ctx context.Context, svc *portssvc.ServiceContainer) error {
			stored, err := svc.ExchangeRate.AddRate(ctx, date, strings.ToUpper(args[1]), strings.ToUpper(args[2]), rate, rateSource, actorID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s/%s = %s\n",
				stored.RateDate.Format(domain.DateLayout), stored.FromCurrency, stored.ToCurrency, stored.Rate.String())
			return nil
		})
	},
}

var ratesListCmd = &cobra.Command{
	Use:   "list <from> <to>",
	Short: "List stored rates for a currency pair, newest first",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(ctx context.Context, svc *portssvc.ServiceContainer) error {
			rates, err := svc.ExchangeRate.ListRates(ctx, strings.ToUpper(args[0]), strings.ToUpper(args[1]))
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tRATE\tSOURCE")
			for _, r := range rates {
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.RateDate.Format(domain.DateLayout), r.Rate.String(), r.Source)
			}
			return w.Flush()
		})
	},
}

func init() {
	ratesAddCmd.Flags().StringVar(&rateSource, "source", "MANUAL", "where the rate came from")
	ratesCmd.AddCommand(ratesAddCmd)
	ratesCmd.AddCommand(ratesListCmd)
}
