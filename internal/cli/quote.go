package cli

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/gr4yha7/pikolo-sub000/internal/amm"
	"github.com/gr4yha7/pikolo-sub000/internal/fixedpoint"
)

func newQuoteCmd() *cobra.Command {
	var (
		yesReserve string
		noReserve  string
		amount     string
		feeBps     int64
		buyNo      bool
	)
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a trade against a constant-product pool snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			rYes, err := fixedpoint.FromDecimalString(yesReserve)
			if err != nil {
				return fmt.Errorf("--yes-reserve: %w", err)
			}
			rNo, err := fixedpoint.FromDecimalString(noReserve)
			if err != nil {
				return fmt.Errorf("--no-reserve: %w", err)
			}
			amtIn, err := fixedpoint.FromDecimalString(amount)
			if err != nil {
				return fmt.Errorf("--amount: %w", err)
			}
			if amtIn.Sign() <= 0 {
				return fmt.Errorf("--amount must be positive")
			}
			if feeBps < 0 || feeBps >= 10_000 {
				return fmt.Errorf("--fee-bps must be in [0, 10000)")
			}

			reserveIn, reserveOut := rNo, rYes
			side := "YES"
			if buyNo {
				reserveIn, reserveOut = rYes, rNo
				side = "NO"
			}

			shares := amm.SharesOut(amtIn, reserveIn, reserveOut, feeBps)
			spot := amm.SharePrice(rYes, rNo, !buyNo)
			effective := fixedpoint.MulDiv(amtIn, fixedpoint.One, shares)
			expected := fixedpoint.MulDiv(amtIn, fixedpoint.One, spot)

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Field", "Value")
			table.Append("Side", side)
			table.Append("Amount in", fixedpoint.Format(amtIn, 6))
			table.Append("Shares out", fixedpoint.Format(shares, 6))
			table.Append("Spot price", fixedpoint.Format(spot, 6))
			table.Append("Implied probability", fmt.Sprintf("%.2f%%", amm.ImpliedProbability(spot)))
			table.Append("Effective price", fixedpoint.Format(effective, 6))
			table.Append("Slippage", fmt.Sprintf("%.4f%%", amm.Slippage(expected, shares)))
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&yesReserve, "yes-reserve", "", "Yes-side reserve")
	cmd.Flags().StringVar(&noReserve, "no-reserve", "", "No-side reserve")
	cmd.Flags().StringVar(&amount, "amount", "", "amount paid into the pool")
	cmd.Flags().Int64Var(&feeBps, "fee-bps", 50, "pool fee in basis points")
	cmd.Flags().BoolVar(&buyNo, "no", false, "quote the No side instead of Yes")
	_ = cmd.MarkFlagRequired("yes-reserve")
	_ = cmd.MarkFlagRequired("no-reserve")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
