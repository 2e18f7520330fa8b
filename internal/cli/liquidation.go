package cli

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/gr4yha7/pikolo-sub000/internal/collateral"
	"github.com/gr4yha7/pikolo-sub000/internal/fixedpoint"
)

func newLiquidationCmd() *cobra.Command {
	var (
		collAmount string
		debtAmount string
		mcrPercent int64
		price      string
	)
	cmd := &cobra.Command{
		Use:   "liquidation",
		Short: "Compute liquidation price and health figures for a trove",
		RunE: func(cmd *cobra.Command, args []string) error {
			coll, err := fixedpoint.FromDecimalString(collAmount)
			if err != nil {
				return fmt.Errorf("--collateral: %w", err)
			}
			debt, err := fixedpoint.FromDecimalString(debtAmount)
			if err != nil {
				return fmt.Errorf("--debt: %w", err)
			}

			liqPrice := collateral.LiquidationPrice(coll, debt, mcrPercent)
			nicr := collateral.NominalICR(coll, debt)

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Field", "Value")
			table.Append("Collateral", fixedpoint.Format(coll, 8))
			table.Append("Total debt", fixedpoint.Format(debt, 2))
			table.Append("MCR", fmt.Sprintf("%d%%", mcrPercent))
			table.Append("Liquidation price", fixedpoint.Format(liqPrice, 2))
			table.Append("Nominal ICR", fixedpoint.Format(nicr, 4))

			if price != "" {
				cur, err := fixedpoint.FromDecimalString(price)
				if err != nil {
					return fmt.Errorf("--price: %w", err)
				}
				collUSD := fixedpoint.MulDiv(coll, cur, fixedpoint.One)
				ratio := collateral.CollateralRatio(collUSD, debt)
				ratioLabel := "inf"
				if ratio.Cmp(collateral.RatioInfinite) != 0 {
					ratioLabel = fmt.Sprintf("%s%%", fixedpoint.Format(ratio, 2))
				}
				table.Append("Collateral ratio", ratioLabel)
				table.Append("Health", string(collateral.Classify(ratio)))
				table.Append("Buffer to liquidation", fmt.Sprintf("%.2f%%", collateral.LiquidationBuffer(cur, liqPrice)))
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&collAmount, "collateral", "", "collateral amount")
	cmd.Flags().StringVar(&debtAmount, "debt", "", "total debt (principal + interest)")
	cmd.Flags().Int64Var(&mcrPercent, "mcr", collateral.DefaultMCRPercent, "minimum collateral ratio percent")
	cmd.Flags().StringVar(&price, "price", "", "current collateral price (optional)")
	_ = cmd.MarkFlagRequired("collateral")
	_ = cmd.MarkFlagRequired("debt")
	return cmd
}
