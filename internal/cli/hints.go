package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gr4yha7/pikolo-sub000/internal/chain"
	"github.com/gr4yha7/pikolo-sub000/internal/config"
	"github.com/gr4yha7/pikolo-sub000/internal/fixedpoint"
	"github.com/gr4yha7/pikolo-sub000/internal/hints"
	"github.com/gr4yha7/pikolo-sub000/internal/logging"
)

func newHintsCmd() *cobra.Command {
	var (
		collAmount string
		debtAmount string
	)
	cmd := &cobra.Command{
		Use:   "hints",
		Short: "Resolve sorted-list insertion hints for a trove against the live chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			closeLog, err := logging.Configure(cfg.LogLevel, cfg.LogFile)
			if err != nil {
				return err
			}
			defer closeLog()

			coll, err := fixedpoint.FromDecimalString(collAmount)
			if err != nil {
				return fmt.Errorf("--collateral: %w", err)
			}
			debt, err := fixedpoint.FromDecimalString(debtAmount)
			if err != nil {
				return fmt.Errorf("--debt: %w", err)
			}

			gw, err := chain.NewClient(cfg)
			if err != nil {
				return err
			}
			defer gw.Close()

			res := hints.New(gw, logging.New("hints")).InsertionHints(cmd.Context(), coll, debt)
			if res.Fallback {
				fmt.Println("hint search degraded; submit with zero hints (full on-chain walk)")
			}
			fmt.Printf("upper hint: %s\nlower hint: %s\n", res.Upper.Hex(), res.Lower.Hex())
			return nil
		},
	}
	cmd.Flags().StringVar(&collAmount, "collateral", "", "collateral amount")
	cmd.Flags().StringVar(&debtAmount, "debt", "", "total debt after the operation")
	_ = cmd.MarkFlagRequired("collateral")
	_ = cmd.MarkFlagRequired("debt")
	return cmd
}
