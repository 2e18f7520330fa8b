package cli

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/gr4yha7/pikolo-sub000/internal/chain"
	"github.com/gr4yha7/pikolo-sub000/internal/config"
	"github.com/gr4yha7/pikolo-sub000/internal/fixedpoint"
	"github.com/gr4yha7/pikolo-sub000/internal/logging"
	"github.com/gr4yha7/pikolo-sub000/internal/resolver"
)

func newResolveCmd() *cobra.Command {
	var testPrice string
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Run one settlement batch and print the per-market results",
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

			gw, err := chain.NewClient(cfg)
			if err != nil {
				return err
			}
			defer gw.Close()

			var opts []resolver.Option
			if testPrice != "" {
				p, err := fixedpoint.FromDecimalString(testPrice)
				if err != nil {
					return fmt.Errorf("--test-price: %w", err)
				}
				opts = append(opts, resolver.WithPriceOverride(p))
			}

			meta := resolver.NewMetaStore(cfg.MarketMetaFile)
			sched := resolver.New(cfg, gw, meta, logging.New("resolver"), opts...)

			report, err := sched.Run(cmd.Context())
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Market", "Result", "Outcome", "Price", "Tx / Error")
			for _, r := range report.Results {
				result := "FAILED"
				detail := r.Err
				if r.Success {
					result = "RESOLVED"
					detail = r.TxHash.Hex()
				}
				price := ""
				if r.Price != nil {
					price = fixedpoint.Format(r.Price, 2)
				}
				table.Append(r.Market.Hex(), result, r.Outcome.String(), price, detail)
			}
			table.Render()
			fmt.Printf("\nrun %s: %d resolved, %d failed\n", report.ID, report.Resolved, report.Failed)
			return nil
		},
	}
	cmd.Flags().StringVar(&testPrice, "test-price", "", "inject a settlement price instead of reading the oracle")
	return cmd
}
