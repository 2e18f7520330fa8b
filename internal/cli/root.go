package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func Execute() int {
	root := &cobra.Command{
		Use:   "pikolo",
		Short: "Off-chain pricing, trove hints, and market resolution automation",
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newResolveCmd())
	root.AddCommand(newQuoteCmd())
	root.AddCommand(newLiquidationCmd())
	root.AddCommand(newHintsCmd())
	root.AddCommand(newCheckConfigCmd())

	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
