package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gr4yha7/pikolo-sub000/internal/config"
)

func newCheckConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Validate environment configuration and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			fmt.Println("\n✓ Configuration is valid!")
			fmt.Printf("  - Market factory: %s\n", cfg.MarketFactoryAddress)
			fmt.Printf("  - RPC endpoint: %s (chain %d)\n", cfg.RPCURL, cfg.ChainID)
			fmt.Printf("  - Resolve interval: %ds\n", cfg.ResolveIntervalSeconds)
			fmt.Printf("  - Automation endpoint: http://%s:%d/api/resolve\n", cfg.ServerHost, cfg.ServerPort)
			return nil
		},
	}
}
