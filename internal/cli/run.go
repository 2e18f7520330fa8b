package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gr4yha7/pikolo-sub000/internal/chain"
	"github.com/gr4yha7/pikolo-sub000/internal/config"
	"github.com/gr4yha7/pikolo-sub000/internal/logging"
	"github.com/gr4yha7/pikolo-sub000/internal/resolver"
	"github.com/gr4yha7/pikolo-sub000/internal/server"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the resolution scheduler loop and the automation HTTP endpoint",
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
			log := logging.New("run")

			gw, err := chain.NewClient(cfg)
			if err != nil {
				return err
			}
			defer gw.Close()

			meta := resolver.NewMetaStore(cfg.MarketMetaFile)
			sched := resolver.New(cfg, gw, meta, logging.New("resolver"))

			ctx, cancel := signalContext()
			defer cancel()

			log.Info().
				Str("resolver", gw.Address().Hex()).
				Str("config", cfg.String()).
				Msg("starting scheduler")

			go runSchedulerLoop(ctx, sched, cfg)

			srv := server.New(cfg, sched, logging.New("server"))
			if err := srv.Run(ctx); err != nil && err.Error() != "http: Server closed" {
				return err
			}
			return nil
		},
	}
}

// runSchedulerLoop invokes one run per tick. Each run gets its own deadline;
// there is no mid-run cancellation beyond the context.
func runSchedulerLoop(ctx context.Context, sched *resolver.Scheduler, cfg config.Config) {
	log := logging.New("scheduler-loop")
	ticker := time.NewTicker(cfg.ResolveInterval())
	defer ticker.Stop()

	for {
		runCtx, cancel := context.WithTimeout(ctx, cfg.ResolveInterval())
		report, err := sched.Run(runCtx)
		cancel()
		if err != nil {
			log.Error().Err(err).Msg("run aborted")
		} else {
			log.Info().Int("resolved", report.Resolved).Int("failed", report.Failed).Msg("run finished")
		}

		select {
		case <-ctx.Done():
			log.Info().Msg("shutdown requested")
			return
		case <-ticker.C:
		}
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
