package cmd

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vintedhsp-byte/vc-signal-bot/internal/app"
	"github.com/vintedhsp-byte/vc-signal-bot/internal/config"
	"github.com/vintedhsp-byte/vc-signal-bot/internal/metrics"
)

func newRunCmd() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the aggregation pipeline.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if once {
				cfg.Once = true
			}

			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if cfg.Once {
				return a.Runner.RunOnce(ctx)
			}

			if addr := cfg.Metrics.ListenAddr; addr != "" {
				go func() {
					mux := http.NewServeMux()
					mux.Handle("/metrics", metrics.Handler())
					a.Logger.Info("metrics listener started", zap.String("addr", addr))
					if err := http.ListenAndServe(addr, mux); err != nil {
						a.Logger.Error("metrics listener failed", zap.Error(err))
					}
				}()
			}

			a.Logger.Info("entering poll loop",
				zap.Duration("interval", cfg.PollInterval()),
				zap.Duration("window", cfg.Window()))
			return a.Runner.Loop(ctx, cfg.PollInterval())
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "run a single invocation and exit")
	return cmd
}
