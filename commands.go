package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"birthdaybot/bot/config"
	"birthdaybot/bot/logger"

	"github.com/go-co-op/gocron"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var startTime = time.Now()

func onceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Run a single birthday check and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load(viper.GetViper())
			logger.SetLevel(cfg.LogLevel)

			check, cleanup, err := newBirthdayCheck(cfg, newSink(cfg))
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return check.Run(ctx)
		},
	}
}

func runCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run birthday checks on a cron schedule",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag(config.CronSchedule, cmd.Flags().Lookup("cron")); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			if err := viper.BindPFlag(config.MetricsAddr, cmd.Flags().Lookup("metrics-addr")); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load(viper.GetViper())
			if err := cfg.ValidateSchedule(); err != nil {
				return err
			}

			logger.SetLevel(cfg.LogLevel)

			check, cleanup, err := newBirthdayCheck(cfg, newSink(cfg))
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s := gocron.NewScheduler(time.UTC)
			// A slow run must not overlap the next trigger and post twice.
			s.SingletonModeAll()

			if _, err := s.Cron(cfg.CronSchedule).Do(check.Job(ctx)); err != nil {
				return fmt.Errorf("schedule birthday check: %w", err)
			}

			if cfg.MetricsAddr != "" {
				server := metricsServer(cfg.MetricsAddr)
				go func() {
					if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						logger.Error(err, zap.String("addr", cfg.MetricsAddr))
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					server.Shutdown(shutdownCtx)
				}()
			}

			s.StartAsync()
			_, next := s.NextRun()
			logger.Info("birthday check scheduled", zap.String("cron", cfg.CronSchedule), zap.Time("next_run", next))

			<-ctx.Done()
			s.Stop()
			logger.Info("Gracefully shutting down.")

			return nil
		},
	}

	runCmd.Flags().String("cron", config.DefaultCronSchedule, "cron expression in UTC (CRON_SCHEDULE)")
	runCmd.Flags().String("metrics-addr", "", "serve /metrics and /healthz on this address (METRICS_ADDR)")

	return runCmd
}

func metricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
	})
	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{Addr: addr, Handler: mux}
}
