package main

import (
	"fmt"
	"os"
	"time"

	"birthdaybot/bot/config"
	"birthdaybot/bot/discord"
	"birthdaybot/bot/ledger"
	"birthdaybot/bot/logger"
	"birthdaybot/bot/sheets"
	"birthdaybot/bot/tasks"
	"birthdaybot/bot/telemetry"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	loadEnvFiles(envFiles...)
	viper.AutomaticEnv()
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "birthdaybot",
		Short:         "Announces birthdays from a spreadsheet in a Discord channel",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("log-level", "", "debug, info, warn or error (LOG_LEVEL)")
	root.PersistentFlags().Bool("card", false, "attach a birthday card image (ANNOUNCE_CARD)")
	viper.BindPFlag(config.LogLevel, root.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag(config.AnnounceCard, root.PersistentFlags().Lookup("card"))

	root.AddCommand(runCmd())
	root.AddCommand(onceCmd())

	return root
}

// newSink reports to Sentry when configured and always to the log.
func newSink(cfg config.Config) telemetry.Sink {
	sink := telemetry.NewLog(logger.GetLogger())
	if cfg.SentryDSN == "" {
		return sink
	}

	sentrySink, err := telemetry.NewSentry(sentry.ClientOptions{Dsn: cfg.SentryDSN})
	if err != nil {
		logger.Warn("sentry disabled", zap.Error(err))
		return sink
	}

	return telemetry.Multi(sentrySink, sink)
}

// newBirthdayCheck wires the pipeline from cfg. Setup failures are reported
// to sink before they are returned. The returned cleanup flushes telemetry
// and closes the ledger.
func newBirthdayCheck(cfg config.Config, sink telemetry.Sink) (check *tasks.BirthdayCheck, cleanup func(), err error) {
	defer func() {
		if err != nil {
			sink.Breadcrumb(err.Error(), "setup")
			sink.Capture(err)
			sink.Flush(2 * time.Second)
		}
	}()

	messenger, err := discord.New(cfg.BotToken)
	if err != nil {
		return nil, nil, err
	}

	check = tasks.NewBirthdayCheck(cfg, sheets.NewClient(cfg.SheetsToken), messenger, sink, logger.GetLogger())

	cleanup = func() { logger.Sync() }

	// Opening the ledger dials the database, so it waits for a valid config;
	// otherwise Run reports the configuration error first.
	if cfg.PostgresDSN != "" && cfg.Validate() == nil {
		store, err := ledger.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		check.Ledger = store
		cleanup = func() {
			store.Close()
			logger.Sync()
		}
	}

	return check, cleanup, nil
}
