package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/sandevgo/sentinel/internal/config"
	"github.com/sandevgo/sentinel/internal/transport/telegram"
	"github.com/sandevgo/sentinel/pkg/log"
	"github.com/sandevgo/sentinel/pkg/srv"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the chat transports",
	Long:  `Starts every enabled transport (currently Telegram) and analyzes incoming messages until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting sentinel")

		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		services := []srv.Service{srv.NewCleanup(a.Close)}

		if a.cfg.IsTelegramSelected() {
			bot, err := telegram.NewBot(ctx, config.NewTelegramConfig(ctx), a.analyzer, a.truths, a.state)
			if err != nil {
				a.Close()
				return err
			}
			services = append(services, bot)
		}

		if len(services) == 1 {
			a.Close()
			return fmt.Errorf("no transports enabled, run 'sentinel install' or set SENTINEL_ENABLE_TELEGRAM")
		}

		if err := srv.Run(ctx, services); err != nil {
			return err
		}
		logger.Info().Msg("sentinel has been shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
