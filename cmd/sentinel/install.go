package main

import (
	"github.com/joho/godotenv"
	"github.com/sandevgo/sentinel/internal/config"
	"github.com/sandevgo/sentinel/internal/service/installer"
	"github.com/sandevgo/sentinel/pkg/log"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:           "install",
	Short:         "Configure storage, organisation and chat channel",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Setup logger
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting installation process")

		runtimePath := config.GetRuntimePath()

		// run wizard (includes save step)
		st, err := installer.RunWizard(runtimePath)
		if err != nil {
			return err
		}

		// Load the newly created .env file so a follow-up command in this process sees it
		if err := godotenv.Load(st.EnvPath); err != nil {
			logger.Warn().Err(err).Str("path", st.EnvPath).Msg("failed to load .env file")
		}

		logger.Info().Msgf("initialized runtime directory at: %s", runtimePath)
		if st.Settings.EnableTelegram {
			logger.Info().Msg("Installation complete! You can now run 'sentinel start'.")
		} else {
			logger.Info().Msg("Installation complete! Try 'sentinel analyze \"Backend is blocked. Launch Friday.\"'.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
