package main

import (
	"github.com/sandevgo/sentinel/internal/config"
	"github.com/sandevgo/sentinel/internal/service/lexicon"
	"github.com/spf13/cobra"
)

var lexiconCmd = &cobra.Command{
	Use:   "lexicon",
	Short: "Inspect the trigger tables",
}

var lexiconDumpCmd = &cobra.Command{
	Use:          "dump",
	Short:        "Print the effective lexicon as YAML, a starting point for SENTINEL_LEXICON_PATH",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}
		lex, err := lexicon.Load(config.NewAppConfig(ctx).GetLexiconPath())
		if err != nil {
			return err
		}
		data, err := lex.Dump()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	lexiconCmd.AddCommand(lexiconDumpCmd)
	rootCmd.AddCommand(lexiconCmd)
}
