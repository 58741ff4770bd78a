package main

import (
	"fmt"
	"time"

	"github.com/sandevgo/sentinel/pkg/log"
	"github.com/spf13/cobra"
)

var truthJSON bool

var truthCmd = &cobra.Command{
	Use:   "truth",
	Short: "Read and write versioned facts",
}

var truthGetCmd = &cobra.Command{
	Use:          "get <key>",
	Short:        "Show the latest value of a key",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		fact, err := a.truths.GetLatest(ctx, args[0])
		if err != nil {
			return err
		}
		if truthJSON {
			return writeJSON(cmd.OutOrStdout(), fact)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (v%d, %s)\n", fact.Key, fact.Value, fact.Version, fact.CreatedAt.Format(time.RFC3339))
		return nil
	},
}

var truthHistoryCmd = &cobra.Command{
	Use:          "history <key>",
	Short:        "Show every version of a key, oldest first",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		hist, err := a.truths.GetHistory(ctx, args[0])
		if err != nil {
			return err
		}
		if truthJSON {
			return writeJSON(cmd.OutOrStdout(), hist)
		}
		if len(hist) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "no history for %s\n", args[0])
			return nil
		}
		for _, f := range hist {
			fmt.Fprintf(cmd.OutOrStdout(), "v%d  %s  %s\n", f.Version, f.CreatedAt.Format(time.RFC3339), f.Value)
		}
		return nil
	},
}

var truthSetCmd = &cobra.Command{
	Use:          "set <key> <value>",
	Short:        "Record a new value, reporting a conflict if it differs",
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		fact, conflict, err := a.truths.Write(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		if conflict != nil {
			log.FromCtx(ctx).Warn().Str("key", conflict.Key).Msg(conflict.Question)
		}
		if truthJSON {
			return writeJSON(cmd.OutOrStdout(), map[string]any{"fact": fact, "conflict": conflict})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (v%d)\n", fact.Key, fact.Value, fact.Version)
		if conflict != nil {
			fmt.Fprintln(cmd.OutOrStdout(), conflict.Question)
		}
		return nil
	},
}

func init() {
	truthCmd.PersistentFlags().BoolVar(&truthJSON, "json", false, "print JSON")
	truthCmd.AddCommand(truthGetCmd, truthHistoryCmd, truthSetCmd)
	rootCmd.AddCommand(truthCmd)
}
