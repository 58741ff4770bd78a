package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:          "state",
	Short:        "Print the organisation snapshot as JSON",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		snap, err := a.state.Snapshot(ctx)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), snap)
	},
}

var askCmd = &cobra.Command{
	Use:          "ask <question...>",
	Short:        `Ask about recent activity, e.g. "what changed today?"`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		ans, err := a.state.Ask(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		if ans.Digest == nil {
			fmt.Fprintln(cmd.OutOrStdout(), ans.Hint)
			return nil
		}
		return writeJSON(cmd.OutOrStdout(), ans.Digest)
	},
}

func init() {
	rootCmd.AddCommand(stateCmd, askCmd)
}
