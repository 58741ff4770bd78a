package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sandevgo/sentinel/internal/config"
	"github.com/sandevgo/sentinel/internal/core"
	"github.com/sandevgo/sentinel/internal/providers/fetch"
	"github.com/sandevgo/sentinel/internal/service/briefing"
	"github.com/sandevgo/sentinel/internal/service/ui"
	"github.com/sandevgo/sentinel/pkg/conv"
	"github.com/sandevgo/sentinel/pkg/retry"
	"github.com/spf13/cobra"
)

var analyzeFlags struct {
	file   string
	url    string
	html   bool
	json   bool
	source string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text...]",
	Short: "Analyze a team update and print the briefing",
	Long: `Reads the update from the arguments, --file, --url or stdin, scores risk,
extracts tasks and truths, records everything and prints a briefing.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		text, err := readInput(ctx, cmd.InOrStdin(), args)
		if err != nil {
			return err
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.analyzer.Analyze(ctx, core.IngestRequest{Text: text, Source: analyzeFlags.source})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if analyzeFlags.json {
			return writeJSON(out, res)
		}
		fmt.Fprintln(out, ui.RiskBadge(res.Briefing.Risk))
		fmt.Fprint(out, briefing.Render(res.Briefing))
		return nil
	},
}

func readInput(ctx context.Context, stdin io.Reader, args []string) (string, error) {
	var (
		text string
		err  error
	)

	switch {
	case analyzeFlags.url != "":
		cfg := config.NewFetchConfig(ctx)
		retryCfg := retry.NewDefaultConfig()
		retryCfg.MaxRetries = cfg.MaxRetries
		// The fetcher already converts HTML pages.
		return fetch.NewFetcherWithTimeout(cfg.Timeout, retryCfg).Fetch(ctx, analyzeFlags.url)
	case analyzeFlags.file != "" && analyzeFlags.file != "-":
		var data []byte
		data, err = os.ReadFile(analyzeFlags.file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", analyzeFlags.file, err)
		}
		text = string(data)
	case len(args) > 0:
		text = strings.Join(args, " ")
	default:
		var data []byte
		data, err = io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}

	if analyzeFlags.html || conv.LooksLikeHTML(text) {
		return conv.HTMLToText(text)
	}
	return text, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFlags.file, "file", "f", "", "read the update from a file (- for stdin)")
	analyzeCmd.Flags().StringVarP(&analyzeFlags.url, "url", "u", "", "fetch the update from a URL")
	analyzeCmd.Flags().BoolVar(&analyzeFlags.html, "html", false, "treat the input as HTML")
	analyzeCmd.Flags().BoolVar(&analyzeFlags.json, "json", false, "print the full analysis as JSON")
	analyzeCmd.Flags().StringVarP(&analyzeFlags.source, "source", "s", "cli", "source label stored with the ingest")
	rootCmd.AddCommand(analyzeCmd)
}
