package telegram

import (
	"fmt"
	"strings"

	"github.com/sandevgo/sentinel/internal/core"
	"github.com/sandevgo/sentinel/internal/service/state"
)

const timeFormat = "2006-01-02 15:04"

func DigestMarkdown(ans *state.Answer) string {
	if ans == nil || ans.Digest == nil {
		if ans != nil && ans.Hint != "" {
			return ans.Hint
		}
		return "Nothing to report."
	}
	d := ans.Digest

	var sb strings.Builder
	sb.WriteString("**Digest**\n")
	if d.LatestRisk != nil {
		fmt.Fprintf(&sb, "**Risk:** %s (%d)\n", d.LatestRisk.Level, d.LatestRisk.Score)
	} else {
		sb.WriteString("**Risk:** nothing analyzed yet\n")
	}

	if len(d.Truths) > 0 {
		sb.WriteString("\n**Truths**\n")
		for _, f := range d.Truths {
			fmt.Fprintf(&sb, "• `%s` = %s (v%d)\n", f.Key, f.Value, f.Version)
		}
	}
	if len(d.Conflicts) > 0 {
		sb.WriteString("\n**Conflicts**\n")
		for _, c := range d.Conflicts {
			fmt.Fprintf(&sb, "• %s\n", c.Question)
		}
	}
	if len(d.RecentUpdates) > 0 {
		sb.WriteString("\n**Recent updates**\n")
		for _, in := range d.RecentUpdates {
			fmt.Fprintf(&sb, "• %s %s: %s\n", in.CreatedAt.Format(timeFormat), in.Source, preview(in.Text, 80))
		}
	}
	return sb.String()
}

func HistoryMarkdown(key string, hist []core.Fact) string {
	if len(hist) == 0 {
		return fmt.Sprintf("No history for `%s`.", key)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s**\n", key)
	for _, f := range hist {
		fmt.Fprintf(&sb, "• v%d %s (%s)\n", f.Version, f.Value, f.CreatedAt.Format(timeFormat))
	}
	return sb.String()
}

func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
