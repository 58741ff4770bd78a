package briefing

import (
	"fmt"
	"strings"

	"github.com/sandevgo/sentinel/internal/core"
)

const (
	unassigned = "Unassigned"
	none       = "-"
)

// Render produces the plain-text briefing printed by the CLI.
func Render(b core.Briefing) string {
	var sb strings.Builder

	sb.WriteString("Chief of Staff Briefing\n\n")
	sb.WriteString("Situation:\n")
	fmt.Fprintf(&sb, "- %s\n\n", b.Situation)

	fmt.Fprintf(&sb, "Risk Level: %s (score %d)\n", b.Risk.Level, b.Risk.Score)
	for _, r := range b.Risk.Reasons {
		fmt.Fprintf(&sb, "- %s\n", r)
	}
	sb.WriteString("\n")

	if len(b.Truths) > 0 {
		sb.WriteString("Truth Updates:\n")
		for _, f := range b.Truths {
			fmt.Fprintf(&sb, "- %s = %s (v%d)\n", f.Key, f.Value, f.Version)
		}
		sb.WriteString("\n")
	}

	if len(b.Tasks) > 0 {
		sb.WriteString("Action Items:\n")
		for _, t := range b.Tasks {
			fmt.Fprintf(&sb, "- %s | owner=%s | status=%s | deadline=%s | dependency=%s\n",
				t.Description, or(t.Owner, unassigned), t.Status, or(t.Deadline, none), or(t.Dependency, none))
		}
		sb.WriteString("\n")
	}

	if len(b.Conflicts) > 0 {
		sb.WriteString("Conflicts Needing Confirmation:\n")
		for _, c := range b.Conflicts {
			fmt.Fprintf(&sb, "- %s\n", question(c))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Notify:\n")
	if len(b.Notify) == 0 {
		sb.WriteString("- (no owners identified)\n")
	}
	for _, n := range b.Notify {
		fmt.Fprintf(&sb, "- %s\n", n)
	}

	if len(b.Routing) > 0 {
		sb.WriteString("\nRoute to:\n")
		for _, r := range b.Routing {
			fmt.Fprintf(&sb, "- %s\n", r)
		}
	}

	return sb.String()
}

// Markdown renders the briefing for chat clients. Telegram drops list markup
// so bullets are literal characters.
func Markdown(b core.Briefing) string {
	var sb strings.Builder

	sb.WriteString("**Chief of Staff Briefing**\n\n")
	fmt.Fprintf(&sb, "**Risk:** %s (%d)\n", b.Risk.Level, b.Risk.Score)
	for _, r := range b.Risk.Reasons {
		fmt.Fprintf(&sb, "• %s\n", r)
	}

	if len(b.Truths) > 0 {
		sb.WriteString("\n**Truth Updates**\n")
		for _, f := range b.Truths {
			fmt.Fprintf(&sb, "• `%s` = %s (v%d)\n", f.Key, f.Value, f.Version)
		}
	}

	if len(b.Tasks) > 0 {
		sb.WriteString("\n**Action Items**\n")
		for _, t := range b.Tasks {
			fmt.Fprintf(&sb, "• %s (%s", t.Description, t.Status)
			if t.Owner != "" {
				fmt.Fprintf(&sb, ", owner %s", t.Owner)
			}
			if t.Deadline != "" {
				fmt.Fprintf(&sb, ", due %s", t.Deadline)
			}
			if t.Dependency != "" {
				fmt.Fprintf(&sb, ", waiting on %s", t.Dependency)
			}
			sb.WriteString(")\n")
		}
	}

	if len(b.Conflicts) > 0 {
		sb.WriteString("\n**Conflicts**\n")
		for _, c := range b.Conflicts {
			fmt.Fprintf(&sb, "• %s\n", question(c))
		}
	}

	if len(b.Notify) > 0 {
		fmt.Fprintf(&sb, "\n**Notify:** %s\n", strings.Join(b.Notify, ", "))
	}
	if len(b.Routing) > 0 {
		fmt.Fprintf(&sb, "**Route to:** %s\n", strings.Join(b.Routing, ", "))
	}

	return sb.String()
}

func question(c core.Conflict) string {
	if c.Question != "" {
		return c.Question
	}
	return fmt.Sprintf("%s: '%s' -> '%s'", c.Key, c.OldValue, c.NewValue)
}

func or(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
