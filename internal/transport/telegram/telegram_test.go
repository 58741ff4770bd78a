package telegram

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/sandevgo/sentinel/internal/core"
	"github.com/sandevgo/sentinel/internal/service/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

type recordingPoster struct {
	sent []string
	opts [][]interface{}
}

func (p *recordingPoster) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	p.sent = append(p.sent, what.(string))
	p.opts = append(p.opts, opts)
	return &tele.Message{}, nil
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short", 10))
	assert.Empty(t, splitMessage("", 10))

	text := strings.Repeat("a", 8) + "\n" + strings.Repeat("b", 8)
	assert.Equal(t, []string{strings.Repeat("a", 8), strings.Repeat("b", 8)}, splitMessage(text, 10))

	sections := "aaaa\nbbbb\n\ncccc"
	assert.Equal(t, []string{"aaaa\nbbbb", "cccc"}, splitMessage(sections, 12), "blank line preferred")

	long := strings.Repeat("x", 25)
	chunks := splitMessage(long, 10)
	assert.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 10)
	}

	runes := strings.Repeat("é", 10)
	for _, c := range splitMessage(runes, 5) {
		assert.True(t, utf8.ValidString(c))
	}
}

func TestSender_BriefingSilenceFollowsRisk(t *testing.T) {
	p := &recordingPoster{}
	s := newSender(p)
	ctx := context.Background()
	chat := &tele.Chat{ID: 1}

	require.NoError(t, s.sendBriefing(ctx, chat, core.Briefing{
		Situation: "all calm",
		Risk:      core.RiskAssessment{Level: core.RiskLow},
	}))
	require.NoError(t, s.sendBriefing(ctx, chat, core.Briefing{
		Situation: "Backend is blocked",
		Risk:      core.RiskAssessment{Score: 80, Level: core.RiskHigh, Reasons: []string{"Blocker detected"}},
	}))

	require.Len(t, p.sent, 2)
	assert.Contains(t, p.opts[0], tele.Silent)
	assert.NotContains(t, p.opts[1], tele.Silent)
	assert.Contains(t, p.opts[1], tele.ModeHTML)
	assert.Contains(t, p.sent[1], "<strong>Risk:</strong> HIGH")
}

func TestDigestMarkdown(t *testing.T) {
	at := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	ans := &state.Answer{Digest: &state.Digest{
		LatestRisk: &core.StoredRisk{Score: 70, Level: core.RiskHigh},
		Truths:     []core.Fact{{Key: "launch_date", Value: "Monday", Version: 2}},
		Conflicts: []core.StoredConflict{{Conflict: core.Conflict{
			Key: "launch_date", Question: "Which is correct for launch_date: 'Friday' or 'Monday'?",
		}}},
		RecentUpdates: []core.StoredIngest{{Source: "telegram:1", Text: "Launch   Monday.", CreatedAt: at}},
	}}

	out := DigestMarkdown(ans)
	assert.Contains(t, out, "**Risk:** HIGH (70)")
	assert.Contains(t, out, "• `launch_date` = Monday (v2)")
	assert.Contains(t, out, "• Which is correct for launch_date: 'Friday' or 'Monday'?")
	assert.Contains(t, out, "• 2026-03-02 09:30 telegram:1: Launch Monday.")
}

func TestDigestMarkdown_Hint(t *testing.T) {
	assert.Equal(t, state.Hint, DigestMarkdown(&state.Answer{Hint: state.Hint}))
	assert.Equal(t, "Nothing to report.", DigestMarkdown(nil))
}

func TestHistoryMarkdown(t *testing.T) {
	assert.Equal(t, "No history for `scope`.", HistoryMarkdown("scope", nil))

	out := HistoryMarkdown("launch_date", []core.Fact{
		{Key: "launch_date", Value: "Friday", Version: 1},
		{Key: "launch_date", Value: "Monday", Version: 2},
	})
	assert.Contains(t, out, "• v1 Friday")
	assert.Contains(t, out, "• v2 Monday")
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "a b", preview(" a \n b ", 10))
	assert.Equal(t, "abc…", preview("abcdef", 3))
}
