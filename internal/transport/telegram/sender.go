package telegram

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sandevgo/sentinel/internal/core"
	"github.com/sandevgo/sentinel/internal/service/briefing"
	"github.com/sandevgo/sentinel/pkg/conv"
	"github.com/sandevgo/sentinel/pkg/log"
	tele "gopkg.in/telebot.v3"
)

// Telegram rejects messages over 4096 characters; keep a margin for entities.
const maxMessageLen = 4000

type poster interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type sender struct {
	bot   poster
	limit int
}

func newSender(bot poster) *sender {
	return &sender{bot: bot, limit: maxMessageLen}
}

// sendBriefing only makes a sound for briefings above LOW risk.
func (s *sender) sendBriefing(ctx context.Context, to tele.Recipient, b core.Briefing) error {
	return s.sendMarkdown(ctx, to, briefing.Markdown(b), b.Risk.Level == core.RiskLow)
}

func (s *sender) sendMarkdown(ctx context.Context, to tele.Recipient, md string, silent bool) error {
	html := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(md)))

	for i, chunk := range splitMessage(html, s.limit) {
		opts := []interface{}{tele.ModeHTML}
		if silent {
			opts = append(opts, tele.Silent)
		}
		if _, err := s.bot.Send(to, chunk, opts...); err != nil {
			log.FromCtx(ctx).Error().Err(err).Int("chunk", i).Msg("failed to send telegram message")
			return fmt.Errorf("failed to send telegram message: %w", err)
		}
	}
	return nil
}

// splitMessage cuts text into chunks of at most limit bytes. Briefing
// sections are separated by blank lines, so those are preferred over single
// newlines, and a hard cut never lands inside a UTF-8 sequence.
func splitMessage(text string, limit int) []string {
	var chunks []string
	for len(text) > limit {
		cut := strings.LastIndex(text[:limit], "\n\n")
		if cut <= limit/3 {
			cut = strings.LastIndex(text[:limit], "\n")
		}
		if cut <= limit/3 {
			cut = limit
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
		}
		chunks = append(chunks, strings.TrimSpace(text[:cut]))
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
