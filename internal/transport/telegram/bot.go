package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/sentinel/internal/core"
	"github.com/sandevgo/sentinel/internal/service/state"
	"github.com/sandevgo/sentinel/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

const helpText = `**Sentinel** reads team updates and replies with a briefing.

Send any status message to analyze it.
/digest  what changed recently
/truth <key>  history of a tracked fact`

type analyzer interface {
	Analyze(ctx context.Context, req core.IngestRequest) (*core.Analysis, error)
}

type history interface {
	GetHistory(ctx context.Context, key string) ([]core.Fact, error)
}

type asker interface {
	Ask(ctx context.Context, question string) (*state.Answer, error)
}

type Bot struct {
	bot      *tele.Bot
	sender   *sender
	analyzer analyzer
	truths   history
	state    asker
	ownerID  int64
}

func NewBot(
	ctx context.Context,
	cfg core.TelegramConfig,
	analyzer analyzer,
	truths history,
	state asker,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.GetTelegramToken(),
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:      b,
		sender:   newSender(b),
		analyzer: analyzer,
		truths:   truths,
		state:    state,
		ownerID:  cfg.GetTelegramOwnerID(),
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: Only allow the owner
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || c.Sender().ID != bot.ownerID {
				return nil // Ignore unauthorized users
			}
			return next(c)
		}
	})

	b.Handle("/start", bot.handleHelp)
	b.Handle("/help", bot.handleHelp)
	b.Handle("/digest", bot.handleDigest)
	b.Handle("/truth", bot.handleTruth)
	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func baseContext(c tele.Context) context.Context {
	if ctx, ok := c.Get(baseContextKey).(context.Context); ok {
		return ctx
	}
	return context.Background()
}

func (b *Bot) handleHelp(c tele.Context) error {
	return b.sender.sendMarkdown(baseContext(c), c.Chat(), helpText, false)
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := baseContext(c)
	logger := log.FromCtx(ctx)

	_ = c.Notify(tele.Typing)

	res, err := b.analyzer.Analyze(ctx, core.IngestRequest{
		Text:   c.Text(),
		Source: fmt.Sprintf("telegram:%d", c.Chat().ID),
	})
	if errors.Is(err, core.ErrInvalidInput) {
		return c.Send("Send some text to analyze.")
	}
	if err != nil {
		logger.Error().Err(err).Msg("analysis failed")
		return c.Send(fmt.Sprintf("error: %v", err))
	}

	return b.sender.sendBriefing(ctx, c.Chat(), res.Briefing)
}

func (b *Bot) handleDigest(c tele.Context) error {
	ctx := baseContext(c)

	ans, err := b.state.Ask(ctx, "digest")
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("digest failed")
		return c.Send(fmt.Sprintf("error: %v", err))
	}
	return b.sender.sendMarkdown(ctx, c.Chat(), DigestMarkdown(ans), true)
}

func (b *Bot) handleTruth(c tele.Context) error {
	ctx := baseContext(c)

	key := strings.TrimSpace(c.Message().Payload)
	if key == "" {
		return c.Send("Usage: /truth <key>, e.g. /truth launch_date")
	}

	hist, err := b.truths.GetHistory(ctx, key)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("key", key).Msg("truth history failed")
		return c.Send(fmt.Sprintf("error: %v", err))
	}
	return b.sender.sendMarkdown(ctx, c.Chat(), HistoryMarkdown(key, hist), false)
}
