package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"MarketBrief/internal/config"
	"MarketBrief/internal/logger"
)

const (
	// DefaultChunkSize stays below Telegram's 4096 character ceiling.
	DefaultChunkSize = 3900
	// A newline is only used as a break point past this offset.
	minBreakOffset = 100
)

// BotAPI is the subset of *tgbotapi.BotAPI used for delivery and polling.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// NewTelegramBot authorizes the bot with optional proxy support.
func NewTelegramBot(cfg *config.Config) (*tgbotapi.BotAPI, error) {
	// long polling holds the request open for PollTimeout seconds
	client, err := cfg.HTTPClient(time.Duration(cfg.Telegram.PollTimeout)*time.Second + 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("telegram client: %w", err)
	}
	bot, err := tgbotapi.NewBotAPIWithClient(cfg.Telegram.BotToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return bot, nil
}

// TelegramDeliverer sends a Markdown header followed by the body split into
// size-bounded chunks.
type TelegramDeliverer struct {
	bot        BotAPI
	chatID     int64
	chunkSize  int
	pause      time.Duration
	maxRetries int
	backoff    time.Duration
	now        func() time.Time
	log        *logger.Logger
}

func NewTelegramDeliverer(bot BotAPI, cfg *config.Config, log *logger.Logger) *TelegramDeliverer {
	if log == nil {
		log = logger.Get()
	}
	size := cfg.Telegram.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &TelegramDeliverer{
		bot:        bot,
		chatID:     cfg.Telegram.ChatID,
		chunkSize:  size,
		pause:      cfg.Telegram.ChunkPause,
		maxRetries: 3,
		backoff:    time.Second,
		now:        time.Now,
		log:        log.With("component", "telegram"),
	}
}

// Deliver sends "📊 *<title> - <date> UTC*" and then every chunk of body,
// pausing between chunks.
func (t *TelegramDeliverer) Deliver(ctx context.Context, title, body string) error {
	header := fmt.Sprintf("📊 *%s - %s UTC*", title, t.now().UTC().Format("2006-01-02 15:04"))
	if err := t.sendWithRetry(ctx, header); err != nil {
		return fmt.Errorf("send header: %w", err)
	}

	chunks := SplitMessage(body, t.chunkSize)
	for i, chunk := range chunks {
		if err := t.sendWithRetry(ctx, chunk); err != nil {
			return fmt.Errorf("send chunk %d/%d: %w", i+1, len(chunks), err)
		}
		if i < len(chunks)-1 && t.pause > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(t.pause):
			}
		}
	}
	t.log.Infow("message delivered", "chunks", len(chunks), "bytes", len(body))
	return nil
}

// sendWithRetry sends text with exponential backoff. The first attempt uses
// Markdown; retries go out as plain text in case the markup was rejected.
func (t *TelegramDeliverer) sendWithRetry(ctx context.Context, text string) error {
	var lastErr error
	for i := 0; i <= t.maxRetries; i++ {
		msg := tgbotapi.NewMessage(t.chatID, text)
		if i == 0 {
			msg.ParseMode = tgbotapi.ModeMarkdown
		}
		_, err := t.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		if i == t.maxRetries {
			break
		}
		backoff := t.backoff * time.Duration(1<<uint(i))
		t.log.Warnw("telegram send failed, retrying", "attempt", i+1, "of", t.maxRetries+1, "backoff", backoff, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("all %d attempts failed: %w", t.maxRetries+1, lastErr)
}

// SplitMessage cuts text into chunks of at most max bytes. A chunk ends at
// its last newline when that newline is more than 100 bytes in; otherwise it
// is cut at max, moved back to a rune boundary. Concatenating the chunks
// gives back text.
func SplitMessage(text string, max int) []string {
	if max <= 0 {
		max = DefaultChunkSize
	}
	var chunks []string
	for len(text) > 0 {
		if len(text) <= max {
			chunks = append(chunks, text)
			break
		}
		cut := max
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if i := strings.LastIndexByte(text[:cut], '\n'); i > minBreakOffset {
			cut = i
		}
		if cut == 0 {
			_, cut = utf8.DecodeRuneInString(text)
		}
		chunks = append(chunks, text[:cut])
		text = text[cut:]
	}
	return chunks
}
