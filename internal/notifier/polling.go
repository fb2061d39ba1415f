package notifier

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"MarketBrief/internal/logger"
)

// CommandHandler answers a bot command such as "/brief". The returned text is
// sent back to the chat; an empty reply sends nothing.
type CommandHandler func(ctx context.Context, command string) string

// Poller long-polls Telegram updates and routes commands from the configured
// chat to a handler. Messages from other chats are ignored.
type Poller struct {
	bot     BotAPI
	chatID  int64
	timeout int
	log     *logger.Logger
}

func NewPoller(bot BotAPI, chatID int64, timeout int, log *logger.Logger) *Poller {
	if log == nil {
		log = logger.Get()
	}
	if timeout <= 0 {
		timeout = 30
	}
	return &Poller{bot: bot, chatID: chatID, timeout: timeout, log: log.With("component", "telegram_poller")}
}

// Run blocks until ctx is cancelled or the update channel closes.
func (p *Poller) Run(ctx context.Context, handler CommandHandler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = p.timeout
	updates := p.bot.GetUpdatesChan(u)
	defer p.bot.StopReceivingUpdates()

	p.log.Infow("telegram polling started", "chat_id", p.chatID)
	for {
		select {
		case <-ctx.Done():
			p.log.Info("telegram polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			p.handle(ctx, update, handler)
		}
	}
}

func (p *Poller) handle(ctx context.Context, update tgbotapi.Update, handler CommandHandler) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	if msg.Chat.ID != p.chatID {
		p.log.Warnw("ignoring message from unknown chat", "chat_id", msg.Chat.ID)
		return
	}
	text := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(text, "/") {
		return
	}
	cmd := strings.Fields(text)[0]
	// commands sent in groups may carry a "@botname" suffix
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}

	p.log.Infow("command received", "command", cmd)
	reply := handler(ctx, cmd)
	if reply == "" {
		return
	}
	if _, err := p.bot.Send(tgbotapi.NewMessage(p.chatID, reply)); err != nil {
		p.log.Errorw("failed to send command reply", "command", cmd, "error", err)
	}
}
