package connect

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nathfavour/statussage/pkg/logging"
)

// TelegramChannel serves the /status bot command over long polling.
type TelegramChannel struct {
	Token string
	// APIEndpoint overrides the Bot API endpoint format string.
	APIEndpoint string

	log logging.Logger

	mu      sync.Mutex
	bot     *tgbotapi.BotAPI
	stopped bool
}

func NewTelegramChannel(token string, log logging.Logger) *TelegramChannel {
	if log == nil {
		log = logging.Nop()
	}
	return &TelegramChannel{Token: token, log: log}
}

func (t *TelegramChannel) Name() string {
	return "telegram"
}

func (t *TelegramChannel) Start(ctx context.Context, h Handler) error {
	var (
		bot *tgbotapi.BotAPI
		err error
	)
	if t.APIEndpoint != "" {
		bot, err = tgbotapi.NewBotAPIWithAPIEndpoint(t.Token, t.APIEndpoint)
	} else {
		bot, err = tgbotapi.NewBotAPI(t.Token)
	}
	if err != nil {
		return fmt.Errorf("error creating Telegram bot: %w", err)
	}

	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return nil
	}
	t.bot = bot
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)
	t.mu.Unlock()

	t.log.Info("telegram bot is now running", "username", bot.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			return t.Stop()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			msg := update.Message
			if msg == nil || msg.From == nil || !msg.IsCommand() {
				continue
			}

			text, ok := telegramCommandText(msg)
			if !ok {
				continue
			}
			userID := strconv.FormatInt(msg.From.ID, 10)
			chatID := strconv.FormatInt(msg.Chat.ID, 10)
			poster := &telegramPoster{bot: bot, chatID: chatID}
			go Dispatch(ctx, h, poster, text, userID, chatID, t.log)
		}
	}
}

// telegramCommandText maps bot commands onto handler input. /start and
// /help show the help text.
func telegramCommandText(msg *tgbotapi.Message) (string, bool) {
	switch msg.Command() {
	case "status":
		return msg.CommandArguments(), true
	case "start", "help":
		return "", true
	default:
		return "", false
	}
}

// Stop is safe to call more than once and before Start.
func (t *TelegramChannel) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return nil
	}
	t.stopped = true
	if t.bot != nil {
		t.log.Info("stopping Telegram updates")
		t.bot.StopReceivingUpdates()
	}
	return nil
}

// telegramPoster answers one command. Telegram has no ephemeral messages:
// private replies go to the user's private chat with the bot. A user who
// never started the bot cannot be messaged privately, so direct replies
// fall back to the chat the command came from.
type telegramPoster struct {
	bot    *tgbotapi.BotAPI
	chatID string
}

func (p *telegramPoster) send(chatID, text string) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat id %q: %w", chatID, err)
	}
	_, err = p.bot.Send(tgbotapi.NewMessage(id, text))
	return err
}

func (p *telegramPoster) PostPrivate(_ context.Context, _, userID, text string) error {
	return p.send(userID, text)
}

func (p *telegramPoster) PostChannel(_ context.Context, chatID, text string) error {
	return p.send(chatID, text)
}

func (p *telegramPoster) PostDirect(_ context.Context, userID, text string) error {
	err := p.send(userID, text)
	if err == nil || p.chatID == "" || p.chatID == userID {
		return err
	}
	if chatErr := p.send(p.chatID, text); chatErr != nil {
		return fmt.Errorf("direct message: %w; origin chat: %v", err, chatErr)
	}
	return nil
}
