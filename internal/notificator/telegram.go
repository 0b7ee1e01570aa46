package notificator

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	tgModels "github.com/go-telegram/bot/models"

	"github.com/kyro-pay/gateway/pkg/logger"
)

// TelegramNotificator posts payment events to the operators' chat
type TelegramNotificator struct {
	logger *logger.Logger
	bot    *bot.Bot
	chatID string
}

// NewTelegramNotificator connects the bot. opts are appended to the defaults
// (tests point the bot at a fake server with bot.WithServerURL).
func NewTelegramNotificator(logger *logger.Logger, token, chatID string, opts ...bot.Option) (*TelegramNotificator, error) {
	provider := &TelegramNotificator{
		logger: logger,
		chatID: chatID,
	}
	opts = append([]bot.Option{bot.WithDefaultHandler(provider.handler)}, opts...)

	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	provider.bot = b

	return provider, nil
}

// Start polls for updates until ctx is done
func (t *TelegramNotificator) Start(ctx context.Context) {
	t.bot.Start(ctx)
}

func (t *TelegramNotificator) SendNotification(ctx context.Context, message string) error {
	params := &bot.SendMessageParams{
		ChatID: t.chatID,
		Text:   message,
	}
	if _, err := t.bot.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

// handler answers /start with the chat id to put into TELEGRAM_CHAT_ID
func (t *TelegramNotificator) handler(ctx context.Context, b *bot.Bot, update *tgModels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	t.logger.Debug("Telegram update", "username", update.Message.From.Username, "text", update.Message.Text)
	if update.Message.Text != "/start" {
		return
	}
	chatID := fmt.Sprint(update.Message.Chat.ID)
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "Payment notifications for this chat are enabled by setting TELEGRAM_CHAT_ID=" + chatID,
	}); err != nil {
		t.logger.Error("Failed to answer /start", "error", err)
	}
}
