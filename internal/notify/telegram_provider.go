package notify

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramProvider posts alerts to an authority chat. The recipient is the
// chat id in decimal form.
type TelegramProvider struct {
	bot *tgbotapi.BotAPI
}

func NewTelegramProvider(token string) (*TelegramProvider, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &TelegramProvider{bot: bot}, nil
}

func (p *TelegramProvider) Code() string {
	return "telegram"
}

func (p *TelegramProvider) Send(ctx context.Context, recipient, message string) (string, error) {
	chatID, err := strconv.ParseInt(recipient, 10, 64)
	if err != nil {
		return "", fmt.Errorf("telegram recipient %q is not a chat id: %w", recipient, err)
	}

	sent, err := p.bot.Send(tgbotapi.NewMessage(chatID, message))
	if err != nil {
		return "", fmt.Errorf("telegram send: %w", err)
	}
	return strconv.Itoa(sent.MessageID), nil
}

var _ Provider = (*TelegramProvider)(nil)
