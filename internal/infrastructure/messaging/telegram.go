package messaging

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"nauticai/internal/domain/port"
)

// TelegramSender отправляет оповещения в Telegram-чат дежурной смены.
// Альтернативный канал для команд, которые не используют WhatsApp.
type TelegramSender struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramSender создаёт отправителя с чатом по умолчанию.
func NewTelegramSender(token string, chatID int64) (*TelegramSender, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &TelegramSender{api: api, chatID: chatID}, nil
}

// Send отправляет текст оповещения. Числовой destination переопределяет
// чат по умолчанию, любой другой адрес игнорируется.
func (s *TelegramSender) Send(ctx context.Context, destination, body string) (bool, string) {
	_ = ctx
	chatID := s.chatID
	if destination != "" {
		if id, err := strconv.ParseInt(destination, 10, 64); err == nil {
			chatID = id
		}
	}
	if chatID == 0 {
		return false, "Telegram chat is not configured (set TELEGRAM_CHAT_ID)"
	}

	msg := tgbotapi.NewMessage(chatID, body)
	sent, err := s.api.Send(msg)
	if err != nil {
		return false, err.Error()
	}
	return true, strconv.Itoa(sent.MessageID)
}

var _ port.AlertSender = (*TelegramSender)(nil)
