package telegram_webhook

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/SMC-TelegramThread/internal/events"
)

// UpdateHandler диспетчер обновлений бота
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update) events.Kind
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Warn(format string, v ...interface{})
}
