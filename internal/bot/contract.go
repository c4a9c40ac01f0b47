package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/SMC-TelegramThread/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics счётчики, которые обновляет Thread
type Metrics interface {
	IncUpdate(kind string)
	IncPollError()
	IncMessageSent(ok bool)
}

// TelegramService операции Bot API, которые использует Thread
type TelegramService interface {
	GetMe() (tgbotapi.User, error)
	DeleteWebhook(dropPendingUpdates bool) error
	GetUpdates(offset, limit, timeoutSec int) ([]tgbotapi.Update, error)
	SendMessage(ctx context.Context, msg *domain.OutgoingMessage) (tgbotapi.Message, error)
}
