package worker

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/SMC-TelegramThread/internal/domain"
	"github.com/m04kA/SMC-TelegramThread/internal/events"
)

// UpdateSource источник обновлений Telegram (реализуется telegram.Service)
type UpdateSource interface {
	// GetMe возвращает информацию о боте
	GetMe() (tgbotapi.User, error)

	// DeleteWebhook удаляет webhook, иначе getUpdates вернёт ошибку 409
	DeleteWebhook(dropPendingUpdates bool) error

	// GetUpdates выполняет один long polling запрос
	GetUpdates(offset, limit, timeoutSec int) ([]tgbotapi.Update, error)
}

// UpdateHandler обработчик полученных обновлений (реализуется events.Broadcaster)
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update) events.Kind
}

// Sender отправляет сообщение в несколько чатов
type Sender interface {
	SendMessage(ctx context.Context, chatIDs []int64, text string, opts domain.SendOptions) error
}

// Metrics счётчики работы polling loop
type Metrics interface {
	IncUpdate(kind string)
	IncPollError()
}

// AlertFunc получает сообщения об ошибках фоновой работы бота
type AlertFunc func(message string)

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type noopMetrics struct{}

func (noopMetrics) IncUpdate(string) {}

func (noopMetrics) IncPollError() {}
