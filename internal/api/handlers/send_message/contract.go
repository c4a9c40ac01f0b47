package send_message

import (
	"context"

	"github.com/m04kA/SMC-TelegramThread/internal/domain"
	"github.com/m04kA/SMC-TelegramThread/internal/worker"
)

// Sender отправка сообщения в один чат
type Sender interface {
	SendMessageToChat(ctx context.Context, chatID int64, text string, opts domain.SendOptions) error
}

// Scheduler интерфейс планировщика для отложенных сообщений
type Scheduler interface {
	Schedule(msg worker.ScheduledMessage) (*worker.ScheduledMessage, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
