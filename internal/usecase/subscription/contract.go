package subscription

import (
	"context"

	"github.com/m04kA/SMC-TelegramThread/internal/domain"
)

// ChatRepository интерфейс хранилища чатов
type ChatRepository interface {
	Upsert(ctx context.Context, chat *domain.Chat) error
	SetSubscribed(ctx context.Context, chatID int64, subscribed bool) error
}

// Replier отправляет ответ в чат
type Replier interface {
	SendMessageToChat(ctx context.Context, chatID int64, text string, opts domain.SendOptions) error
}

// Metrics счётчик обработанных команд
type Metrics interface {
	IncCommand(command, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
