package broadcast

import (
	"context"

	"github.com/m04kA/SMC-TelegramThread/internal/domain"
)

// ChatLister источник подписанных чатов
type ChatLister interface {
	ListSubscribedIDs(ctx context.Context) ([]int64, error)
}

// Sender отправка сообщения в список чатов
type Sender interface {
	SendMessage(ctx context.Context, chatIDs []int64, text string, opts domain.SendOptions) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
