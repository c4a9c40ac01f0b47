package list_scheduled

import "github.com/m04kA/SMC-TelegramThread/internal/worker"

// Scheduler интерфейс планировщика отложенных сообщений
type Scheduler interface {
	List() []worker.ScheduledMessage
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}
