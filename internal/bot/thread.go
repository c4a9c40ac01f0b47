package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/SMC-TelegramThread/internal/domain"
	"github.com/m04kA/SMC-TelegramThread/internal/events"
	"github.com/m04kA/SMC-TelegramThread/internal/service/telegram"
	"github.com/m04kA/SMC-TelegramThread/internal/worker"
)

// Options параметры работы потока бота
type Options struct {
	PollTimeout        time.Duration // по умолчанию 60s
	RetryDelay         time.Duration // по умолчанию 5s
	UpdateLimit        int
	DropPendingUpdates bool
	MessagesPerSecond  float64 // только для NewWithToken
	HTTPTimeout        time.Duration
	APIEndpoint        string // только для NewWithToken, по умолчанию tgbotapi.APIEndpoint
}

// Thread поток Telegram бота: long polling в фоне, диспетчеризация команд
// и синхронная отправка сообщений
type Thread struct {
	svc     TelegramService
	service *telegram.Service
	api     telegram.BotAPI
	events  *events.Broadcaster
	opts    Options
	logger  Logger
	metrics Metrics

	mu       sync.Mutex
	alert    AlertHandler
	poller   *worker.Poller
	stopping bool // Stop вызван, poller ещё может дорабатывать обновление
}

// New создаёт поток поверх готового Telegram сервиса
// alert и metrics могут быть nil
func New(svc *telegram.Service, opts Options, alert AlertHandler, logger Logger, metrics Metrics) *Thread {
	t := newThread(svc, opts, alert, logger, metrics)
	t.service = svc
	t.api = svc.Bot()
	return t
}

// NewWithToken создаёт клиент Bot API по токену и поток поверх него
// Клиент сразу проверяет токен запросом getMe
func NewWithToken(token string, opts Options, alert AlertHandler, logger Logger, metrics Metrics) (*Thread, error) {
	httpTimeout := opts.HTTPTimeout
	if httpTimeout <= 0 {
		// long polling запрос должен укладываться в таймаут HTTP клиента
		httpTimeout = pollTimeout(opts) + 10*time.Second
	}

	endpoint := opts.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{Timeout: httpTimeout})
	if err != nil {
		return nil, fmt.Errorf("bot: create Telegram Bot API client: %w", err)
	}

	return New(telegram.NewService(api, opts.MessagesPerSecond), opts, alert, logger, metrics), nil
}

func newThread(svc TelegramService, opts Options, alert AlertHandler, logger Logger, metrics Metrics) *Thread {
	if metrics == nil {
		metrics = noopMetrics{}
	}

	t := &Thread{
		svc:     svc,
		events:  events.NewBroadcaster(),
		opts:    opts,
		logger:  logger,
		metrics: metrics,
		alert:   alert,
	}
	t.events.SetPanicHandler(func(description string) {
		t.logger.Error("%s", description)
		t.sendAlert(description)
	})
	return t
}

// Start устанавливает таблицу команд и запускает long polling в фоне
// onUnknown и onNonCommand могут быть nil
func (t *Thread) Start(commands map[string]events.MessageListener, onUnknown, onNonCommand events.MessageListener) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.poller != nil {
		select {
		case <-t.poller.Done():
			// предыдущий поток завершился, разрешаем перезапуск
		default:
			if t.stopping {
				return ErrStopping
			}
			return ErrAlreadyStarted
		}
	}

	t.events.SetCommands(commands, onUnknown, onNonCommand)

	t.poller = worker.NewPoller(t.svc, t.events, worker.PollerConfig{
		Timeout:            pollTimeout(t.opts),
		RetryDelay:         t.opts.RetryDelay,
		Limit:              t.opts.UpdateLimit,
		DropPendingUpdates: t.opts.DropPendingUpdates,
	}, t.sendAlert, t.logger, t.metrics)
	t.poller.Start()
	t.stopping = false

	t.logger.Info("Telegram thread started with %d command(s)", len(commands))
	return nil
}

// Stop останавливает поток и отключает оповещения об ошибках
// Обычно Stop дожидается выхода polling goroutine. Если в этот момент
// выполняется обработчик обновления (например, Stop вызван из команды),
// Stop возвращается сразу, а goroutine завершится после возврата обработчика;
// до этого Start возвращает ErrStopping, дождаться можно через Done.
func (t *Thread) Stop() {
	t.mu.Lock()
	poller := t.poller
	t.alert = nil
	if poller != nil {
		t.stopping = true
	}
	t.mu.Unlock()

	if poller != nil {
		poller.Stop()
	}
}

// Done закрывается, когда polling goroutine завершена (или не запускалась)
func (t *Thread) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.poller == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return t.poller.Done()
}

// SetAlertHandler заменяет получателя оповещений (Stop сбрасывает его в nil)
func (t *Thread) SetAlertHandler(alert AlertHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.alert = alert
}

// Running сообщает, работает ли polling loop
func (t *Thread) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.poller == nil || t.stopping {
		return false
	}
	select {
	case <-t.poller.Done():
		return false
	default:
		return true
	}
}

// SendMessage отправляет текст во все чаты по порядку
// Ошибка для одного чата не прерывает отправку в остальные:
// она логируется, передаётся в alert и попадает в итоговую ошибку
func (t *Thread) SendMessage(ctx context.Context, chatIDs []int64, text string, opts domain.SendOptions) error {
	if len(chatIDs) == 0 {
		return ErrNoChats
	}

	var errs []error
	for _, chatID := range chatIDs {
		_, err := t.svc.SendMessage(ctx, domain.NewOutgoingMessage(chatID, text, opts))
		t.metrics.IncMessageSent(err == nil)
		if err != nil {
			t.logger.Error("Failed to send message to chat %d: %v", chatID, err)
			t.sendAlert(fmt.Sprintf("message send failed: %v", err))
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// SendMessageToChat отправляет текст в один чат
func (t *Thread) SendMessageToChat(ctx context.Context, chatID int64, text string, opts domain.SendOptions) error {
	return t.SendMessage(ctx, []int64{chatID}, text, opts)
}

// Reply отвечает на сообщение в том же чате
func (t *Thread) Reply(ctx context.Context, msg *tgbotapi.Message, text string) error {
	if msg == nil || msg.Chat == nil {
		return ErrNoChats
	}
	return t.SendMessageToChat(ctx, msg.Chat.ID, text, domain.SendOptions{})
}

// HandleUpdate обрабатывает обновление, полученное извне (webhook)
func (t *Thread) HandleUpdate(ctx context.Context, update tgbotapi.Update) events.Kind {
	kind := t.events.HandleUpdate(ctx, update)
	t.metrics.IncUpdate(string(kind))
	return kind
}

// Events возвращает таблицу событий бота для самостоятельной регистрации обработчиков
func (t *Thread) Events() *events.Broadcaster {
	return t.events
}

// Service возвращает Telegram сервис, поверх которого работает поток
func (t *Thread) Service() *telegram.Service {
	return t.service
}

// API возвращает клиент Bot API
func (t *Thread) API() telegram.BotAPI {
	return t.api
}

func (t *Thread) sendAlert(message string) {
	t.mu.Lock()
	alert := t.alert
	t.mu.Unlock()

	if alert != nil {
		alert(message)
	}
}

func pollTimeout(opts Options) time.Duration {
	if opts.PollTimeout > 0 {
		return opts.PollTimeout
	}
	return worker.DefaultPollTimeout
}

type noopMetrics struct{}

func (noopMetrics) IncUpdate(string) {}

func (noopMetrics) IncPollError() {}

func (noopMetrics) IncMessageSent(bool) {}
