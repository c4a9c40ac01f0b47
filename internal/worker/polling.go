package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/SMC-TelegramThread/internal/service/telegram"
)

const (
	// DefaultPollTimeout время удержания long polling запроса сервером Telegram
	DefaultPollTimeout = 60 * time.Second

	// DefaultRetryDelay пауза после неудачного long polling запроса
	DefaultRetryDelay = 5 * time.Second
)

// PollerConfig параметры long polling
type PollerConfig struct {
	Timeout            time.Duration
	RetryDelay         time.Duration
	Limit              int  // 0 - значение Telegram по умолчанию (100)
	DropPendingUpdates bool // сбросить накопленные обновления при удалении webhook
}

// Poller фоновая goroutine, получающая обновления через long polling
// и передающая их обработчику
type Poller struct {
	source  UpdateSource
	handler UpdateHandler
	cfg     PollerConfig
	alert   AlertFunc
	logger  Logger
	metrics Metrics

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu          sync.Mutex
	started     bool
	dispatching bool // обработчик обновления выполняется прямо сейчас
}

// NewPoller создаёт новый polling loop
// alert и metrics могут быть nil
func NewPoller(source UpdateSource, handler UpdateHandler, cfg PollerConfig, alert AlertFunc, logger Logger, metrics Metrics) *Poller {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultPollTimeout
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if alert == nil {
		alert = func(string) {}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Poller{
		source:  source,
		handler: handler,
		cfg:     cfg,
		alert:   alert,
		logger:  logger,
		metrics: metrics,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

// Start запускает polling loop в отдельной goroutine
func (p *Poller) Start() {
	p.logger.Info("Starting Telegram long polling (timeout: %s, retry delay: %s)", p.cfg.Timeout, p.cfg.RetryDelay)

	p.mu.Lock()
	p.started = true
	p.mu.Unlock()

	go p.run()
}

// Stop отменяет polling loop
// Если обработчик обновления сейчас выполняется (в том числе когда Stop вызван
// из самого обработчика), Stop возвращается сразу и goroutine завершится после
// возврата обработчика, дождаться этого можно через Done.
// Иначе Stop дожидается выхода goroutine. Незавершённый long polling запрос не ожидается.
// Возвращает true, если goroutine уже завершилась.
func (p *Poller) Stop() bool {
	p.mu.Lock()
	p.cancel()
	started, busy := p.started, p.dispatching
	p.mu.Unlock()

	if !started {
		return true
	}
	if busy {
		p.logger.Info("Telegram long polling will stop after the current update is handled")
		return false
	}

	<-p.done
	p.logger.Info("Telegram long polling stopped")
	return true
}

// Done закрывается после выхода goroutine
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

func (p *Poller) run() {
	defer close(p.done)

	p.initBot()

	offset := 0
	// Запрос getUpdates, брошенный при остановке предыдущего poller, может ещё
	// висеть на сервере: первый 409 Conflict после старта не считается ошибкой
	conflictGrace := true
	for {
		if p.ctx.Err() != nil {
			return
		}

		updates, err := p.fetch(offset)
		grace := conflictGrace
		conflictGrace = false
		if err != nil {
			if p.ctx.Err() != nil {
				return
			}

			if grace && telegram.IsConflict(err) {
				p.logger.Warn("Previous getUpdates request is still active, retrying: %v", err)
				if !p.sleep(p.cfg.RetryDelay) {
					return
				}
				continue
			}

			p.metrics.IncPollError()
			p.logger.Error("Long polling request failed: %v", err)
			p.alert(fmt.Sprintf("bot polling error: %v", err))

			if !p.sleep(p.cfg.RetryDelay) {
				return
			}
			continue
		}

		for _, update := range updates {
			if !p.beginDispatch() {
				// необработанные обновления не подтверждены и придут повторно
				return
			}

			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}

			kind := p.handler.HandleUpdate(p.ctx, update)
			p.endDispatch()

			p.metrics.IncUpdate(string(kind))
			p.logger.Debug("Handled update %d (%s)", update.UpdateID, kind)
		}
	}
}

// beginDispatch отмечает начало обработки обновления
// После отмены новые обновления не обрабатываются
func (p *Poller) beginDispatch() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctx.Err() != nil {
		return false
	}
	p.dispatching = true
	return true
}

func (p *Poller) endDispatch() {
	p.mu.Lock()
	p.dispatching = false
	p.mu.Unlock()
}

// sleep ждёт d, возвращает false при отмене
func (p *Poller) sleep(d time.Duration) bool {
	select {
	case <-p.ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// initBot проверяет токен и удаляет webhook
// Ошибки не прерывают работу: polling loop будет повторять попытки сам
func (p *Poller) initBot() {
	me, err := p.source.GetMe()
	if err != nil {
		p.logger.Error("Failed to get bot info: %v", err)
		p.alert(fmt.Sprintf("bot initialisation failed: %v", err))
	} else {
		p.logger.Info("Bot username: @%s", me.UserName)
	}

	if err := p.source.DeleteWebhook(p.cfg.DropPendingUpdates); err != nil {
		p.logger.Warn("Failed to delete webhook: %v", err)
		p.alert(fmt.Sprintf("bot initialisation failed: %v", err))
	}
}

type fetchResult struct {
	updates []tgbotapi.Update
	err     error
}

// fetch выполняет getUpdates, прерываясь по отмене контекста
// tgbotapi не принимает context, поэтому запрос выполняется в отдельной goroutine
func (p *Poller) fetch(offset int) ([]tgbotapi.Update, error) {
	ch := make(chan fetchResult, 1)

	go func() {
		updates, err := p.source.GetUpdates(offset, p.cfg.Limit, int(p.cfg.Timeout/time.Second))
		ch <- fetchResult{updates: updates, err: err}
	}()

	select {
	case <-p.ctx.Done():
		return nil, p.ctx.Err()
	case res := <-ch:
		return res.updates, res.err
	}
}
