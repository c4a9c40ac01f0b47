package worker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-TelegramThread/internal/domain"
)

var (
	// ErrScheduledNotFound возвращается, если отложенное сообщение не найдено
	ErrScheduledNotFound = errors.New("worker: scheduled message not found")

	// ErrInvalidScheduledMessage возвращается при пустом списке чатов или тексте
	ErrInvalidScheduledMessage = errors.New("worker: invalid scheduled message")
)

// ScheduledMessage сообщение, отправка которого отложена до SendAt
type ScheduledMessage struct {
	ID        string
	ChatIDs   []int64
	Text      string
	Options   domain.SendOptions
	SendAt    time.Time
	CreatedAt time.Time
}

type scheduledJob struct {
	msg *ScheduledMessage
	job *gocron.Job
}

// Scheduler планировщик отложенных сообщений
// Хранит задачи только в памяти: при перезапуске сервиса они теряются
type Scheduler struct {
	sender    Sender
	logger    Logger
	scheduler *gocron.Scheduler
	jobs      map[string]*scheduledJob // message_id -> job
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewScheduler создает новый экземпляр планировщика
func NewScheduler(sender Sender, logger Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		sender:    sender,
		logger:    logger,
		scheduler: gocron.NewScheduler(time.UTC),
		jobs:      make(map[string]*scheduledJob),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start запускает планировщик
func (s *Scheduler) Start() {
	s.logger.Info("Starting message scheduler")
	s.scheduler.StartAsync()
}

// Stop останавливает планировщик
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping message scheduler")
	s.cancel()
	s.scheduler.Stop()
	s.logger.Info("Message scheduler stopped")
}

// Schedule планирует отправку сообщения на msg.SendAt
// SendAt в прошлом означает немедленную отправку
func (s *Scheduler) Schedule(msg ScheduledMessage) (*ScheduledMessage, error) {
	if len(msg.ChatIDs) == 0 {
		return nil, fmt.Errorf("%w: no chat ids", ErrInvalidScheduledMessage)
	}
	if msg.Text == "" {
		return nil, fmt.Errorf("%w: empty text", ErrInvalidScheduledMessage)
	}

	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now().UTC()
	msg.ChatIDs = append([]int64(nil), msg.ChatIDs...)

	s.mu.Lock()
	defer s.mu.Unlock()

	builder := s.scheduler.Every(1)
	if msg.SendAt.After(time.Now()) {
		builder = builder.StartAt(msg.SendAt)
	} else {
		builder = builder.StartImmediately()
	}

	job, err := builder.LimitRunsTo(1).Do(s.sendScheduledMessage, msg.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule job for message %s: %w", msg.ID, err)
	}

	s.jobs[msg.ID] = &scheduledJob{msg: &msg, job: job}
	s.logger.Info("Scheduled message %s to %d chat(s) for %s", msg.ID, len(msg.ChatIDs), msg.SendAt.Format(time.RFC3339))

	return &msg, nil
}

// Cancel отменяет запланированную отправку
func (s *Scheduler) Cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.jobs[id]
	if !exists {
		return ErrScheduledNotFound
	}

	s.scheduler.RemoveByReference(entry.job)
	delete(s.jobs, id)

	s.logger.Info("Cancelled scheduled message %s", id)
	return nil
}

// List возвращает ожидающие отправки сообщения, отсортированные по SendAt
func (s *Scheduler) List() []ScheduledMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ScheduledMessage, 0, len(s.jobs))
	for _, entry := range s.jobs {
		out = append(out, *entry.msg)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].SendAt.Before(out[j].SendAt)
	})
	return out
}

// sendScheduledMessage отправляет запланированное сообщение
// Вызывается планировщиком gocron в указанное время
func (s *Scheduler) sendScheduledMessage(id string) {
	s.mu.Lock()
	entry, exists := s.jobs[id]
	delete(s.jobs, id)
	s.mu.Unlock()

	if !exists {
		s.logger.Warn("Scheduled message %s was cancelled before sending", id)
		return
	}

	s.logger.Info("Executing scheduled message %s", id)

	ctx, cancel := context.WithTimeout(s.ctx, 30*time.Second)
	defer cancel()

	msg := entry.msg
	if err := s.sender.SendMessage(ctx, msg.ChatIDs, msg.Text, msg.Options); err != nil {
		s.logger.Error("Failed to send scheduled message %s: %v", id, err)
		return
	}

	s.logger.Info("Successfully sent scheduled message %s", id)
}
