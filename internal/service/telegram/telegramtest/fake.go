// Package telegramtest содержит фейковую реализацию BotAPI для тестов
package telegramtest

import (
	"errors"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// FakeBot потокобезопасная in-memory реализация telegram.BotAPI
type FakeBot struct {
	mu sync.Mutex

	Me    tgbotapi.User
	MeErr error

	// SendFunc, если задана, определяет результат Send
	SendFunc func(c tgbotapi.Chattable) (tgbotapi.Message, error)
	sent     []tgbotapi.Chattable

	RequestErr error
	requests   []tgbotapi.Chattable

	// GetUpdatesFunc, если задана, определяет результат GetUpdates
	GetUpdatesFunc func(cfg tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
	updateConfigs  []tgbotapi.UpdateConfig
}

func (f *FakeBot) GetMe() (tgbotapi.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Me, f.MeErr
}

func (f *FakeBot) GetUpdates(cfg tgbotapi.UpdateConfig) ([]tgbotapi.Update, error) {
	f.mu.Lock()
	f.updateConfigs = append(f.updateConfigs, cfg)
	fn := f.GetUpdatesFunc
	f.mu.Unlock()

	if fn == nil {
		return nil, nil
	}
	return fn(cfg)
}

func (f *FakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	f.sent = append(f.sent, c)
	fn := f.SendFunc
	f.mu.Unlock()

	if fn == nil {
		return tgbotapi.Message{MessageID: 1}, nil
	}
	return fn(c)
}

func (f *FakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	if f.RequestErr != nil {
		return nil, f.RequestErr
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// Messages возвращает все отправленные текстовые сообщения
func (f *FakeBot) Messages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []tgbotapi.MessageConfig
	for _, c := range f.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, msg)
		}
	}
	return out
}

// Requests возвращает все вызовы Request
func (f *FakeBot) Requests() []tgbotapi.Chattable {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbotapi.Chattable(nil), f.requests...)
}

// UpdateConfigs возвращает параметры всех вызовов GetUpdates
func (f *FakeBot) UpdateConfigs() []tgbotapi.UpdateConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbotapi.UpdateConfig(nil), f.updateConfigs...)
}

// FailFor возвращает SendFunc, которая падает для указанных чатов
func FailFor(chatIDs ...int64) func(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	failing := make(map[int64]struct{}, len(chatIDs))
	for _, id := range chatIDs {
		failing[id] = struct{}{}
	}

	return func(c tgbotapi.Chattable) (tgbotapi.Message, error) {
		msg, ok := c.(tgbotapi.MessageConfig)
		if ok {
			if _, fail := failing[msg.ChatID]; fail {
				return tgbotapi.Message{}, errors.New("Forbidden: bot was blocked by the user")
			}
		}
		return tgbotapi.Message{MessageID: 1}, nil
	}
}
