package models

import (
	"time"

	"github.com/m04kA/SMC-TelegramThread/internal/api/handlers"
	"github.com/m04kA/SMC-TelegramThread/internal/worker"
	"github.com/m04kA/SMC-TelegramThread/pkg/ptr"
)

// SendMessageRequest HTTP запрос на отправку сообщения
// Если SendAt задан и в будущем, сообщение откладывается
type SendMessageRequest struct {
	ChatIDs []int64    `json:"chat_ids"`
	SendAt  *time.Time `json:"send_at,omitempty"`
	handlers.MessageOptions
}

// ChatResult результат отправки в один чат
type ChatResult struct {
	ChatID int64  `json:"chat_id"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

// SendMessageResponse HTTP ответ на немедленную отправку
type SendMessageResponse struct {
	Sent    int          `json:"sent"`
	Failed  int          `json:"failed"`
	Results []ChatResult `json:"results"`
}

// ScheduledMessageResponse HTTP ответ с отложенным сообщением
type ScheduledMessageResponse struct {
	ID        string    `json:"id"`
	ChatIDs   []int64   `json:"chat_ids"`
	Text      string    `json:"text"`
	SendAt    time.Time `json:"send_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ToScheduledMessage преобразует запрос в задачу планировщика
func (r *SendMessageRequest) ToScheduledMessage() worker.ScheduledMessage {
	return worker.ScheduledMessage{
		ChatIDs: r.ChatIDs,
		Text:    r.Text,
		Options: r.SendOptions(),
		SendAt:  ptr.Value(r.SendAt),
	}
}

// FromScheduledMessage преобразует задачу планировщика в HTTP ответ
func FromScheduledMessage(m *worker.ScheduledMessage) *ScheduledMessageResponse {
	return &ScheduledMessageResponse{
		ID:        m.ID,
		ChatIDs:   m.ChatIDs,
		Text:      m.Text,
		SendAt:    m.SendAt,
		CreatedAt: m.CreatedAt,
	}
}

// FromScheduledMessages преобразует список задач планировщика
func FromScheduledMessages(list []worker.ScheduledMessage) []*ScheduledMessageResponse {
	result := make([]*ScheduledMessageResponse, 0, len(list))
	for i := range list {
		result = append(result, FromScheduledMessage(&list[i]))
	}
	return result
}
