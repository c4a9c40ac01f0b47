package domain

import "time"

// ChatType тип чата Telegram
type ChatType string

const (
	ChatTypePrivate    ChatType = "private"
	ChatTypeGroup      ChatType = "group"
	ChatTypeSupergroup ChatType = "supergroup"
	ChatTypeChannel    ChatType = "channel"
)

// Chat чат, который общался с ботом
type Chat struct {
	ChatID     int64     `db:"chat_id"`
	Type       ChatType  `db:"chat_type"`
	Title      string    `db:"title"`    // название группы/канала или имя пользователя
	Username   string    `db:"username"` // без @
	Subscribed bool      `db:"subscribed"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// DisplayName имя чата для логов и ответов
func (c *Chat) DisplayName() string {
	if c.Username != "" {
		return "@" + c.Username
	}
	return c.Title
}
