package handlers

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TelegramThread/internal/domain"
	"github.com/m04kA/SMC-TelegramThread/internal/service/telegram"
)

// ErrInvalidOptions возвращается при некорректных параметрах сообщения
var ErrInvalidOptions = errors.New("неверные параметры сообщения")

// MessageOptions общие поля запросов на отправку сообщения
type MessageOptions struct {
	Text                  string              `json:"text"`
	ParseMode             string              `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool                `json:"disable_web_page_preview,omitempty"`
	ReplyToMessageID      int                 `json:"reply_to_message_id,omitempty"`
	DisableNotification   bool                `json:"disable_notification,omitempty"`
	ReplyMarkup           *domain.ReplyMarkup `json:"reply_markup,omitempty"`
}

// Validate проверяет текст, режим разметки и клавиатуру
func (o *MessageOptions) Validate() error {
	if o.Text == "" {
		return fmt.Errorf("%w: пустой текст", ErrInvalidOptions)
	}

	switch o.ParseMode {
	case domain.ParseModePlain, domain.ParseModeHTML, domain.ParseModeMarkdown, domain.ParseModeMarkdownV2:
	default:
		return fmt.Errorf("%w: неизвестный parse_mode %q", ErrInvalidOptions, o.ParseMode)
	}

	if o.ReplyMarkup != nil {
		if _, err := telegram.BuildReplyMarkup(o.ReplyMarkup); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
		}
	}

	return nil
}

// SendOptions преобразует HTTP модель в доменные параметры отправки
func (o *MessageOptions) SendOptions() domain.SendOptions {
	return domain.SendOptions{
		ParseMode:             o.ParseMode,
		DisableWebPagePreview: o.DisableWebPagePreview,
		ReplyToMessageID:      o.ReplyToMessageID,
		DisableNotification:   o.DisableNotification,
		ReplyMarkup:           o.ReplyMarkup,
	}
}
