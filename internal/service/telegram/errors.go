package telegram

import (
	"errors"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var (
	// ErrSendMessage возвращается при ошибке отправки сообщения
	ErrSendMessage = errors.New("service.telegram: failed to send message")

	// ErrInvalidChatID возвращается при некорректном chat_id
	ErrInvalidChatID = errors.New("service.telegram: invalid chat_id")

	// ErrEmptyMessage возвращается при пустом тексте сообщения
	ErrEmptyMessage = errors.New("service.telegram: message text is empty")

	// ErrInvalidMarkup возвращается при некорректном описании клавиатуры
	ErrInvalidMarkup = errors.New("service.telegram: invalid reply markup")

	// ErrGetUpdates возвращается при ошибке запроса getUpdates
	ErrGetUpdates = errors.New("service.telegram: failed to get updates")

	// ErrGetMe возвращается при ошибке запроса getMe
	ErrGetMe = errors.New("service.telegram: failed to get bot info")

	// ErrSetWebhook возвращается при ошибке установки webhook
	ErrSetWebhook = errors.New("service.telegram: failed to set webhook")

	// ErrDeleteWebhook возвращается при ошибке удаления webhook
	ErrDeleteWebhook = errors.New("service.telegram: failed to delete webhook")

	// ErrAnswerCallback возвращается при ошибке ответа на callback query
	ErrAnswerCallback = errors.New("service.telegram: failed to answer callback query")
)

// IsConflict сообщает, что Telegram отклонил getUpdates из-за другого активного
// запроса или установленного webhook (HTTP 409)
func IsConflict(err error) bool {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusConflict
	}
	var apiErrValue tgbotapi.Error
	if errors.As(err, &apiErrValue) {
		return apiErrValue.Code == http.StatusConflict
	}
	return false
}
