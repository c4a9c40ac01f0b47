package domain

// ParseMode константы для режимов парсинга текста в Telegram
const (
	ParseModeHTML       = "HTML"
	ParseModeMarkdown   = "Markdown" // legacy
	ParseModeMarkdownV2 = "MarkdownV2"
	ParseModePlain      = ""
)

// ReplyMarkupKind тип клавиатуры, прикрепляемой к сообщению
type ReplyMarkupKind string

const (
	ReplyMarkupInline ReplyMarkupKind = "inline" // кнопки под сообщением
	ReplyMarkupReply  ReplyMarkupKind = "reply"  // клавиатура вместо системной
	ReplyMarkupRemove ReplyMarkupKind = "remove" // убрать reply-клавиатуру
)

// InlineButton inline-кнопка
// Должно быть заполнено ровно одно из URL, CallbackData, SwitchInlineQuery
type InlineButton struct {
	Text              string  `json:"text"`
	URL               string  `json:"url,omitempty"`
	CallbackData      string  `json:"callback_data,omitempty"`
	SwitchInlineQuery *string `json:"switch_inline_query,omitempty"`
}

// KeyboardButton кнопка reply-клавиатуры
type KeyboardButton struct {
	Text            string `json:"text"`
	RequestContact  bool   `json:"request_contact,omitempty"`
	RequestLocation bool   `json:"request_location,omitempty"`
}

// ReplyMarkup описание клавиатуры к сообщению
type ReplyMarkup struct {
	Kind            ReplyMarkupKind    `json:"kind"`
	InlineKeyboard  [][]InlineButton   `json:"inline_keyboard,omitempty"`
	Keyboard        [][]KeyboardButton `json:"keyboard,omitempty"`
	ResizeKeyboard  bool               `json:"resize_keyboard,omitempty"`
	OneTimeKeyboard bool               `json:"one_time_keyboard,omitempty"`
}

// SendOptions необязательные параметры отправки сообщения
type SendOptions struct {
	ParseMode             string       `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool         `json:"disable_web_page_preview,omitempty"`
	ReplyToMessageID      int          `json:"reply_to_message_id,omitempty"`
	DisableNotification   bool         `json:"disable_notification,omitempty"`
	ReplyMarkup           *ReplyMarkup `json:"reply_markup,omitempty"`
}

// OutgoingMessage сообщение для отправки в один чат
type OutgoingMessage struct {
	ChatID int64
	Text   string
	SendOptions
}

// NewOutgoingMessage создаёт сообщение для чата chatID
func NewOutgoingMessage(chatID int64, text string, opts SendOptions) *OutgoingMessage {
	return &OutgoingMessage{
		ChatID:      chatID,
		Text:        text,
		SendOptions: opts,
	}
}

// HasMarkup проверяет, прикреплена ли к сообщению клавиатура
func (m *OutgoingMessage) HasMarkup() bool {
	return m.ReplyMarkup != nil
}
