package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-TelegramThread/internal/domain"
)

// Service сервис для работы с Telegram Bot API
type Service struct {
	bot     BotAPI
	limiter *rate.Limiter
}

// NewService создает новый экземпляр Telegram сервиса
// messagesPerSecond ограничивает частоту исходящих сообщений, <= 0 отключает ограничение
func NewService(bot BotAPI, messagesPerSecond float64) *Service {
	limit := rate.Inf
	burst := 1
	if messagesPerSecond > 0 {
		limit = rate.Limit(messagesPerSecond)
		burst = int(messagesPerSecond)
		if burst < 1 {
			burst = 1
		}
	}

	return &Service{
		bot:     bot,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Bot возвращает клиент Bot API
func (s *Service) Bot() BotAPI {
	return s.bot
}

// SendMessage отправляет текстовое сообщение в один чат
func (s *Service) SendMessage(ctx context.Context, msg *domain.OutgoingMessage) (tgbotapi.Message, error) {
	if msg.ChatID == 0 {
		return tgbotapi.Message{}, ErrInvalidChatID
	}

	if msg.Text == "" {
		return tgbotapi.Message{}, ErrEmptyMessage
	}

	tgMsg := tgbotapi.NewMessage(msg.ChatID, msg.Text)
	tgMsg.ParseMode = msg.ParseMode
	tgMsg.DisableWebPagePreview = msg.DisableWebPagePreview
	tgMsg.DisableNotification = msg.DisableNotification
	tgMsg.ReplyToMessageID = msg.ReplyToMessageID

	if msg.HasMarkup() {
		markup, err := BuildReplyMarkup(msg.ReplyMarkup)
		if err != nil {
			return tgbotapi.Message{}, err
		}
		tgMsg.ReplyMarkup = markup
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return tgbotapi.Message{}, fmt.Errorf("%w: chat %d: %v", ErrSendMessage, msg.ChatID, err)
	}

	sent, err := s.bot.Send(tgMsg)
	if err != nil {
		return tgbotapi.Message{}, fmt.Errorf("%w: chat %d: %v", ErrSendMessage, msg.ChatID, err)
	}

	return sent, nil
}

// BuildReplyMarkup преобразует доменное описание клавиатуры в тип tgbotapi
func BuildReplyMarkup(markup *domain.ReplyMarkup) (interface{}, error) {
	switch markup.Kind {
	case domain.ReplyMarkupInline:
		keyboard, err := buildInlineKeyboard(markup.InlineKeyboard)
		if err != nil {
			return nil, err
		}
		return keyboard, nil

	case domain.ReplyMarkupReply:
		if len(markup.Keyboard) == 0 {
			return nil, fmt.Errorf("%w: reply keyboard has no rows", ErrInvalidMarkup)
		}

		rows := make([][]tgbotapi.KeyboardButton, 0, len(markup.Keyboard))
		for _, row := range markup.Keyboard {
			buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
			for _, btn := range row {
				buttons = append(buttons, tgbotapi.KeyboardButton{
					Text:            btn.Text,
					RequestContact:  btn.RequestContact,
					RequestLocation: btn.RequestLocation,
				})
			}
			rows = append(rows, buttons)
		}

		keyboard := tgbotapi.NewReplyKeyboard(rows...)
		keyboard.ResizeKeyboard = markup.ResizeKeyboard
		keyboard.OneTimeKeyboard = markup.OneTimeKeyboard
		return keyboard, nil

	case domain.ReplyMarkupRemove:
		return tgbotapi.NewRemoveKeyboard(false), nil

	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidMarkup, markup.Kind)
	}
}

// buildInlineKeyboard создает inline-клавиатуру из строк кнопок
func buildInlineKeyboard(rows [][]domain.InlineButton) (tgbotapi.InlineKeyboardMarkup, error) {
	if len(rows) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, fmt.Errorf("%w: inline keyboard has no rows", ErrInvalidMarkup)
	}

	keyboard := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			button, err := buildInlineButton(btn)
			if err != nil {
				return tgbotapi.InlineKeyboardMarkup{}, err
			}
			buttons = append(buttons, button)
		}
		keyboard = append(keyboard, buttons)
	}

	return tgbotapi.NewInlineKeyboardMarkup(keyboard...), nil
}

// buildInlineButton создаёт кнопку; у неё должно быть ровно одно действие
func buildInlineButton(btn domain.InlineButton) (tgbotapi.InlineKeyboardButton, error) {
	actions := 0
	for _, set := range []bool{btn.URL != "", btn.CallbackData != "", btn.SwitchInlineQuery != nil} {
		if set {
			actions++
		}
	}

	switch {
	case actions == 0:
		return tgbotapi.InlineKeyboardButton{}, fmt.Errorf("%w: button %q has no action", ErrInvalidMarkup, btn.Text)
	case actions > 1:
		return tgbotapi.InlineKeyboardButton{}, fmt.Errorf("%w: button %q has more than one action", ErrInvalidMarkup, btn.Text)
	case btn.URL != "":
		return tgbotapi.NewInlineKeyboardButtonURL(btn.Text, btn.URL), nil
	case btn.CallbackData != "":
		return tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.CallbackData), nil
	default:
		return tgbotapi.NewInlineKeyboardButtonSwitch(btn.Text, *btn.SwitchInlineQuery), nil
	}
}

// GetMe возвращает информацию о боте
func (s *Service) GetMe() (tgbotapi.User, error) {
	me, err := s.bot.GetMe()
	if err != nil {
		return tgbotapi.User{}, fmt.Errorf("%w: %v", ErrGetMe, err)
	}
	return me, nil
}

// GetUpdates выполняет один long polling запрос
// timeoutSec - время удержания соединения сервером Telegram
func (s *Service) GetUpdates(offset, limit, timeoutSec int) ([]tgbotapi.Update, error) {
	updateConfig := tgbotapi.NewUpdate(offset)
	updateConfig.Limit = limit
	updateConfig.Timeout = timeoutSec

	updates, err := s.bot.GetUpdates(updateConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGetUpdates, err)
	}
	return updates, nil
}

// SetWebhook устанавливает webhook URL для получения обновлений от Telegram
func (s *Service) SetWebhook(webhookURL string) error {
	webhook, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return fmt.Errorf("%w: failed to create webhook config: %v", ErrSetWebhook, err)
	}

	if _, err := s.bot.Request(webhook); err != nil {
		return fmt.Errorf("%w: %v", ErrSetWebhook, err)
	}

	return nil
}

// DeleteWebhook удаляет webhook (переключает на long polling)
func (s *Service) DeleteWebhook(dropPendingUpdates bool) error {
	deleteWebhook := tgbotapi.DeleteWebhookConfig{
		DropPendingUpdates: dropPendingUpdates,
	}

	if _, err := s.bot.Request(deleteWebhook); err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteWebhook, err)
	}

	return nil
}

// AnswerCallback подтверждает нажатие inline-кнопки (убирает "часики" у клиента)
func (s *Service) AnswerCallback(callbackID, text string) error {
	if _, err := s.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("%w: %v", ErrAnswerCallback, err)
	}
	return nil
}
