package subscription

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/SMC-TelegramThread/internal/domain"
	"github.com/m04kA/SMC-TelegramThread/internal/events"
)

const (
	CommandStart       = "start"
	CommandHelp        = "help"
	CommandSubscribe   = "subscribe"
	CommandUnsubscribe = "unsubscribe"
)

// ErrNoChat возвращается для сообщения без чата
var ErrNoChat = errors.New("usecase.subscription: message has no chat")

// UseCase встроенные команды бота: регистрация чата и управление подпиской
type UseCase struct {
	repo    ChatRepository
	replier Replier
	logger  Logger
	metrics Metrics
}

// New создаёт use case; metrics может быть nil
func New(repo ChatRepository, replier Replier, logger Logger, metrics Metrics) *UseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &UseCase{
		repo:    repo,
		replier: replier,
		logger:  logger,
		metrics: metrics,
	}
}

// Commands возвращает таблицу команд для bot.Thread.Start
func (uc *UseCase) Commands() map[string]events.MessageListener {
	return map[string]events.MessageListener{
		CommandStart:       uc.listener(CommandStart, uc.HandleStart),
		CommandHelp:        uc.listener(CommandHelp, uc.HandleHelp),
		CommandSubscribe:   uc.listener(CommandSubscribe, uc.HandleSubscribe),
		CommandUnsubscribe: uc.listener(CommandUnsubscribe, uc.HandleUnsubscribe),
	}
}

// OnUnknownCommand отвечает подсказкой на неизвестную команду
func (uc *UseCase) OnUnknownCommand(ctx context.Context, msg *tgbotapi.Message) {
	name, _, _ := events.ParseCommand(msg.Text)
	uc.metrics.IncCommand("unknown", "ok")
	uc.logger.Info("Unknown command /%s from chat %d", name, chatID(msg))

	if err := uc.reply(ctx, msg, unknownText); err != nil {
		uc.logger.Error("Failed to answer unknown command in chat %d: %v", chatID(msg), err)
	}
}

// OnNonCommandMessage обычные сообщения боту не обрабатываются
func (uc *UseCase) OnNonCommandMessage(_ context.Context, msg *tgbotapi.Message) {
	uc.logger.Debug("Ignoring non-command message in chat %d", chatID(msg))
}

// HandleStart регистрирует чат и отправляет приветствие
func (uc *UseCase) HandleStart(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := uc.ensureChat(ctx, msg); err != nil {
		return err
	}
	return uc.reply(ctx, msg, welcomeText)
}

// HandleHelp отправляет список команд
func (uc *UseCase) HandleHelp(ctx context.Context, msg *tgbotapi.Message) error {
	return uc.reply(ctx, msg, helpText)
}

// HandleSubscribe подписывает чат на рассылку
func (uc *UseCase) HandleSubscribe(ctx context.Context, msg *tgbotapi.Message) error {
	return uc.setSubscribed(ctx, msg, true, subscribedText)
}

// HandleUnsubscribe отписывает чат от рассылки
func (uc *UseCase) HandleUnsubscribe(ctx context.Context, msg *tgbotapi.Message) error {
	return uc.setSubscribed(ctx, msg, false, unsubscribedText)
}

func (uc *UseCase) setSubscribed(ctx context.Context, msg *tgbotapi.Message, subscribed bool, answer string) error {
	chat, err := uc.ensureChat(ctx, msg)
	if err != nil {
		return err
	}

	if chat.Subscribed != subscribed {
		if err := uc.repo.SetSubscribed(ctx, chat.ChatID, subscribed); err != nil {
			return fmt.Errorf("usecase.subscription: set subscribed=%t for chat %d: %w", subscribed, chat.ChatID, err)
		}
		uc.logger.Info("Chat %d (%s) subscribed=%t", chat.ChatID, chat.DisplayName(), subscribed)
	}

	return uc.reply(ctx, msg, answer)
}

// ensureChat сохраняет чат, из которого пришло сообщение
func (uc *UseCase) ensureChat(ctx context.Context, msg *tgbotapi.Message) (*domain.Chat, error) {
	if msg.Chat == nil {
		return nil, ErrNoChat
	}

	chat := chatFromMessage(msg)
	if err := uc.repo.Upsert(ctx, chat); err != nil {
		return nil, fmt.Errorf("usecase.subscription: save chat %d: %w", chat.ChatID, err)
	}
	return chat, nil
}

func (uc *UseCase) reply(ctx context.Context, msg *tgbotapi.Message, text string) error {
	if msg.Chat == nil {
		return ErrNoChat
	}
	return uc.replier.SendMessageToChat(ctx, msg.Chat.ID, text, domain.SendOptions{})
}

// listener оборачивает обработчик команды логированием и метриками
func (uc *UseCase) listener(command string, handle func(context.Context, *tgbotapi.Message) error) events.MessageListener {
	return func(ctx context.Context, msg *tgbotapi.Message) {
		uc.logger.Info("Received /%s command from chat %d", command, chatID(msg))

		if err := handle(ctx, msg); err != nil {
			uc.metrics.IncCommand(command, "error")
			uc.logger.Error("Failed to handle /%s command in chat %d: %v", command, chatID(msg), err)
			return
		}
		uc.metrics.IncCommand(command, "ok")
	}
}

// chatFromMessage строит доменную модель чата из входящего сообщения
func chatFromMessage(msg *tgbotapi.Message) *domain.Chat {
	c := msg.Chat
	chat := &domain.Chat{
		ChatID:   c.ID,
		Type:     domain.ChatType(c.Type),
		Title:    c.Title,
		Username: c.UserName,
	}

	if chat.Title == "" {
		chat.Title = strings.TrimSpace(c.FirstName + " " + c.LastName)
	}
	return chat
}

func chatID(msg *tgbotapi.Message) int64 {
	if msg == nil || msg.Chat == nil {
		return 0
	}
	return msg.Chat.ID
}

type noopMetrics struct{}

func (noopMetrics) IncCommand(string, string) {}
