package events

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"unicode"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MessageListener обработчик входящего сообщения
type MessageListener func(ctx context.Context, msg *tgbotapi.Message)

// InlineQueryListener обработчик inline-запроса
type InlineQueryListener func(ctx context.Context, query *tgbotapi.InlineQuery)

// ChosenInlineResultListener обработчик выбранного inline-результата
type ChosenInlineResultListener func(ctx context.Context, result *tgbotapi.ChosenInlineResult)

// CallbackQueryListener обработчик нажатия inline-кнопки
type CallbackQueryListener func(ctx context.Context, query *tgbotapi.CallbackQuery)

// PanicHandler получает описание паники, перехваченной в обработчике
type PanicHandler func(description string)

// Kind тип обработанного обновления
type Kind string

const (
	KindCommand            Kind = "command"
	KindUnknownCommand     Kind = "unknown_command"
	KindNonCommand         Kind = "non_command"
	KindInlineQuery        Kind = "inline_query"
	KindChosenInlineResult Kind = "chosen_inline_result"
	KindCallbackQuery      Kind = "callback_query"
	KindIgnored            Kind = "ignored"
)

// Broadcaster таблица обработчиков событий бота
// Регистрация и диспетчеризация потокобезопасны
type Broadcaster struct {
	mu sync.RWMutex

	commands     map[string]MessageListener
	anyMessage   []MessageListener
	unknown      MessageListener
	nonCommand   MessageListener
	inlineQuery  []InlineQueryListener
	chosenResult []ChosenInlineResultListener
	callback     []CallbackQueryListener
	onPanic      PanicHandler
}

// NewBroadcaster создаёт пустую таблицу обработчиков
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		commands: make(map[string]MessageListener),
	}
}

// SetCommands заменяет таблицу команд и обработчики-заглушки
// Имена команд указываются без ведущего "/"
func (b *Broadcaster) SetCommands(commands map[string]MessageListener, onUnknown, onNonCommand MessageListener) {
	table := make(map[string]MessageListener, len(commands))
	for name, listener := range commands {
		table[normalizeCommand(name)] = listener
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.commands = table
	b.unknown = onUnknown
	b.nonCommand = onNonCommand
}

// OnCommand добавляет или заменяет обработчик команды
func (b *Broadcaster) OnCommand(name string, listener MessageListener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// таблица копируется: handleMessage читает её без блокировки
	table := make(map[string]MessageListener, len(b.commands)+1)
	for k, v := range b.commands {
		table[k] = v
	}
	table[normalizeCommand(name)] = listener
	b.commands = table
}

// OnAnyMessage добавляет обработчик, вызываемый для каждого сообщения
func (b *Broadcaster) OnAnyMessage(listener MessageListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.anyMessage = append(b.anyMessage, listener)
}

func (b *Broadcaster) OnUnknownCommand(listener MessageListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unknown = listener
}

func (b *Broadcaster) OnNonCommandMessage(listener MessageListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nonCommand = listener
}

func (b *Broadcaster) OnInlineQuery(listener InlineQueryListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inlineQuery = append(b.inlineQuery, listener)
}

func (b *Broadcaster) OnChosenInlineResult(listener ChosenInlineResultListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chosenResult = append(b.chosenResult, listener)
}

func (b *Broadcaster) OnCallbackQuery(listener CallbackQueryListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.callback = append(b.callback, listener)
}

// SetPanicHandler задаёт получателя паник из обработчиков
func (b *Broadcaster) SetPanicHandler(handler PanicHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onPanic = handler
}

// Commands возвращает отсортированный список зарегистрированных команд
func (b *Broadcaster) Commands() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.commands))
	for name := range b.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HandleUpdate направляет обновление зарегистрированным обработчикам
func (b *Broadcaster) HandleUpdate(ctx context.Context, update tgbotapi.Update) Kind {
	switch {
	case update.Message != nil:
		return b.handleMessage(ctx, update.Message)

	case update.InlineQuery != nil:
		b.mu.RLock()
		listeners := append([]InlineQueryListener(nil), b.inlineQuery...)
		b.mu.RUnlock()

		for _, l := range listeners {
			l := l
			b.safeCall("inline query", func() { l(ctx, update.InlineQuery) })
		}
		return KindInlineQuery

	case update.ChosenInlineResult != nil:
		b.mu.RLock()
		listeners := append([]ChosenInlineResultListener(nil), b.chosenResult...)
		b.mu.RUnlock()

		for _, l := range listeners {
			l := l
			b.safeCall("chosen inline result", func() { l(ctx, update.ChosenInlineResult) })
		}
		return KindChosenInlineResult

	case update.CallbackQuery != nil:
		b.mu.RLock()
		listeners := append([]CallbackQueryListener(nil), b.callback...)
		b.mu.RUnlock()

		for _, l := range listeners {
			l := l
			b.safeCall("callback query", func() { l(ctx, update.CallbackQuery) })
		}
		return KindCallbackQuery
	}

	return KindIgnored
}

func (b *Broadcaster) handleMessage(ctx context.Context, msg *tgbotapi.Message) Kind {
	b.mu.RLock()
	anyListeners := append([]MessageListener(nil), b.anyMessage...)
	commands := b.commands
	unknown := b.unknown
	nonCommand := b.nonCommand
	b.mu.RUnlock()

	for _, l := range anyListeners {
		l := l
		b.safeCall("any message", func() { l(ctx, msg) })
	}

	name, _, isCommand := ParseCommand(msg.Text)
	if !isCommand {
		if nonCommand != nil {
			b.safeCall("non-command message", func() { nonCommand(ctx, msg) })
		}
		return KindNonCommand
	}

	if listener, ok := commands[name]; ok && listener != nil {
		b.safeCall("command /"+name, func() { listener(ctx, msg) })
		return KindCommand
	}

	if unknown != nil {
		b.safeCall("unknown command", func() { unknown(ctx, msg) })
	}
	return KindUnknownCommand
}

// safeCall вызывает обработчик, перехватывая панику
func (b *Broadcaster) safeCall(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			b.mu.RLock()
			onPanic := b.onPanic
			b.mu.RUnlock()

			if onPanic != nil {
				onPanic(fmt.Sprintf("panic in %s handler: %v\n%s", what, r, debug.Stack()))
			}
		}
	}()
	fn()
}

// ParseCommand выделяет имя команды и аргументы из текста сообщения
// "/report@my_bot today" -> ("report", "today", true)
func ParseCommand(text string) (name, args string, ok bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}

	body := text[1:]
	head, rest := body, ""
	if i := strings.IndexFunc(body, unicode.IsSpace); i >= 0 {
		head, rest = body[:i], body[i:]
	}
	head, _, _ = strings.Cut(head, "@")

	return head, strings.TrimFunc(rest, unicode.IsSpace), true
}

func normalizeCommand(name string) string {
	return strings.TrimPrefix(name, "/")
}
