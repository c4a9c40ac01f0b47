package events

import (
	"context"
	"testing"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messageUpdate(text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			MessageID: 10,
			Text:      text,
			Chat:      &tgbotapi.Chat{ID: 358782858},
			From:      &tgbotapi.User{ID: 358782858, FirstName: "Ivan"},
		},
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text     string
		wantName string
		wantArgs string
		wantOK   bool
	}{
		{text: "/start", wantName: "start", wantOK: true},
		{text: "/Comand1 some args", wantName: "Comand1", wantArgs: "some args", wantOK: true},
		{text: "/report@my_bot today", wantName: "report", wantArgs: "today", wantOK: true},
		{text: "/help\nline", wantName: "help", wantArgs: "line", wantOK: true},
		{text: "/report\u00a0today", wantName: "report", wantArgs: "today", wantOK: true},
		{text: "/найти\u3000кошка  ", wantName: "найти", wantArgs: "кошка", wantOK: true},
		{text: "/", wantName: "", wantOK: true},
		{text: "hello /start", wantOK: false},
		{text: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			name, args, ok := ParseCommand(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
			assert.True(t, utf8.ValidString(args))
		})
	}
}

func TestBroadcaster_DispatchesCommands(t *testing.T) {
	b := NewBroadcaster()

	var got []string
	b.SetCommands(map[string]MessageListener{
		"Comand1": func(_ context.Context, msg *tgbotapi.Message) { got = append(got, "cmd:"+msg.Text) },
		"/start":  func(_ context.Context, _ *tgbotapi.Message) { got = append(got, "start") },
	},
		func(_ context.Context, msg *tgbotapi.Message) { got = append(got, "unknown:"+msg.Text) },
		func(_ context.Context, msg *tgbotapi.Message) { got = append(got, "text:"+msg.Text) },
	)

	ctx := context.Background()
	assert.Equal(t, KindCommand, b.HandleUpdate(ctx, messageUpdate("/Comand1")))
	assert.Equal(t, KindCommand, b.HandleUpdate(ctx, messageUpdate("/start@my_bot")))
	assert.Equal(t, KindUnknownCommand, b.HandleUpdate(ctx, messageUpdate("/nope")))
	assert.Equal(t, KindNonCommand, b.HandleUpdate(ctx, messageUpdate("привет")))

	assert.Equal(t, []string{"cmd:/Comand1", "start", "unknown:/nope", "text:привет"}, got)
	assert.Equal(t, []string{"Comand1", "start"}, b.Commands())
}

func TestBroadcaster_AnyMessageRunsFirst(t *testing.T) {
	b := NewBroadcaster()

	var order []string
	b.OnAnyMessage(func(context.Context, *tgbotapi.Message) { order = append(order, "any") })
	b.OnCommand("start", func(context.Context, *tgbotapi.Message) { order = append(order, "start") })

	b.HandleUpdate(context.Background(), messageUpdate("/start"))
	assert.Equal(t, []string{"any", "start"}, order)
}

func TestBroadcaster_NilFallbacks(t *testing.T) {
	b := NewBroadcaster()
	b.SetCommands(nil, nil, nil)

	assert.NotPanics(t, func() {
		assert.Equal(t, KindUnknownCommand, b.HandleUpdate(context.Background(), messageUpdate("/x")))
		assert.Equal(t, KindNonCommand, b.HandleUpdate(context.Background(), messageUpdate("x")))
		assert.Equal(t, KindIgnored, b.HandleUpdate(context.Background(), tgbotapi.Update{UpdateID: 5}))
	})
}

func TestBroadcaster_QueryListeners(t *testing.T) {
	b := NewBroadcaster()

	var inline, chosen, callback string
	b.OnInlineQuery(func(_ context.Context, q *tgbotapi.InlineQuery) { inline = q.Query })
	b.OnChosenInlineResult(func(_ context.Context, r *tgbotapi.ChosenInlineResult) { chosen = r.Query })
	b.OnCallbackQuery(func(_ context.Context, q *tgbotapi.CallbackQuery) { callback = q.Data })

	ctx := context.Background()
	assert.Equal(t, KindInlineQuery, b.HandleUpdate(ctx, tgbotapi.Update{InlineQuery: &tgbotapi.InlineQuery{Query: "q1"}}))
	assert.Equal(t, KindChosenInlineResult, b.HandleUpdate(ctx, tgbotapi.Update{ChosenInlineResult: &tgbotapi.ChosenInlineResult{Query: "q2"}}))
	assert.Equal(t, KindCallbackQuery, b.HandleUpdate(ctx, tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{Data: "Callback Button 1"}}))

	assert.Equal(t, "q1", inline)
	assert.Equal(t, "q2", chosen)
	assert.Equal(t, "Callback Button 1", callback)
}

func TestBroadcaster_RecoversPanics(t *testing.T) {
	b := NewBroadcaster()

	var reported string
	b.SetPanicHandler(func(description string) { reported = description })
	b.OnCommand("boom", func(context.Context, *tgbotapi.Message) { panic("nil chat") })

	require.NotPanics(t, func() {
		b.HandleUpdate(context.Background(), messageUpdate("/boom"))
	})
	assert.Contains(t, reported, "panic in command /boom handler: nil chat")
}
