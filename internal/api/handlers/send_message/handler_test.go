package send_message

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TelegramThread/internal/api/handlers/send_message/models"
	"github.com/m04kA/SMC-TelegramThread/internal/domain"
	"github.com/m04kA/SMC-TelegramThread/internal/worker"
	"github.com/m04kA/SMC-TelegramThread/pkg/logger"
)

type fakeSender struct {
	failFor map[int64]bool
	sent    []int64
	opts    domain.SendOptions
}

func (f *fakeSender) SendMessageToChat(_ context.Context, chatID int64, _ string, opts domain.SendOptions) error {
	f.opts = opts
	if f.failFor[chatID] {
		return errors.New("Forbidden: bot was blocked by the user")
	}
	f.sent = append(f.sent, chatID)
	return nil
}

type fakeScheduler struct {
	scheduled []worker.ScheduledMessage
}

func (f *fakeScheduler) Schedule(msg worker.ScheduledMessage) (*worker.ScheduledMessage, error) {
	msg.ID = "0b8a3c36-2f6e-4d55-9a43-5f2c8d1f7e21"
	msg.CreatedAt = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	f.scheduled = append(f.scheduled, msg)
	return &msg, nil
}

func newHandler(sender *fakeSender, scheduler *fakeScheduler) *Handler {
	h := NewHandler(sender, scheduler, logger.NewWriter(io.Discard, "debug"))
	h.now = func() time.Time { return time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC) }
	return h
}

func serve(h *Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(body)))
	return rec
}

func TestHandler_SendsToEveryChat(t *testing.T) {
	sender := &fakeSender{failFor: map[int64]bool{-1001: true}}
	h := newHandler(sender, &fakeScheduler{})

	rec := serve(h, `{"chat_ids":[42,-1001,77],"text":"<b>Deploy</b> done","parse_mode":"HTML","disable_notification":true}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.SendMessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Sent)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Results, 3)
	assert.False(t, resp.Results[1].OK)
	assert.Contains(t, resp.Results[1].Error, "blocked")

	assert.Equal(t, []int64{42, 77}, sender.sent)
	assert.Equal(t, domain.ParseModeHTML, sender.opts.ParseMode)
	assert.True(t, sender.opts.DisableNotification)
}

func TestHandler_AllChatsFailed(t *testing.T) {
	sender := &fakeSender{failFor: map[int64]bool{42: true}}
	rec := serve(newHandler(sender, &fakeScheduler{}), `{"chat_ids":[42],"text":"hi"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandler_SchedulesFutureMessage(t *testing.T) {
	sender := &fakeSender{}
	scheduler := &fakeScheduler{}

	rec := serve(newHandler(sender, scheduler), `{"chat_ids":[42],"text":"reminder","send_at":"2026-10-01T12:00:00Z"}`)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, sender.sent)
	require.Len(t, scheduler.scheduled, 1)
	assert.Equal(t, time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC), scheduler.scheduled[0].SendAt)

	var resp models.ScheduledMessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "0b8a3c36-2f6e-4d55-9a43-5f2c8d1f7e21", resp.ID)
}

func TestHandler_PastSendAtIsImmediate(t *testing.T) {
	sender := &fakeSender{}
	scheduler := &fakeScheduler{}

	rec := serve(newHandler(sender, scheduler), `{"chat_ids":[42],"text":"late","send_at":"2026-09-30T12:00:00Z"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, scheduler.scheduled)
	assert.Equal(t, []int64{42}, sender.sent)
}

func TestHandler_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "broken json", body: `{"chat_ids":`},
		{name: "no chats", body: `{"chat_ids":[],"text":"hi"}`},
		{name: "zero chat id", body: `{"chat_ids":[0],"text":"hi"}`},
		{name: "empty text", body: `{"chat_ids":[42],"text":""}`},
		{name: "unknown parse mode", body: `{"chat_ids":[42],"text":"hi","parse_mode":"BBCode"}`},
		{name: "bad markup", body: `{"chat_ids":[42],"text":"hi","reply_markup":{"kind":"carousel"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{}
			rec := serve(newHandler(sender, &fakeScheduler{}), tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, sender.sent)
		})
	}
}
