package telegram_webhook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TelegramThread/internal/events"
	"github.com/m04kA/SMC-TelegramThread/pkg/logger"
)

type recordingHandler struct {
	updates []tgbotapi.Update
}

func (h *recordingHandler) HandleUpdate(_ context.Context, update tgbotapi.Update) events.Kind {
	h.updates = append(h.updates, update)
	return events.KindCommand
}

func TestHandler_DispatchesUpdate(t *testing.T) {
	updates := &recordingHandler{}
	h := NewHandler(updates, logger.NewWriter(io.Discard, "debug"))

	body := `{"update_id":1001,"message":{"message_id":5,"date":1760000000,"chat":{"id":42,"type":"private"},"text":"/start"}}`
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/webhook/telegram", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, updates.updates, 1)
	assert.Equal(t, 1001, updates.updates[0].UpdateID)
	assert.Equal(t, "/start", updates.updates[0].Message.Text)
}

func TestHandler_InvalidBody(t *testing.T) {
	updates := &recordingHandler{}
	h := NewHandler(updates, logger.NewWriter(io.Discard, "debug"))

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/webhook/telegram", strings.NewReader("not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, updates.updates)
}
