package list_scheduled

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TelegramThread/internal/api/handlers/send_message/models"
	"github.com/m04kA/SMC-TelegramThread/internal/domain"
	"github.com/m04kA/SMC-TelegramThread/internal/worker"
	"github.com/m04kA/SMC-TelegramThread/pkg/logger"
)

type nopSender struct{}

func (nopSender) SendMessage(context.Context, []int64, string, domain.SendOptions) error {
	return nil
}

func serve(scheduler Scheduler) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/messages/scheduled", NewHandler(scheduler, logger.NewWriter(io.Discard, "debug")).Handle).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/messages/scheduled", nil))
	return rec
}

func TestHandler_ListSortedBySendAt(t *testing.T) {
	// планировщик не запущен, поэтому задачи остаются в очереди
	scheduler := worker.NewScheduler(nopSender{}, logger.NewWriter(io.Discard, "debug"))

	base := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	for _, msg := range []worker.ScheduledMessage{
		{ChatIDs: []int64{1}, Text: "third", SendAt: base.Add(2 * time.Hour)},
		{ChatIDs: []int64{2}, Text: "first", SendAt: base},
		{ChatIDs: []int64{3, 4}, Text: "second", SendAt: base.Add(time.Hour)},
	} {
		_, err := scheduler.Schedule(msg)
		require.NoError(t, err)
	}

	rec := serve(scheduler)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []models.ScheduledMessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 3)

	assert.Equal(t, "first", resp[0].Text)
	assert.Equal(t, "second", resp[1].Text)
	assert.Equal(t, []int64{3, 4}, resp[1].ChatIDs)
	assert.Equal(t, "third", resp[2].Text)
	assert.True(t, resp[0].SendAt.Equal(base))
	assert.NotEmpty(t, resp[0].ID)
}

func TestHandler_EmptyListIsArray(t *testing.T) {
	scheduler := worker.NewScheduler(nopSender{}, logger.NewWriter(io.Discard, "debug"))

	rec := serve(scheduler)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}
