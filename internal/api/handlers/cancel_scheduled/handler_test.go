package cancel_scheduled

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-TelegramThread/internal/worker"
	"github.com/m04kA/SMC-TelegramThread/pkg/logger"
)

type fakeScheduler struct {
	known map[string]bool
	err   error
}

func (f *fakeScheduler) Cancel(id string) error {
	if f.err != nil {
		return f.err
	}
	if !f.known[id] {
		return worker.ErrScheduledNotFound
	}
	delete(f.known, id)
	return nil
}

func TestHandler_Cancel(t *testing.T) {
	const id = "0b8a3c36-2f6e-4d55-9a43-5f2c8d1f7e21"

	tests := []struct {
		name      string
		path      string
		scheduler *fakeScheduler
		want      int
	}{
		{name: "cancelled", path: "/api/v1/messages/scheduled/" + id, scheduler: &fakeScheduler{known: map[string]bool{id: true}}, want: http.StatusNoContent},
		{name: "unknown id", path: "/api/v1/messages/scheduled/" + id, scheduler: &fakeScheduler{}, want: http.StatusNotFound},
		{name: "not a uuid", path: "/api/v1/messages/scheduled/42", scheduler: &fakeScheduler{}, want: http.StatusBadRequest},
		{name: "scheduler failure", path: "/api/v1/messages/scheduled/" + id, scheduler: &fakeScheduler{err: errors.New("boom")}, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mux.NewRouter()
			r.HandleFunc("/api/v1/messages/scheduled/{id}", NewHandler(tt.scheduler, logger.NewWriter(io.Discard, "debug")).Handle)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, tt.path, nil))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
