package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observation struct {
	method, route, status string
}

type recordingObserver struct {
	mu   sync.Mutex
	seen []observation
}

func (o *recordingObserver) ObserveHTTPRequest(method, route, status string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, observation{method: method, route: route, status: status})
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	observer := &recordingObserver{}

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(observer))
	r.HandleFunc("/api/v1/messages/scheduled/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodDelete)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodDelete, "/api/v1/messages/scheduled/0b8a3c36-2f6e-4d55-9a43-5f2c8d1f7e21", nil),
		httptest.NewRequest(http.MethodGet, "/health", nil),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	require.Len(t, observer.seen, 2)
	assert.Equal(t, observation{http.MethodDelete, "/api/v1/messages/scheduled/{id}", "204"}, observer.seen[0])
	assert.Equal(t, observation{http.MethodGet, "/health", "200"}, observer.seen[1])
}
