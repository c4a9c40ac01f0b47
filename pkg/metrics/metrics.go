package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор Prometheus-метрик сервиса
// Все методы безопасно вызывать на nil (метрики выключены)
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	UpdatesTotal        *prometheus.CounterVec
	CommandsTotal       *prometheus.CounterVec
	MessagesSentTotal   *prometheus.CounterVec
	PollErrorsTotal     prometheus.Counter
	DBQueryDuration     *prometheus.HistogramVec
}

// New регистрирует метрики в DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry регистрирует метрики в переданном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		UpdatesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "telegram_updates_total",
			Help:        "Telegram updates received, by kind",
			ConstLabels: labels,
		}, []string{"kind"}),
		CommandsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "telegram_commands_total",
			Help:        "Bot commands dispatched, by command and result",
			ConstLabels: labels,
		}, []string{"command", "result"}),
		MessagesSentTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "telegram_messages_sent_total",
			Help:        "Outgoing messages, by status",
			ConstLabels: labels,
		}, []string{"status"}),
		PollErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name:        "telegram_poll_errors_total",
			Help:        "Failed long-poll requests",
			ConstLabels: labels,
		}),
		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
	}
}

func (m *Metrics) ObserveHTTPRequest(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) IncUpdate(kind string) {
	if m == nil {
		return
	}
	m.UpdatesTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncCommand(command, result string) {
	if m == nil {
		return
	}
	m.CommandsTotal.WithLabelValues(command, result).Inc()
}

func (m *Metrics) IncMessageSent(ok bool) {
	if m == nil {
		return
	}
	status := "sent"
	if !ok {
		status = "failed"
	}
	m.MessagesSentTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) IncPollError() {
	if m == nil {
		return
	}
	m.PollErrorsTotal.Inc()
}

func (m *Metrics) ObserveDBQuery(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(d.Seconds())
}
