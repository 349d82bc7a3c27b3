package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ProviderCallsTotal   *prometheus.CounterVec
	ProviderCallDuration *prometheus.HistogramVec
	FailOpenTotal        prometheus.Counter

	DBQueryDuration   *prometheus.HistogramVec
	DBOpenConnections prometheus.Gauge
	DBInUse           prometheus.Gauge
	DBIdle            prometheus.Gauge

	OutboxPending   prometheus.Gauge
	OutboxProcessed *prometheus.CounterVec
}

// New регистрирует метрики в глобальном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в указанном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ProviderCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "calendar_provider_calls_total",
			Help:        "Calls to the external calendar provider",
			ConstLabels: labels,
		}, []string{"operation", "result"}),
		ProviderCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "calendar_provider_call_duration_seconds",
			Help:        "Latency of calls to the external calendar provider",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"operation"}),
		FailOpenTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "availability_fail_open_total",
			Help:        "Free/busy failures resolved as an empty busy set",
			ConstLabels: labels,
		}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"kind"}),
		DBOpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Open database connections",
			ConstLabels: labels,
		}),
		DBInUse: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Database connections in use",
			ConstLabels: labels,
		}),
		DBIdle: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Idle database connections",
			ConstLabels: labels,
		}),
		OutboxPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "sync_outbox_pending",
			Help:        "Mirror writes waiting for reconciliation",
			ConstLabels: labels,
		}),
		OutboxProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "sync_outbox_processed_total",
			Help:        "Reconciled outbox entries",
			ConstLabels: labels,
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ProviderCallsTotal,
		m.ProviderCallDuration,
		m.FailOpenTotal,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUse,
		m.DBIdle,
		m.OutboxPending,
		m.OutboxProcessed,
	)

	return m
}

// Методы безопасны на nil получателе: при выключенных метриках вызовы ничего не делают

// ObserveHTTP фиксирует HTTP запрос
func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveProviderCall фиксирует вызов календарного провайдера
func (m *Metrics) ObserveProviderCall(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ProviderCallsTotal.WithLabelValues(operation, result).Inc()
	m.ProviderCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// IncFailOpen фиксирует срабатывание fail-open политики
func (m *Metrics) IncFailOpen() {
	if m == nil {
		return
	}
	m.FailOpenTotal.Inc()
}

// SetOutboxPending выставляет число ожидающих записей outbox
func (m *Metrics) SetOutboxPending(n int) {
	if m == nil {
		return
	}
	m.OutboxPending.Set(float64(n))
}

// ObserveOutboxResult фиксирует результат обработки записи outbox
func (m *Metrics) ObserveOutboxResult(result string) {
	if m == nil {
		return
	}
	m.OutboxProcessed.WithLabelValues(result).Inc()
}

// ObserveQuery фиксирует длительность запроса к БД
func (m *Metrics) ObserveQuery(kind string, duration time.Duration) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// ObservePool фиксирует состояние пула соединений
func (m *Metrics) ObservePool(stats sql.DBStats) {
	if m == nil {
		return
	}
	m.DBOpenConnections.Set(float64(stats.OpenConnections))
	m.DBInUse.Set(float64(stats.InUse))
	m.DBIdle.Set(float64(stats.Idle))
}
