package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics контейнер Prometheus-метрик сервиса
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec
	dbPoolOpenConns prometheus.Gauge
	dbPoolIdleConns prometheus.Gauge
	dbPoolInUse     prometheus.Gauge

	bookingEventsTotal  *prometheus.CounterVec
	lockAcquireFailures *prometheus.CounterVec
}

// New создает и регистрирует метрики сервиса
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"query"}),

		dbQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"query"}),

		dbPoolOpenConns: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_open_connections",
			Help:        "Number of open connections in the pool",
			ConstLabels: constLabels,
		}),

		dbPoolIdleConns: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_idle_connections",
			Help:        "Number of idle connections in the pool",
			ConstLabels: constLabels,
		}),

		dbPoolInUse: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}),

		bookingEventsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_events_total",
			Help:        "Total number of booking state transition events",
			ConstLabels: constLabels,
		}, []string{"kind"}),

		lockAcquireFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "resource_lock_acquire_failures_total",
			Help:        "Total number of resource lock acquisition timeouts",
			ConstLabels: constLabels,
		}, []string{"reason"}),
	}
}

// ObserveHTTPRequest фиксирует HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует длительность запроса к БД
func (m *Metrics) ObserveDBQuery(query string, duration time.Duration, err error) {
	m.dbQueryDuration.WithLabelValues(query).Observe(duration.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(query).Inc()
	}
}

// SetDBPoolStats обновляет gauge-метрики connection pool
func (m *Metrics) SetDBPoolStats(open, idle, inUse int) {
	m.dbPoolOpenConns.Set(float64(open))
	m.dbPoolIdleConns.Set(float64(idle))
	m.dbPoolInUse.Set(float64(inUse))
}

// IncBookingEvent фиксирует событие перехода состояния бронирования
func (m *Metrics) IncBookingEvent(kind string) {
	m.bookingEventsTotal.WithLabelValues(kind).Inc()
}

// IncLockFailure фиксирует неудачную попытку взять блокировку ресурса
func (m *Metrics) IncLockFailure(reason string) {
	m.lockAcquireFailures.WithLabelValues(reason).Inc()
}
