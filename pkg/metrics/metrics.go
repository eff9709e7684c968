package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus collectors for the service. Collectors are
// registered on the default registry, which promhttp exposes in main.
type Metrics struct {
	serviceName string

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBOpenConnections *prometheus.GaugeVec
	DBIdleConnections *prometheus.GaugeVec
	DBWaitCount       *prometheus.CounterVec

	BookingConflictsTotal *prometheus.CounterVec
}

// New registers and returns the service collectors.
func New(serviceName string) *Metrics {
	return &Metrics{
		serviceName: serviceName,

		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bistro_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		}, []string{"service", "method", "route", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bistro_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bistro_db_query_duration_seconds",
			Help:    "Database query latency by operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "operation"}),

		DBOpenConnections: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bistro_db_open_connections",
			Help: "Open connections in the database pool.",
		}, []string{"service"}),

		DBIdleConnections: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bistro_db_idle_connections",
			Help: "Idle connections in the database pool.",
		}, []string{"service"}),

		DBWaitCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bistro_db_wait_total",
			Help: "Total number of waits for a database connection.",
		}, []string{"service"}),

		BookingConflictsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bistro_booking_conflicts_total",
			Help: "Commits rejected by the table/time-range exclusion constraint after assignment succeeded locally.",
		}, []string{"service", "operation"}),
	}
}

// ObserveHTTPRequest records one handled HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, route, status string, seconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, route).Observe(seconds)
}

// ObserveDBQuery records one database query.
func (m *Metrics) ObserveDBQuery(operation string, seconds float64) {
	m.DBQueryDuration.WithLabelValues(m.serviceName, operation).Observe(seconds)
}

// SetDBPoolStats publishes connection pool gauges.
func (m *Metrics) SetDBPoolStats(open, idle int, waitCount int64) {
	m.DBOpenConnections.WithLabelValues(m.serviceName).Set(float64(open))
	m.DBIdleConnections.WithLabelValues(m.serviceName).Set(float64(idle))
	if waitCount > 0 {
		m.DBWaitCount.WithLabelValues(m.serviceName).Add(float64(waitCount))
	}
}

// IncBookingConflict counts a lost race at the storage layer.
// The operation label distinguishes create from update commits.
func (m *Metrics) IncBookingConflict(operation string) {
	m.BookingConflictsTotal.WithLabelValues(m.serviceName, operation).Inc()
}
