package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор метрик сервиса
// Все методы безопасно вызывать на nil (метрики выключены)
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	DBConnections   *prometheus.GaugeVec

	BookingsCreated  *prometheus.CounterVec
	BookingConflicts *prometheus.CounterVec
	SlotsCreated     *prometheus.CounterVec
	EventsDropped    *prometheus.CounterVec
	JobRuns          *prometheus.CounterVec
	RateLimited      *prometheus.CounterVec

	serviceName string
}

// New создает метрики и регистрирует их в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики в указанном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		serviceName: serviceName,

		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "route", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),

		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"}),

		DBConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections",
			Help: "Database connection pool state",
		}, []string{"service", "state"}),

		BookingsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "appointments_bookings_created_total",
			Help: "Bookings created, by initial status",
		}, []string{"service", "status"}),

		BookingConflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "appointments_booking_conflicts_total",
			Help: "Rejected concurrent writes (slot already taken, status changed concurrently)",
		}, []string{"service", "reason"}),

		SlotsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "appointments_slots_created_total",
			Help: "Availability slots created",
		}, []string{"service", "mode"}),

		EventsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "appointments_events_dropped_total",
			Help: "Realtime events dropped for slow subscribers",
		}, []string{"service"}),

		JobRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "appointments_job_runs_total",
			Help: "Background job runs by result",
		}, []string{"service", "job", "result"}),

		RateLimited: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "appointments_rate_limited_total",
			Help: "Requests rejected by the per-IP rate limiter",
		}, []string{"service"}),
	}
}

// ServiceName возвращает имя сервиса для лейблов
func (m *Metrics) ServiceName() string {
	if m == nil {
		return ""
	}
	return m.serviceName
}

func (m *Metrics) IncBookingCreated(status string) {
	if m == nil {
		return
	}
	m.BookingsCreated.WithLabelValues(m.serviceName, status).Inc()
}

func (m *Metrics) IncBookingConflict(reason string) {
	if m == nil {
		return
	}
	m.BookingConflicts.WithLabelValues(m.serviceName, reason).Inc()
}

func (m *Metrics) AddSlotsCreated(mode string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SlotsCreated.WithLabelValues(m.serviceName, mode).Add(float64(n))
}

func (m *Metrics) IncEventsDropped() {
	if m == nil {
		return
	}
	m.EventsDropped.WithLabelValues(m.serviceName).Inc()
}

func (m *Metrics) IncJobRun(job, result string) {
	if m == nil {
		return
	}
	m.JobRuns.WithLabelValues(m.serviceName, job, result).Inc()
}

func (m *Metrics) IncRateLimited() {
	if m == nil {
		return
	}
	m.RateLimited.WithLabelValues(m.serviceName).Inc()
}
