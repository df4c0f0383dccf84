package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus метрик сервиса
// Все методы Record*/Observe* безопасны для nil-получателя: при выключенных метриках
// компоненты получают nil и вызовы превращаются в no-op
type Metrics struct {
	serviceName string

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec
	dbOpenConns     *prometheus.GaugeVec
	dbInUseConns    *prometheus.GaugeVec
	dbIdleConns     *prometheus.GaugeVec
	dbWaitCount     *prometheus.GaugeVec

	reservationsCreated    *prometheus.CounterVec
	conflictsDetected      *prometheus.CounterVec
	reservationTransitions *prometheus.CounterVec
	autoReleased           *prometheus.CounterVec
	sweepDuration          *prometheus.HistogramVec
}

// New создает метрики и регистрирует их в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в переданном registerer
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		serviceName: serviceName,

		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "route", "status"}),

		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),

		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),

		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"}),

		dbOpenConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established database connections",
		}, []string{"service"}),

		dbInUseConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of database connections currently in use",
		}, []string{"service"}),

		dbIdleConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle database connections",
		}, []string{"service"}),

		dbWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_count",
			Help: "Total number of connections waited for",
		}, []string{"service"}),

		reservationsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prep_room_reservations_created_total",
			Help: "Total number of created preparation room reservations",
		}, []string{"service", "priority", "override"}),

		conflictsDetected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prep_room_conflicts_detected_total",
			Help: "Total number of reservation requests blocked by a conflict",
		}, []string{"service"}),

		reservationTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prep_room_reservation_transitions_total",
			Help: "Total number of reservation lifecycle transitions by target status",
		}, []string{"service", "status"}),

		autoReleased: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prep_room_auto_released_total",
			Help: "Total number of reservations released by the auto-release sweeper",
		}, []string{"service"}),

		sweepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "prep_room_auto_release_sweep_duration_seconds",
			Help:    "Duration of a single auto-release sweep",
			Buckets: prometheus.DefBuckets,
		}, []string{"service"}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbQueryErrors,
		m.dbOpenConns,
		m.dbInUseConns,
		m.dbIdleConns,
		m.dbWaitCount,
		m.reservationsCreated,
		m.conflictsDetected,
		m.reservationTransitions,
		m.autoReleased,
		m.sweepDuration,
	)

	return m
}

// ObserveHTTPRequest фиксирует завершенный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(m.serviceName, method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(m.serviceName, method, route).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(m.serviceName, operation).Observe(duration.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(m.serviceName, operation).Inc()
	}
}

// SetDBStats обновляет метрики пула соединений
func (m *Metrics) SetDBStats(stats sql.DBStats) {
	if m == nil {
		return
	}
	m.dbOpenConns.WithLabelValues(m.serviceName).Set(float64(stats.OpenConnections))
	m.dbInUseConns.WithLabelValues(m.serviceName).Set(float64(stats.InUse))
	m.dbIdleConns.WithLabelValues(m.serviceName).Set(float64(stats.Idle))
	m.dbWaitCount.WithLabelValues(m.serviceName).Set(float64(stats.WaitCount))
}

// RecordReservationCreated фиксирует созданное бронирование
func (m *Metrics) RecordReservationCreated(priority string, override bool) {
	if m == nil {
		return
	}
	m.reservationsCreated.WithLabelValues(m.serviceName, priority, strconv.FormatBool(override)).Inc()
}

// RecordConflict фиксирует запрос, отклоненный из-за конфликта
func (m *Metrics) RecordConflict() {
	if m == nil {
		return
	}
	m.conflictsDetected.WithLabelValues(m.serviceName).Inc()
}

// RecordTransition фиксирует переход бронирования в новый статус
func (m *Metrics) RecordTransition(status string) {
	if m == nil {
		return
	}
	m.reservationTransitions.WithLabelValues(m.serviceName, status).Inc()
}

// RecordSweep фиксирует результат одного прохода auto-release
func (m *Metrics) RecordSweep(released int, duration time.Duration) {
	if m == nil {
		return
	}
	m.autoReleased.WithLabelValues(m.serviceName).Add(float64(released))
	m.sweepDuration.WithLabelValues(m.serviceName).Observe(duration.Seconds())
}
