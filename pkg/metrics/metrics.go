package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Agenda metrics
	Reschedules      *prometheus.CounterVec
	BookingConflicts *prometheus.CounterVec
	WeekCacheHits    prometheus.Counter
	WeekCacheMisses  prometheus.Counter

	// Notification metrics
	NotificationsActive   *prometheus.GaugeVec
	PaymentsConfirmed     prometheus.Counter
	PaymentsFailed        prometheus.Counter
	NotificationRefreshes prometheus.Counter

	// Database metrics
	DatabaseOperations *prometheus.CounterVec
	DatabaseLatency    *prometheus.HistogramVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisLatency    *prometheus.HistogramVec

	// Realtime metrics
	WebsocketClients prometheus.Gauge
}

// NewMetrics creates and registers all application metrics on reg. Passing
// prometheus.DefaultRegisterer exposes them on /metrics; tests pass a fresh
// registry so repeated construction does not panic.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Reschedules: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "agenda",
			Name:      "reschedules_total",
			Help:      "Drag-and-drop reschedule attempts by outcome",
		}, []string{"outcome"}),
		BookingConflicts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "agenda",
			Name:      "conflicts_total",
			Help:      "Writes rejected because the slot was taken",
		}, []string{"source"}),
		WeekCacheHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "agenda",
			Name:      "week_cache_hits_total",
			Help:      "Week loads served from cache",
		}),
		WeekCacheMisses: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "agenda",
			Name:      "week_cache_misses_total",
			Help:      "Week loads that hit the store",
		}),

		NotificationsActive: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "active",
			Help:      "Notifications produced by the last recompute, by type",
		}, []string{"type"}),
		PaymentsConfirmed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "payments_confirmed_total",
			Help:      "Payments confirmed from the notification panel",
		}),
		PaymentsFailed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "payments_failed_total",
			Help:      "Payment confirmations whose transaction could not be stored",
		}),
		NotificationRefreshes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "refreshes_total",
			Help:      "Periodic notification recomputes",
		}),

		DatabaseOperations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "database_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "status"}),
		DatabaseLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "database_operation_duration_seconds",
			Help:      "Duration of database operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		RedisOperations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redis_operations_total",
			Help:      "Total number of Redis operations",
		}, []string{"operation", "status"}),
		RedisLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "redis_operation_duration_seconds",
			Help:      "Duration of Redis operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5},
		}, []string{"operation"}),

		WebsocketClients: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Connected realtime clients",
		}),
	}
}

// NewNop returns metrics registered on a private registry.
func NewNop() *Metrics {
	return NewMetrics(prometheus.NewRegistry(), "test")
}
