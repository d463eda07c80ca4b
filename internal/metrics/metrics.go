package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		},
		[]string{"route", "method", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shareit",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "bookings_created_total",
			Help:      "Bookings created in WAITING status.",
		},
	)

	bookingDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "booking_decisions_total",
			Help:      "Owner decisions on bookings by resulting status.",
		},
		[]string{"status"},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "cache_lookups_total",
			Help:      "Lookup cache hits and misses by key prefix.",
		},
		[]string{"prefix", "result"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, bookingsCreated, bookingDecisions, cacheLookups)
	})
}

// ObserveHTTP records one finished HTTP request.
func ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// IncBookingCreated counts a newly created booking.
func IncBookingCreated() {
	bookingsCreated.Inc()
}

// IncBookingDecision counts an approve/reject decision by the resulting status.
func IncBookingDecision(status string) {
	bookingDecisions.WithLabelValues(status).Inc()
}

// IncCacheLookup counts a cache hit or miss.
func IncCacheLookup(prefix string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(prefix, result).Inc()
}
