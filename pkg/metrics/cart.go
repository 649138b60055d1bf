package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Cart mutation operations.
const (
	OpAdd    = "add"
	OpRemove = "remove"
)

// CartMetrics records request latency and cart mutation outcomes.
type CartMetrics struct {
	duration  *prometheus.HistogramVec
	mutations *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart add and remove operations by outcome.",
	}, []string{"op", "result"})
	reg.MustRegister(duration, mutations)
	return &CartMetrics{
		duration:  duration,
		mutations: mutations,
	}
}

// ObserveRequest records the duration of a routed HTTP request.
func (c *CartMetrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(method, normalizeLabel(route), strconv.Itoa(status)).Observe(duration.Seconds())
}

// IncMutation counts a cart mutation and its outcome.
func (c *CartMetrics) IncMutation(op, result string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op), normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
