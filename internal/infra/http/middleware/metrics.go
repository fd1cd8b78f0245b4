package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of classified integration errors",
		},
		[]string{"service", "kind"},
	)

	storeLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_loads_total",
			Help: "Collection store loads by kind and result",
		},
		[]string{"kind", "result"},
	)

	leadMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_mutations_total",
			Help: "Successful collection mutations by kind and operation",
		},
		[]string{"kind", "op"},
	)

	notificationsPosted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_posted_total",
			Help: "Notifications posted by kind",
		},
		[]string{"kind"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Metrics records request counts and latency. The chi route pattern is used
// as the path label so ids do not explode cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

func RecordIntegrationError(service, kind string) {
	integrationErrors.WithLabelValues(service, kind).Inc()
}

func RecordStoreLoad(kind string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	storeLoads.WithLabelValues(kind, result).Inc()
}

func RecordMutation(kind, op string) {
	leadMutations.WithLabelValues(kind, op).Inc()
}

func RecordNotification(kind string) {
	notificationsPosted.WithLabelValues(kind).Inc()
}
