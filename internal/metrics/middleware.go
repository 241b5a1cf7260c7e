package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "docquery"

// API surfaces reported in the "surface" label.
const (
	SurfaceLegacy  = "legacy"
	SurfaceV1      = "v1"
	SurfaceOps     = "ops"
	SurfaceUnknown = "unknown"
)

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds by API surface and route",
			// summaries wait on PDF downloads and LLM calls
			Buckets: []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"surface", "method", "route", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by API surface and route",
		},
		[]string{"surface", "method", "route", "status"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestDuration, httpRequestsTotal)
}

// Middleware records request count and duration per API surface.
// Routes are labelled by their chi pattern so document ids never become label values.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			route := routeOf(r)
			labels := []string{surfaceOf(route), r.Method, route, strconv.Itoa(sw.status)}
			httpRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			httpRequestsTotal.WithLabelValues(labels...).Inc()
		})
	}
}

func routeOf(r *http.Request) string {
	rc := chi.RouteContext(r.Context())
	if rc == nil || rc.RoutePattern() == "" {
		return SurfaceUnknown
	}
	return rc.RoutePattern()
}

// surfaceOf maps a route pattern to the API it belongs to.
func surfaceOf(route string) string {
	switch {
	case strings.HasPrefix(route, "/api/v3/"), route == "/api/v3":
		return SurfaceLegacy
	case strings.HasPrefix(route, "/v1/"):
		return SurfaceV1
	case route == "/health", route == "/metrics":
		return SurfaceOps
	default:
		return SurfaceUnknown
	}
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b) //nolint:wrapcheck // delegating to underlying ResponseWriter
}
