// Package metrics provides Prometheus metrics for the terminal server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hannaterm_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hannaterm_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Shell metrics
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hannaterm_commands_total",
			Help: "Total builtin command invocations",
		},
		[]string{"command", "status"},
	)

	vfsTreeSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hannaterm_vfs_tree_size",
			Help: "Number of files/directories in the most recently touched session tree",
		},
	)

	// Auth metrics
	authAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hannaterm_auth_attempts_total",
			Help: "Total login attempts",
		},
		[]string{"result"},
	)

	accountLockoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hannaterm_account_lockouts_total",
			Help: "Total accounts that reached the failed attempt limit",
		},
	)

	// Session metrics
	sessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hannaterm_sessions_active",
			Help: "Number of live terminal sessions",
		},
	)

	sessionsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hannaterm_sessions_created_total",
			Help: "Total terminal sessions created",
		},
	)

	// SSE metrics
	sseConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hannaterm_sse_connections_active",
			Help: "Number of active SSE connections",
		},
	)

	sseEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hannaterm_sse_events_total",
			Help: "Total SSE events published",
		},
		[]string{"type"},
	)

	playbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hannaterm_playbacks_total",
			Help: "Total media playback requests",
		},
		[]string{"kind", "status"},
	)

	// Snapshot metrics
	snapshotOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hannaterm_snapshot_operation_duration_seconds",
			Help:    "Snapshot store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	snapshotOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hannaterm_snapshot_operations_total",
			Help: "Total snapshot store operations",
		},
		[]string{"backend", "operation", "status"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCommand records a dispatched command by outcome (ok, error,
// unknown). Unknown command names are folded into one label value to keep
// cardinality bounded.
func RecordCommand(name, status string) {
	if status == "unknown" {
		name = "unknown"
	}
	commandsTotal.WithLabelValues(name, status).Inc()
}

// SetVFSTreeSize sets the node count of a session tree.
func SetVFSTreeSize(size int) {
	vfsTreeSize.Set(float64(size))
}

// RecordAuthAttempt records a login attempt by result
// (success, unknown_user, incorrect_password, locked).
func RecordAuthAttempt(result string) {
	authAttemptsTotal.WithLabelValues(result).Inc()
}

// RecordLockout records an account crossing the failed attempt limit.
func RecordLockout() {
	accountLockoutsTotal.Inc()
}

// SetSessionsActive sets the number of live sessions.
func SetSessionsActive(count int) {
	sessionsActive.Set(float64(count))
}

// RecordSessionCreated counts a new session.
func RecordSessionCreated() {
	sessionsCreatedTotal.Inc()
}

// SetSSEConnectionsActive sets the number of active SSE connections.
func SetSSEConnectionsActive(count int64) {
	sseConnectionsActive.Set(float64(count))
}

// RecordSSEEvent records an SSE event publication.
func RecordSSEEvent(eventType string) {
	sseEventsTotal.WithLabelValues(eventType).Inc()
}

// RecordPlayback records a media playback request (kind is "file" or "url").
func RecordPlayback(kind string, success bool) {
	playbacksTotal.WithLabelValues(kind, statusLabel(success)).Inc()
}

// RecordSnapshotOperation records a snapshot store operation.
func RecordSnapshotOperation(backend, operation string, duration time.Duration, success bool) {
	snapshotOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
	snapshotOperationsTotal.WithLabelValues(backend, operation, statusLabel(success)).Inc()
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// routeLabel returns the matched route template so path parameters do not
// create new label values.
func routeLabel(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

// Middleware records request metrics. Install it with mux.Router.Use so
// the route template is known.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		RecordHTTPRequest(r.Method, routeLabel(r), rw.statusCode, time.Since(start))
	})
}
