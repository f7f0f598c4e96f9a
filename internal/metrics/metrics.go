package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "calgapt_http_requests_total",
		Help: "Total number of HTTP requests processed.",
	}, []string{"method", "route"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "calgapt_http_request_duration_seconds",
		Help:    "Histogram of latencies for HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	caldavRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "calgapt_caldav_operations_total",
		Help: "Total number of CalDAV operations by outcome.",
	}, []string{"operation", "outcome"})

	caldavLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "calgapt_caldav_latency_seconds",
		Help:    "Histogram of CalDAV operation latencies.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)

// Middleware records request counts and latencies per route template.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routePattern(r)
			httpRequestsTotal.WithLabelValues(r.Method, route).Inc()
			httpRequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
		})
	}
}

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveCalDav records the outcome and latency of a CalDAV operation such as
// "probe", "publish" or "discover". outcome is "ok" or an error kind.
func ObserveCalDav(operation, outcome string, start time.Time) {
	caldavRequestsTotal.WithLabelValues(operation, outcome).Inc()
	caldavLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func routePattern(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
