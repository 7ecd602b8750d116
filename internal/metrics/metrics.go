package metrics

import (
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_admin_api_requests_total",
			Help: "Total number of requests sent to the market API.",
		},
		[]string{"code", "method", "path"},
	)
	apiRequestsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "market_admin_api_request_duration_seconds",
			Help:    "Duration of market API requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	apiRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "market_admin_api_requests_in_flight",
			Help: "Current number of market API requests waiting for a response.",
		},
	)
)

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

var numericSegment = regexp.MustCompile(`/\d+(/|$)`)

// PathPattern collapses numeric path segments so ids do not explode label cardinality.
func PathPattern(path string) string {
	return numericSegment.ReplaceAllString(path, "/{id}$1")
}

// Transport records count, latency and in-flight requests for every call
// made through next. Transport failures are counted with code "error".
func Transport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return middleware.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {

		start := time.Now()
		apiRequestsInFlight.Inc()

		pathPattern := PathPattern(r.URL.Path)
		code := "error"

		defer func() {

			apiRequestsTotal.WithLabelValues(code, r.Method, pathPattern).Inc()
			apiRequestsDuration.WithLabelValues(r.Method, pathPattern).Observe(time.Since(start).Seconds())
			apiRequestsInFlight.Dec()

		}()

		resp, err := next.RoundTrip(r)
		if err != nil {
			return nil, err
		}

		code = strconv.Itoa(resp.StatusCode)

		return resp, nil
	})
}

// http.Handler for the Prometheus /metrics endpoint
func Handler() http.Handler {

	return promhttp.Handler()
}
