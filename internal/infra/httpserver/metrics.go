package httpserver

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const _meterName = "filter-module"

type httpMetrics struct {
	duration metric.Float64Histogram
	total    metric.Int64Counter
	active   metric.Int64UpDownCounter
}

var (
	metricsOnce sync.Once
	metrics     *httpMetrics
	metricsErr  error
)

func getHTTPMetrics() (*httpMetrics, error) {
	metricsOnce.Do(func() {
		meter := otel.GetMeterProvider().Meter(_meterName)
		m := &httpMetrics{}

		m.duration, metricsErr = meter.Float64Histogram(
			"filter_module.http.request.duration.seconds",
			metric.WithDescription("Duration of HTTP requests"),
			metric.WithUnit("s"),
			metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
		)
		if metricsErr != nil {
			return
		}

		m.total, metricsErr = meter.Int64Counter(
			"filter_module.http.requests.total",
			metric.WithDescription("Total number of HTTP requests"),
		)
		if metricsErr != nil {
			return
		}

		m.active, metricsErr = meter.Int64UpDownCounter(
			"filter_module.http.requests.active",
			metric.WithDescription("Number of HTTP requests currently being processed"),
		)
		if metricsErr != nil {
			return
		}

		metrics = m
	})

	return metrics, metricsErr
}

// MetricsMiddleware measures request duration, count and concurrency per
// normalized endpoint.
func MetricsMiddleware() (func(http.Handler) http.Handler, error) {
	m, err := getHTTPMetrics()
	if err != nil {
		return nil, fmt.Errorf("creating http metrics: %w", err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			endpoint := normalizeEndpoint(r.URL.Path)
			inFlight := metric.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.endpoint", endpoint),
			)

			m.active.Add(r.Context(), 1, inFlight)
			defer m.active.Add(r.Context(), -1, inFlight)

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			completed := metric.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.endpoint", endpoint),
				attribute.Int("http.status_code", wrapped.statusCode),
			)
			m.duration.Record(r.Context(), time.Since(start).Seconds(), completed)
			m.total.Add(r.Context(), 1, completed)
		})
	}, nil
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrader take over the connection.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, fmt.Errorf("underlying ResponseWriter does not support hijacking")
}

// normalizeEndpoint collapses method names so that /v1/methods/{name} is a
// single series.
func normalizeEndpoint(path string) string {
	if path == "" || path == "/" {
		return "root"
	}

	if rest, ok := strings.CutPrefix(path, "/v1/methods/"); ok && rest != "" {
		return "/v1/methods/_name"
	}

	return path
}
