package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type Server interface {
	Run() error
	Shutdown(ctx context.Context) error
}

type ServerOpts struct {
	Addr           string
	AllowedOrigins []string
}

var _ Server = (*StandardServer)(nil)

type StandardServer struct {
	server *http.Server
}

func (s *StandardServer) Run() error {
	slog.Info("http server listening", slog.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *StandardServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *StandardServer) Handler() http.Handler {
	return s.server.Handler
}

func NewServer(opts ServerOpts, controllers ...Controller) (*StandardServer, error) {
	router := http.NewServeMux()

	c := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
		},
		AllowCredentials: false,
		MaxAge:           300,
	})

	metricsMiddleware, err := MetricsMiddleware()
	if err != nil {
		return nil, err
	}
	tracingMiddleware := createTracingMiddleware()

	router.Handle("GET /healthz", getHealthz())
	router.Handle("GET /metrics", promhttp.Handler())

	for _, controller := range controllers {
		controller.AddRoutes(router)
	}

	return &StandardServer{
		server: &http.Server{
			Addr:              opts.Addr,
			Handler:           c.Handler(metricsMiddleware(tracingMiddleware(router))),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func createTracingMiddleware() func(http.Handler) http.Handler {
	propagator := b3.New()
	tracer := otel.Tracer(_meterName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			ctx, span := tracer.Start(ctx, "http.request",
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.url", r.URL.String()),
					attribute.String("http.user_agent", r.UserAgent()),
					attribute.String("http.remote_addr", r.RemoteAddr),
				),
			)
			defer span.End()

			propagator.Inject(ctx, propagation.HeaderCarrier(w.Header()))

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r.WithContext(ctx))

			span.SetAttributes(attribute.Int("http.status_code", wrapped.statusCode))
		})
	}
}

func getHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		GetSpanFromContext(r).SetAttributes(attribute.String("endpoint", "healthz"))
		ReplyJSONResponse(w, http.StatusOK, map[string]string{"status": "success"})
	}
}
