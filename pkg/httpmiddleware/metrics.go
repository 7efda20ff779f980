package httpmiddleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/sdk/app"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Instrument wraps the handler with OpenTelemetry HTTP spans and metrics
// using the application's tracer and meter providers.
func Instrument(serverName string, m *app.Telemetry) Middleware {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, serverName,
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		)
	}
}

// RequestDuration records a latency histogram per method and status code.
func RequestDuration(m *app.Telemetry) Middleware {
	meter := m.MeterProvider().Meter("httpmiddleware")
	hist, err := meter.Float64Histogram(
		"http.server.duration",
		metric.WithUnit("s"),
		metric.WithDescription("HTTP request duration"),
	)

	return func(next http.Handler) http.Handler {
		if err != nil {
			// Metrics are best-effort; a broken meter never blocks serving.
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			hist.Record(r.Context(), time.Since(start).Seconds(),
				metric.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.status", strconv.Itoa(rec.status)),
				),
			)
		})
	}
}
