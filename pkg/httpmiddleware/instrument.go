package httpmiddleware

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Instrument traces requests and records HTTP server metrics.
func Instrument(operation string, tp trace.TracerProvider, mp metric.MeterProvider) Middleware {
	return otelhttp.NewMiddleware(operation,
		otelhttp.WithTracerProvider(tp),
		otelhttp.WithMeterProvider(mp),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/livez" && r.URL.Path != "/readyz"
		}),
	)
}
