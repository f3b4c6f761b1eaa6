// Package observability provides the Prometheus scrape endpoint, health
// handlers, and OTel metric instruments for the collector.
package observability

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const (
	healthStatusOK          = "ok"
	healthStatusUnavailable = "unavailable"

	meterName = "statscollector"
)

// ReadyCheck reports whether a subsystem is ready. Nil means ready.
type ReadyCheck func(ctx context.Context) error

// HealthHandler serves liveness checks: always HTTP 200 {"status":"ok"}.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		writeHealthJSON(rw, http.StatusOK, healthStatusOK)
	})
}

// ReadyHandler serves readiness checks. If any check fails it answers
// HTTP 503 {"status":"unavailable"}; otherwise HTTP 200 {"status":"ok"}.
func ReadyHandler(checks ...ReadyCheck) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		for _, check := range checks {
			err := check(hr.Context())
			if err != nil {
				writeHealthJSON(rw, http.StatusServiceUnavailable, healthStatusUnavailable)

				return
			}
		}

		writeHealthJSON(rw, http.StatusOK, healthStatusOK)
	})
}

func writeHealthJSON(rw http.ResponseWriter, code int, status string) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(code)

	data, err := json.Marshal(map[string]string{"status": status})
	if err != nil {
		return
	}

	_, _ = rw.Write(data)
}

// NewMetrics creates an independent Prometheus registry with an OTel meter
// feeding it, and returns the scrape handler plus the meter for instrument
// registration. Each call is self-contained, so tests never collide on a
// global registry.
func NewMetrics() (http.Handler, metric.Meter, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return handler, provider.Meter(meterName), nil
}
