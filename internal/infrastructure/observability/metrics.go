package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	ServiceName string
}

// InitMetrics initializes the Prometheus metrics exporter.
// Returns the MeterProvider and an HTTP handler for the /metrics endpoint.
func InitMetrics(_ MetricsConfig) (*sdkmetric.MeterProvider, http.Handler, error) {
	exporter, err := promexporter.New()
	if err != nil {
		return nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)

	return provider, promhttp.Handler(), nil
}

var (
	// VerificationsTotal counts completed verification runs by artifact kind
	// and resulting risk label.
	VerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trustcheck_verifications_total",
		Help: "Completed verification runs by artifact kind and risk label.",
	}, []string{"kind", "label"})

	// ProviderFailuresTotal counts signal provider failures by source.
	ProviderFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trustcheck_provider_failures_total",
		Help: "Signal provider failures by evidence source.",
	}, []string{"source"})

	// ProviderCallDuration observes provider call latency by source.
	ProviderCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trustcheck_provider_call_duration_seconds",
		Help:    "Signal provider call latency by evidence source.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
)

// ObserveProviderCall records one provider call's duration and outcome.
func ObserveProviderCall(source string, start time.Time, err error) {
	ProviderCallDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil {
		ProviderFailuresTotal.WithLabelValues(source).Inc()
	}
}
