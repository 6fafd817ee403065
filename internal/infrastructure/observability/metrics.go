package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all application metrics.
type Metrics struct {
	// Provider call metrics
	ProviderCallsTotal   *prometheus.CounterVec
	ProviderCallDuration *prometheus.HistogramVec

	// Business metrics
	OnboardingLinksTotal *prometheus.CounterVec
	PaymentsTotal        *prometheus.CounterVec
	PlatformFeeAmount    *prometheus.HistogramVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all metrics against the given registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		ProviderCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_calls_total",
				Help:      "Total number of external provider calls by provider, operation and outcome",
			},
			[]string{"provider", "operation", "outcome"},
		),
		ProviderCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_call_duration_seconds",
				Help:      "External provider call duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"provider", "operation"},
		),
		OnboardingLinksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "onboarding_links_total",
				Help:      "Total number of onboarding links created by account model",
			},
			[]string{"model"},
		),
		PaymentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payments_total",
				Help:      "Total number of funds-movement attempts by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		PlatformFeeAmount: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "platform_fee_minor_units",
				Help:      "Computed platform fee in minor currency units",
				Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
			},
			[]string{"currency"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}

	reg.MustRegister(
		m.ProviderCallsTotal,
		m.ProviderCallDuration,
		m.OnboardingLinksTotal,
		m.PaymentsTotal,
		m.PlatformFeeAmount,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)

	return m
}
