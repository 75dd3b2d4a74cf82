package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	contractCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contract_calls_total",
			Help: "Contract calls by contract, function and outcome",
		},
		[]string{"contract", "function", "status"},
	)

	contractCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contract_call_duration_seconds",
			Help:    "Time from dispatch to wallet response",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
		[]string{"function"},
	)

	readFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_api_fetches_total",
			Help: "Events backend fetches by endpoint and result",
		},
		[]string{"endpoint", "result"},
	)

	walletConnects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_connects_total",
			Help: "Wallet connect attempts by outcome",
		},
		[]string{"status"},
	)

	onboardingSteps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_step_transitions_total",
			Help: "Onboarding transitions by target step",
		},
		[]string{"step"},
	)

	httpRequests = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Monitor records application metrics. A nil *Monitor records nothing.
type Monitor struct{}

func NewMonitor() *Monitor {
	return &Monitor{}
}

// Handler exposes the default registry.
func (m *Monitor) Handler() http.Handler {
	return promhttp.Handler()
}

// Track contract call outcome and latency
func (m *Monitor) TrackContractCall(contract, function, status string, d time.Duration) {
	if m == nil {
		return
	}
	contractCalls.WithLabelValues(contract, function, status).Inc()
	contractCallDuration.WithLabelValues(function).Observe(d.Seconds())
}

func (m *Monitor) TrackFetch(endpoint string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	readFetches.WithLabelValues(endpoint, result).Inc()
}

func (m *Monitor) TrackConnect(status string) {
	if m == nil {
		return
	}
	walletConnects.WithLabelValues(status).Inc()
}

func (m *Monitor) TrackStep(step string) {
	if m == nil {
		return
	}
	onboardingSteps.WithLabelValues(step).Inc()
}

func (m *Monitor) TrackRequest(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	httpRequests.WithLabelValues(method, route, status).Observe(d.Seconds())
}
