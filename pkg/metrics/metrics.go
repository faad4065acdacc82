// Package metrics holds the prometheus collectors of the service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry application collectors
	Registry = prometheus.NewRegistry()

	signerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "curatoor",
			Subsystem: "signer",
			Name:      "requests_total",
			Help:      "Total number of signer keypairs issued.",
		},
		[]string{"result"},
	)

	signerConfirmations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "curatoor",
			Subsystem: "signer",
			Name:      "confirmations_total",
			Help:      "Total number of signer confirmation attempts by outcome.",
		},
		[]string{"outcome"},
	)

	hubPollDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "curatoor",
			Subsystem: "hub",
			Name:      "poll_duration_seconds",
			Help:      "Time spent waiting for a signer approval on the hub.",
			Buckets:   prometheus.LinearBuckets(0, 5, 13), // 0s to 60s
		},
		[]string{"outcome"},
	)

	hubPollAttempts = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "curatoor",
			Subsystem: "hub",
			Name:      "poll_attempts",
			Help:      "Hub queries issued per confirmation.",
			Buckets:   prometheus.LinearBuckets(1, 2, 16),
		},
	)
)

func init() {
	Registry.MustRegister(
		signerRequests,
		signerConfirmations,
		hubPollDuration,
		hubPollAttempts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler expose the registry
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordSignerRequest count an issuance attempt
func RecordSignerRequest(result string) {
	signerRequests.WithLabelValues(result).Inc()
}

// RecordConfirmation count a confirmation outcome
func RecordConfirmation(outcome string) {
	signerConfirmations.WithLabelValues(outcome).Inc()
}

// RecordHubPoll observe one bounded hub wait
func RecordHubPoll(outcome string, attempts int, elapsed time.Duration) {
	hubPollDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	hubPollAttempts.Observe(float64(attempts))
}
