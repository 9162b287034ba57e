// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	// ToolCalls counts MCP tool invocations.
	// Labels:
	//   - tool: tool name, or "unknown" for unregistered names
	//   - outcome: "success", "error"
	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gradient_tool_calls_total",
			Help: "Total number of MCP tool calls",
		},
		[]string{"tool", "outcome"},
	)

	// TokenVerifications counts bearer token checks by failure kind
	// ("success" when the token verified).
	TokenVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gradient_token_verifications_total",
			Help: "Total number of bearer token verifications",
		},
		[]string{"outcome"},
	)

	// SessionExchanges counts session token exchanges by failure kind
	// ("success" when a linked profile was returned).
	SessionExchanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gradient_session_exchanges_total",
			Help: "Total number of session token exchanges",
		},
		[]string{"outcome"},
	)

	// SessionExchangeDuration measures identity provider latency.
	SessionExchangeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gradient_session_exchange_duration_seconds",
			Help:    "Duration of session token exchanges in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	// ProfileUpserts counts get-or-create writes.
	ProfileUpserts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gradient_profile_upserts_total",
			Help: "Total number of profile get-or-create writes",
		},
		[]string{"outcome"},
	)
)

// RecordToolCall records one tool dispatch.
func RecordToolCall(tool string, isError bool) {
	ToolCalls.WithLabelValues(tool, outcome(isError)).Inc()
}

// RecordExchange records one session exchange with its latency.
func RecordExchange(result string, d time.Duration) {
	SessionExchanges.WithLabelValues(result).Inc()
	SessionExchangeDuration.Observe(d.Seconds())
}

// RecordUpsert records one profile write.
func RecordUpsert(err error) {
	ProfileUpserts.WithLabelValues(outcome(err != nil)).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func outcome(isError bool) string {
	if isError {
		return OutcomeError
	}
	return OutcomeSuccess
}
