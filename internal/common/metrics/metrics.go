// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_handled_total",
			Help: "Total number of chat messages handled per intent",
		},
		[]string{"intent"},
	)

	HandlerFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_handler_fallbacks_total",
			Help: "Total number of handler soft failures per intent and reason",
		},
		[]string{"intent", "reason"},
	)

	HandlerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "chat_handler_duration_seconds",
			Help: "Duration of intent handler processing in seconds",
		},
		[]string{"intent"},
	)

	AICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_provider_calls_total",
			Help: "Total number of AI provider calls per outcome",
		},
		[]string{"purpose", "outcome"},
	)

	AICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "ai_provider_call_duration_seconds",
			Help: "Duration of AI provider calls in seconds",
		},
		[]string{"purpose"},
	)

	InsightsCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_cache_requests_total",
			Help: "Insights cache lookups per result (hit or miss)",
		},
		[]string{"result"},
	)
)
