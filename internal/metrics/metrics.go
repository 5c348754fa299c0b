package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Relay metrics.
var (
	MessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parley_messages_total",
		Help: "Inbound messages by platform and kind (text or command)",
	}, []string{"platform", "kind"})

	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parley_rate_limited_total",
		Help: "Messages rejected by the per-user cooldown",
	})

	CompletionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parley_completions_total",
		Help: "Completion calls by outcome",
	}, []string{"outcome"})

	CompletionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "parley_completion_duration_seconds",
		Help:    "Completion call duration in seconds",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30},
	})

	FallbackRepliesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parley_fallback_replies_total",
		Help: "Replies served from the fallback set after a completion failure",
	})
)

// Usage tracker metrics.
var (
	TrackedUsers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "parley_tracked_users",
		Help: "Users currently held by the usage tracker",
	})
)
