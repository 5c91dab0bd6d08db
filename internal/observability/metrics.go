package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the dialog core. Stage names match the state machine nodes
// (router, support, qualifier, agent).
var (
	TurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insuragent_turns_total",
		Help: "Conversation turns processed, labeled by the dialog state after the turn.",
	}, []string{"dialog_state"})

	StageRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insuragent_stage_runs_total",
		Help: "Dialog stage executions.",
	}, []string{"stage"})

	TurnErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insuragent_turn_errors_total",
		Help: "Turns that failed before commit, labeled by error kind.",
	}, []string{"kind"})

	TurnDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "insuragent_turn_duration_seconds",
		Help:    "Wall time of a full load-process-persist turn.",
		Buckets: prometheus.DefBuckets,
	})
)
