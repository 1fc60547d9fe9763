// Package metrics provides Prometheus metrics for the conversation simulator
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/viant/convsim/genai/llm"
)

// Metrics holds all Prometheus metrics for the simulator
type Metrics struct {
	registry *prometheus.Registry

	// Simulation metrics
	SimulationsTotal  *prometheus.CounterVec
	SimulationsActive prometheus.Gauge
	TurnsTotal        *prometheus.CounterVec
	TurnDuration      *prometheus.HistogramVec

	// Model metrics
	TokensTotal *prometheus.CounterVec

	// Persistence metrics
	TranscriptsSaved   prometheus.Counter
	PersistenceFailure prometheus.Counter

	// Batch metrics
	BatchesTotal prometheus.Counter

	ServerStartTime time.Time
}

// New creates metrics bound to a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	m := &Metrics{registry: registry, ServerStartTime: time.Now()}

	m.SimulationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "convsim_simulations_total",
			Help: "Total number of finished simulations",
		},
		[]string{"agent", "outcome"},
	)
	m.SimulationsActive = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "convsim_simulations_active",
			Help: "Number of simulations currently running",
		},
	)
	m.TurnsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "convsim_turns_total",
			Help: "Total number of generated turns",
		},
		[]string{"speaker"},
	)
	m.TurnDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "convsim_turn_duration_seconds",
			Help:    "Model latency per generated turn",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"speaker"},
	)
	m.TokensTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "convsim_llm_tokens_total",
			Help: "Tokens reported by model providers",
		},
		[]string{"model", "kind"},
	)
	m.TranscriptsSaved = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "convsim_transcripts_saved_total",
			Help: "Total number of persisted transcripts",
		},
	)
	m.PersistenceFailure = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "convsim_transcript_failures_total",
			Help: "Total number of transcript persistence failures",
		},
	)
	m.BatchesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "convsim_batches_total",
			Help: "Total number of executed batches",
		},
	)
	return m
}

// RecordTurn records a generated turn and its latency.
func (m *Metrics) RecordTurn(speaker string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.TurnsTotal.WithLabelValues(speaker).Inc()
	m.TurnDuration.WithLabelValues(speaker).Observe(elapsed.Seconds())
}

// RecordSimulation records a finished simulation outcome.
func (m *Metrics) RecordSimulation(agent string, success bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.SimulationsTotal.WithLabelValues(agent, outcome).Inc()
}

// OnUsage records provider token usage; it conforms to the provider usage listener signature.
func (m *Metrics) OnUsage(model string, usage *llm.Usage) {
	if m == nil || usage == nil {
		return
	}
	m.TokensTotal.WithLabelValues(model, "prompt").Add(float64(usage.PromptTokens))
	m.TokensTotal.WithLabelValues(model, "completion").Add(float64(usage.CompletionTokens))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the metrics in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
