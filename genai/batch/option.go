package batch

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/viant/convsim/genai/orchestrator"
	"github.com/viant/convsim/internal/log"
	"github.com/viant/convsim/internal/metrics"
)

// Option customises a Runner.
type Option func(r *Runner)

// WithConcurrency limits simultaneous simulations; zero runs one worker per simulation.
func WithConcurrency(limit int) Option {
	return func(r *Runner) {
		r.concurrency = limit
	}
}

// WithModel sets the default model ID.
func WithModel(modelID string) Option {
	return func(r *Runner) {
		r.modelID = modelID
	}
}

// WithOrchestratorOptions applies options to every simulation.
func WithOrchestratorOptions(options ...orchestrator.Option) Option {
	return func(r *Runner) {
		r.options = append(r.options, options...)
	}
}

// WithClock sets the clock used for the batch directory name.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = log.Component(logger, "batch")
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}
