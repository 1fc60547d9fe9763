package orchestrator

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/viant/convsim/internal/log"
	"github.com/viant/convsim/internal/metrics"
)

const (
	DefaultMaxTurns  = 10
	DefaultDelay     = time.Second
	DefaultBootstrap = "Hello, I need some help."
)

// Option customises an Orchestrator.
type Option func(o *Orchestrator)

// WithMaxTurns sets the turn budget; non positive values keep the default.
func WithMaxTurns(maxTurns int) Option {
	return func(o *Orchestrator) {
		if maxTurns > 0 {
			o.maxTurns = maxTurns
		}
	}
}

// WithDelay sets the pause before every generated turn.
func WithDelay(delay time.Duration) Option {
	return func(o *Orchestrator) {
		if delay >= 0 {
			o.delay = delay
		}
	}
}

// WithOpening sets an explicit opening utterance spoken by the Responder.
func WithOpening(opening string) Option {
	return func(o *Orchestrator) {
		o.opening = opening
	}
}

// WithBootstrap sets the message the Initiator answers when nobody opens.
func WithBootstrap(message string) Option {
	return func(o *Orchestrator) {
		if message != "" {
			o.bootstrap = message
		}
	}
}

// WithPolicy sets the termination policy.
func WithPolicy(policy Policy) Option {
	return func(o *Orchestrator) {
		if policy != nil {
			o.policy = policy
		}
	}
}

// WithStore sets the transcript store; without one transcripts are not persisted.
func WithStore(store Store) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithFileName sets the transcript file name.
func WithFileName(name string) Option {
	return func(o *Orchestrator) {
		o.fileName = name
	}
}

// WithID sets the run ID.
func WithID(id string) Option {
	return func(o *Orchestrator) {
		if id != "" {
			o.id = id
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = log.Component(logger, "orchestrator")
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// WithCollector sets the event collector.
func WithCollector(collector *log.Collector) Option {
	return func(o *Orchestrator) {
		if collector != nil {
			o.collector = collector
		}
	}
}

// WithClock sets the clock used for the opening turn timestamp.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}
