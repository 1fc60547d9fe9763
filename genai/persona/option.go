package persona

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/viant/convsim/internal/log"
)

// Option customises a persona.
type Option func(p *persona)

// WithClock sets the clock used for turn timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *persona) {
		if now != nil {
			p.now = now
		}
	}
}

// WithLogger sets the persona logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *persona) {
		p.logger = log.Component(logger, "persona")
	}
}
