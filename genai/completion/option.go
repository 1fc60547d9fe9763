package completion

import (
	"github.com/rs/zerolog"
	"github.com/viant/convsim/internal/log"
)

// Option customises a Service.
type Option func(s *Service)

// WithLogger sets the service logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = log.Component(logger, "completion")
	}
}

// WithCollector sets the event collector.
func WithCollector(collector *log.Collector) Option {
	return func(s *Service) {
		if collector != nil {
			s.collector = collector
		}
	}
}

// WithTemperature sets sampling temperature for every request.
func WithTemperature(temperature float64) Option {
	return func(s *Service) {
		s.options.Temperature = temperature
	}
}

// WithMaxTokens caps generated tokens for every request.
func WithMaxTokens(maxTokens int) Option {
	return func(s *Service) {
		s.options.MaxTokens = maxTokens
	}
}

// WithJSONMode requests JSON output for every request.
func WithJSONMode() Option {
	return func(s *Service) {
		s.options.JSONMode = true
	}
}
