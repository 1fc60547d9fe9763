package service

import (
	"github.com/rs/zerolog"
	"github.com/viant/convsim/genai/completion"
	"github.com/viant/convsim/genai/judge"
	"github.com/viant/convsim/genai/persona"
	"github.com/viant/convsim/genai/prompt"
	"github.com/viant/convsim/genai/transcript"
	"github.com/viant/convsim/internal/config"
	modelfinder "github.com/viant/convsim/internal/finder/model"
	"github.com/viant/convsim/internal/log"
	"github.com/viant/convsim/internal/metrics"
)

// NewFromConfig wires providers, personas, storage and metrics from cfg.
func NewFromConfig(cfg *config.Config, logger zerolog.Logger, collector *log.Collector, m *metrics.Metrics) *Service {
	if m == nil {
		m = metrics.New()
	}
	finder := modelfinder.New(
		modelfinder.WithInitial(cfg.Models...),
		modelfinder.WithUsageListener(m.OnUsage),
	)
	completer := completion.New(finder, completion.WithLogger(logger), completion.WithCollector(collector))
	judgeCompleter := completion.New(finder, completion.WithLogger(logger), completion.WithCollector(collector), completion.WithJSONMode())
	return New(Options{
		Config:    cfg,
		Completer: completer,
		Judge:     judge.New(judgeCompleter, cfg.Judge.Model, judge.WithInstructions(cfg.Judge.Instructions), judge.WithLogger(logger)),
		Registry:  persona.NewRegistry(prompt.NewLibrary(cfg.PromptURL), completer, persona.WithLogger(logger)),
		Store:     transcript.New(cfg.OutputURL),
		Metrics:   m,
		Collector: collector,
		Logger:    logger,
	})
}

// Metrics returns the metrics sink.
func (s *Service) Metrics() *metrics.Metrics {
	return s.opts.Metrics
}
