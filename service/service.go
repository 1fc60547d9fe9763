package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/viant/convsim/genai/batch"
	"github.com/viant/convsim/genai/completion"
	"github.com/viant/convsim/genai/judge"
	"github.com/viant/convsim/genai/orchestrator"
	"github.com/viant/convsim/genai/persona"
	"github.com/viant/convsim/genai/transcript"
	"github.com/viant/convsim/internal/config"
	"github.com/viant/convsim/internal/log"
	"github.com/viant/convsim/internal/metrics"
)

// ErrNotFound is returned for unknown simulation IDs.
var ErrNotFound = errors.New("simulation not found")

// Options configures behaviour of Service.
type Options struct {
	Config    *config.Config
	Completer completion.Completer
	// Judge evaluates transcripts; nil disables evaluation.
	Judge     *judge.Judge
	Registry  *persona.Registry
	Store     *transcript.Store
	Metrics   *metrics.Metrics
	Collector *log.Collector
	Logger    zerolog.Logger
}

// Service exposes simulator operations decoupled from any particular user interface.
type Service struct {
	opts   Options
	runner *batch.Runner
	runs   sync.Map // run ID -> *orchestrator.Orchestrator
	wg     sync.WaitGroup
}

// SimulationRequest selects templates and parameters for one simulation.
type SimulationRequest struct {
	Initiator string `json:"user_agent"`
	Responder string `json:"chat_agent,omitempty"`
	ModelID   string `json:"model,omitempty"`
	MaxTurns  int    `json:"max_turns,omitempty"`
	DelayMs   *int   `json:"delay_ms,omitempty"`
	Opening   string `json:"initial_message,omitempty"`
	FileName  string `json:"filename,omitempty"`
	// Async returns right after start; the run is tracked until it finishes.
	Async bool `json:"async,omitempty"`
}

// Config returns the effective configuration.
func (s *Service) Config() *config.Config {
	return s.opts.Config
}

// Simulate runs a simulation to completion.
func (s *Service) Simulate(ctx context.Context, request *SimulationRequest) (*orchestrator.Result, error) {
	runner, err := s.newOrchestrator(ctx, request)
	if err != nil {
		return nil, err
	}
	s.runs.Store(runner.ID(), runner)
	defer s.runs.Delete(runner.ID())
	return runner.Run(ctx), nil
}

// Start launches a simulation in the background and returns its running status.
// The run outlives ctx cancellation; use Stop to end it.
func (s *Service) Start(ctx context.Context, request *SimulationRequest) (*orchestrator.Status, error) {
	runner, err := s.newOrchestrator(ctx, request)
	if err != nil {
		return nil, err
	}
	if err = runner.Begin(); err != nil {
		return nil, err
	}
	s.runs.Store(runner.ID(), runner)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.runs.Delete(runner.ID())
		result := runner.Run(context.WithoutCancel(ctx))
		s.opts.Logger.Info().Str("run", result.RunID).Bool("success", result.Success).Int("turns", result.TurnCount).Msg(result.Message)
	}()
	return runner.Status(), nil
}

// Simulations lists tracked simulations ordered by run ID.
func (s *Service) Simulations() []*orchestrator.Status {
	var result = make([]*orchestrator.Status, 0)
	s.runs.Range(func(key, value any) bool {
		result = append(result, value.(*orchestrator.Orchestrator).Status())
		return true
	})
	sort.Slice(result, func(i, j int) bool { return result[i].RunID < result[j].RunID })
	return result
}

// Stop requests a tracked simulation to end after its current turn.
func (s *Service) Stop(id string) (*orchestrator.Status, error) {
	value, ok := s.runs.Load(id)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, id)
	}
	runner := value.(*orchestrator.Orchestrator)
	runner.Stop()
	return runner.Status(), nil
}

// Wait blocks until background simulations finish.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Batch runs one simulation per selected Initiator template.
func (s *Service) Batch(ctx context.Context, request *batch.Request) (*batch.Report, error) {
	return s.runner.Run(ctx, request)
}

// Transcripts lists saved transcripts under dir, relative to the output URL.
func (s *Service) Transcripts(ctx context.Context, dir string) ([]string, error) {
	return s.opts.Store.List(ctx, dir)
}

// Transcript loads a saved transcript.
func (s *Service) Transcript(ctx context.Context, URL string) (*transcript.Record, error) {
	return s.opts.Store.Load(ctx, URL)
}

// Judge evaluates a saved transcript.
func (s *Service) Judge(ctx context.Context, URL string) (*judge.Verdict, error) {
	if s.opts.Judge == nil {
		return nil, fmt.Errorf("judge model: %w", completion.ErrProviderUnavailable)
	}
	record, err := s.opts.Store.Load(ctx, URL)
	if err != nil {
		return nil, err
	}
	verdict, err := s.opts.Judge.Evaluate(ctx, record)
	if err != nil {
		return nil, err
	}
	verdict.Source = URL
	return verdict, nil
}

// Templates lists registered persona templates.
func (s *Service) Templates() *Templates {
	return &Templates{Initiators: s.opts.Registry.Initiators(), Responders: s.opts.Registry.Responders()}
}

// Templates groups registered persona templates.
type Templates struct {
	Initiators []persona.InitiatorTemplate `json:"user_agents"`
	Responders []persona.ResponderTemplate `json:"chat_agents"`
}

func (s *Service) newOrchestrator(ctx context.Context, request *SimulationRequest) (*orchestrator.Orchestrator, error) {
	if request == nil || request.Initiator == "" {
		return nil, fmt.Errorf("%w: user_agent was empty", persona.ErrInvalidSelection)
	}
	responderKey := request.Responder
	if responderKey == "" {
		responderKey = batch.DefaultResponder
	}
	if err := s.opts.Registry.Validate([]string{request.Initiator}, responderKey); err != nil {
		return nil, err
	}
	modelID := request.ModelID
	if modelID == "" {
		modelID = s.opts.Config.DefaultModel
	}
	initiator, err := s.opts.Registry.NewInitiator(ctx, request.Initiator, modelID)
	if err != nil {
		return nil, err
	}
	responder, err := s.opts.Registry.NewResponder(ctx, responderKey, modelID)
	if err != nil {
		return nil, err
	}
	options := s.orchestratorOptions()
	options = append(options,
		orchestrator.WithStore(s.opts.Store),
		orchestrator.WithMaxTurns(request.MaxTurns),
		orchestrator.WithOpening(request.Opening),
		orchestrator.WithFileName(request.FileName),
	)
	if request.DelayMs != nil {
		options = append(options, orchestrator.WithDelay(time.Duration(*request.DelayMs)*time.Millisecond))
	}
	return orchestrator.New(initiator, responder, options...), nil
}

// orchestratorOptions maps configuration to options shared by single and batch runs.
func (s *Service) orchestratorOptions() []orchestrator.Option {
	simulation := s.opts.Config.Simulation
	return []orchestrator.Option{
		orchestrator.WithMaxTurns(simulation.MaxTurns),
		orchestrator.WithDelay(simulation.Delay()),
		orchestrator.WithBootstrap(simulation.BootstrapMessage),
		orchestrator.WithPolicy(orchestrator.NewPhrasePolicy(simulation.ClosingPhrases...)),
		orchestrator.WithLogger(s.opts.Logger),
		orchestrator.WithMetrics(s.opts.Metrics),
		orchestrator.WithCollector(s.opts.Collector),
	}
}

// New returns a Service over the supplied collaborators.
func New(opts Options) *Service {
	if opts.Config == nil {
		opts.Config = &config.Config{}
		opts.Config.Init()
	}
	if opts.Registry == nil {
		opts.Registry = persona.NewRegistry(nil, opts.Completer)
	}
	if opts.Store == nil {
		opts.Store = transcript.New(opts.Config.OutputURL)
	}
	ret := &Service{opts: opts}
	ret.runner = batch.New(opts.Registry, opts.Store,
		batch.WithModel(opts.Config.DefaultModel),
		batch.WithConcurrency(opts.Config.Batch.Concurrency),
		batch.WithLogger(opts.Logger),
		batch.WithMetrics(opts.Metrics),
		batch.WithOrchestratorOptions(ret.orchestratorOptions()...),
	)
	return ret
}
