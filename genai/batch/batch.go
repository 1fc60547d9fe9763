package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/viant/convsim/genai/orchestrator"
	"github.com/viant/convsim/genai/persona"
	"github.com/viant/convsim/genai/transcript"
	"github.com/viant/convsim/genai/usage"
	"github.com/viant/convsim/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// DefaultResponder is used when a request names no Responder template.
const DefaultResponder = "homedepot"

// Request selects templates and run parameters for a batch.
type Request struct {
	Initiators  []string `json:"user_agents,omitempty" yaml:"user_agents,omitempty"`
	Responder   string   `json:"chat_agent,omitempty" yaml:"chat_agent,omitempty"`
	ModelID     string   `json:"model,omitempty" yaml:"model,omitempty"`
	MaxTurns    int      `json:"max_turns,omitempty" yaml:"max_turns,omitempty"`
	Opening     string   `json:"initial_message,omitempty" yaml:"initial_message,omitempty"`
	Concurrency int      `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
}

// Report aggregates a batch.
type Report struct {
	BatchID        string                          `json:"batch_id"`
	BatchDir       string                          `json:"batch_dir"`
	TotalRuns      int                             `json:"total_runs"`
	SuccessfulRuns int                             `json:"successful_runs"`
	TotalTurns     int                             `json:"total_turns"`
	Results        map[string]*orchestrator.Result `json:"results"`
	Usage          map[string]usage.Stat           `json:"usage,omitempty"`
	Elapsed        string                          `json:"elapsed"`
}

type entry struct {
	key    string
	result *orchestrator.Result
}

// Runner executes isolated simulations, one per Initiator template, against one Responder template.
type Runner struct {
	registry    *persona.Registry
	store       *transcript.Store
	modelID     string
	concurrency int
	options     []orchestrator.Option
	now         func() time.Time
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

// Run validates the selection, runs every simulation and moves transcripts into one batch directory.
// A failed simulation is reported in its entry and never cancels the others.
func (r *Runner) Run(ctx context.Context, request *Request) (*Report, error) {
	if request == nil {
		request = &Request{}
	}
	keys := unique(request.Initiators)
	if len(keys) == 0 {
		keys = r.registry.InitiatorKeys()
	}
	responderKey := request.Responder
	if responderKey == "" {
		responderKey = DefaultResponder
	}
	if err := r.registry.Validate(keys, responderKey); err != nil {
		return nil, err
	}
	modelID := request.ModelID
	if modelID == "" {
		modelID = r.modelID
	}
	started := r.now()
	report := &Report{
		BatchID:  uuid.New().String(),
		BatchDir: r.store.BatchDir(started),
		Results:  make(map[string]*orchestrator.Result, len(keys)),
	}
	if r.metrics != nil {
		r.metrics.BatchesTotal.Inc()
	}
	r.logger.Info().Str("batch", report.BatchID).Int("runs", len(keys)).Str("responder", responderKey).Str("dir", report.BatchDir).Msg("starting batch")

	limit := request.Concurrency
	if limit <= 0 {
		limit = r.concurrency
	}
	if limit <= 0 || limit > len(keys) {
		limit = len(keys)
	}
	sink := make(chan entry, len(keys))
	group := errgroup.Group{}
	group.SetLimit(limit)
	for _, key := range keys {
		group.Go(func() error {
			sink <- entry{key: key, result: r.runOne(ctx, key, responderKey, modelID, request, report.BatchDir)}
			return nil
		})
	}
	_ = group.Wait()
	close(sink)

	for item := range sink {
		report.Results[item.key] = item.result
		report.TotalRuns++
		report.TotalTurns += item.result.TurnCount
		if item.result.Success {
			report.SuccessfulRuns++
		}
		for model, stat := range item.result.Usage {
			if report.Usage == nil {
				report.Usage = map[string]usage.Stat{}
			}
			total := report.Usage[model]
			total.Calls += stat.Calls
			total.PromptTokens += stat.PromptTokens
			total.CompletionTokens += stat.CompletionTokens
			total.CachedTokens += stat.CachedTokens
			report.Usage[model] = total
		}
	}
	report.Elapsed = r.now().Sub(started).String()
	r.logger.Info().Str("batch", report.BatchID).Int("successful", report.SuccessfulRuns).Int("total", report.TotalRuns).Int("turns", report.TotalTurns).Msg("batch completed")
	return report, nil
}

func (r *Runner) runOne(ctx context.Context, key, responderKey, modelID string, request *Request, batchDir string) *orchestrator.Result {
	failed := func(message string, err error) *orchestrator.Result {
		r.logger.Error().Str("initiator", key).Err(err).Msg(message)
		return &orchestrator.Result{Success: false, Message: message, InitiatorID: key, State: orchestrator.StateAborted, Error: err.Error()}
	}
	initiator, err := r.registry.NewInitiator(ctx, key, modelID)
	if err != nil {
		return failed("failed to create user agent", err)
	}
	responder, err := r.registry.NewResponder(ctx, responderKey, modelID)
	if err != nil {
		return failed("failed to create chat agent", err)
	}
	options := append([]orchestrator.Option{}, r.options...)
	options = append(options,
		orchestrator.WithStore(r.store),
		orchestrator.WithMaxTurns(request.MaxTurns),
		orchestrator.WithOpening(request.Opening),
		orchestrator.WithMetrics(r.metrics),
		orchestrator.WithLogger(r.logger),
	)
	result := orchestrator.New(initiator, responder, options...).Run(ctx)
	if result.SavedPath == nil {
		return result
	}
	moved, err := r.store.Move(context.WithoutCancel(ctx), *result.SavedPath, batchDir)
	if err != nil {
		result.Success = false
		result.Error = err.Error()
		result.Message = fmt.Sprintf("failed to move transcript into %v", batchDir)
		return result
	}
	result.SavedPath = &moved
	return result
}

func unique(keys []string) []string {
	seen := map[string]bool{}
	var result []string
	for _, key := range keys {
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, key)
	}
	return result
}

// New creates a batch runner.
func New(registry *persona.Registry, store *transcript.Store, options ...Option) *Runner {
	ret := &Runner{
		registry: registry,
		store:    store,
		now:      time.Now,
		logger:   zerolog.Nop(),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}
