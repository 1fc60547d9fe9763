package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/viant/convsim/genai/conversation"
	"github.com/viant/convsim/genai/persona"
	"github.com/viant/convsim/genai/transcript"
	"github.com/viant/convsim/genai/usage"
	"github.com/viant/convsim/internal/log"
	"github.com/viant/convsim/internal/metrics"
)

// ErrAlreadyStarted is returned when Run is called more than once.
var ErrAlreadyStarted = errors.New("orchestrator already started")

// Store persists a finished conversation.
type Store interface {
	Save(ctx context.Context, turns []conversation.Turn, metadata *transcript.Metadata, fileName string) (string, error)
}

// Orchestrator drives turn taking between one Initiator and one Responder.
// A single instance runs at most once.
type Orchestrator struct {
	id        string
	initiator *persona.Initiator
	responder *persona.Responder

	maxTurns  int
	delay     time.Duration
	opening   string
	bootstrap string
	fileName  string
	policy    Policy
	store     Store

	logger    zerolog.Logger
	metrics   *metrics.Metrics
	collector *log.Collector
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error

	mux           sync.RWMutex
	state         State
	active        bool
	started       bool
	stopRequested bool
	turnCount     int
}

// ID returns the run ID.
func (o *Orchestrator) ID() string {
	return o.id
}

// Run executes the conversation until the turn budget is spent, the
// termination policy fires, a generation fails or Stop is called. The
// accumulated history is persisted on every exit except a failed first turn.
func (o *Orchestrator) Run(ctx context.Context) *Result {
	o.mux.Lock()
	if o.started || (o.state != StateIdle && o.state != StateRunning) {
		state := o.state
		o.mux.Unlock()
		return &Result{RunID: o.id, Message: ErrAlreadyStarted.Error(), Error: ErrAlreadyStarted.Error(), State: state, InitiatorID: o.initiator.ID, ResponderID: o.responder.ID}
	}
	o.started = true
	o.begin()
	o.mux.Unlock()

	ctx = conversation.WithID(ctx, o.id)
	ctx, agg := usage.WithAggregator(ctx)
	if o.metrics != nil {
		o.metrics.SimulationsActive.Inc()
		defer o.metrics.SimulationsActive.Dec()
	}
	o.collector.Publish(log.NewEvent(log.RunStart, &Status{RunID: o.id, State: StateRunning, Active: o.isActive(), Initiator: o.initiator.ID, Responder: o.responder.ID}))
	o.logger.Info().Str("run", o.id).Str("initiator", o.initiator.ID).Str("responder", o.responder.ID).Int("maxTurns", o.maxTurns).Msg("starting conversation")

	history := o.initiator.History()
	lastMessage := o.opening
	if lastMessage == "" {
		lastMessage = o.responder.Greeting()
	}
	if lastMessage == "" && !o.isActive() {
		o.finish(StateCompleted)
		result := o.result(history, true, "Conversation stopped", nil, nil, agg)
		o.complete(result)
		return result
	}
	if lastMessage != "" {
		opening := conversation.NewTurn(conversation.SpeakerResponder, lastMessage, o.now(), 0)
		history.Append(*opening)
		o.publishTurn(opening, history.Len()-1)
	} else {
		turn, err := o.initiator.Respond(ctx, o.bootstrap)
		if err != nil {
			o.finish(StateAborted)
			result := o.result(history, false, "Failed to generate initial user message", nil, err, agg)
			o.complete(result)
			return result
		}
		o.recordTurn(turn, history.Len()-1)
		lastMessage = turn.Message
		o.incTurn(1)
	}

	var runErr error
	message := "Conversation completed successfully"
	for o.isActive() && o.TurnCount() < o.maxTurns {
		if runErr = o.sleep(ctx, o.delay); runErr != nil {
			break
		}
		if o.TurnCount()%2 == 1 {
			turn, err := o.responder.Respond(ctx, lastMessage, history.Turns())
			if err != nil {
				runErr = err
				break
			}
			history.Append(*turn)
			o.recordTurn(turn, history.Len()-1)
			lastMessage = turn.Message
			o.incTurn(1)
			continue
		}
		turn, err := o.initiator.Respond(ctx, lastMessage)
		if err != nil {
			runErr = err
			break
		}
		o.recordTurn(turn, history.Len()-1)
		lastMessage = turn.Message
		o.incTurn(1)
		if o.policy.ShouldEnd(turn.Message) {
			message = "Conversation ended naturally"
			runErr = o.close(ctx, lastMessage, history)
			break
		}
	}

	state := StateCompleted
	if runErr != nil {
		state = StateAborted
		message = "Conversation aborted: " + runErr.Error()
		o.logger.Warn().Str("run", o.id).Int("turns", o.TurnCount()).Err(runErr).Msg("conversation aborted")
	} else if !o.isActive() {
		message = "Conversation stopped"
	}
	o.finish(state)

	var savedPath *string
	if o.store != nil && history.Len() > 0 {
		URL, err := o.store.Save(context.WithoutCancel(ctx), history.Turns(), o.initiator.Metadata(), o.fileName)
		if err != nil {
			o.logger.Error().Str("run", o.id).Err(err).Msg("failed to save conversation")
			if o.metrics != nil {
				o.metrics.PersistenceFailure.Inc()
			}
			if runErr == nil {
				runErr = err
				message = "Failed to save conversation: " + err.Error()
			}
		} else {
			savedPath = &URL
			if o.metrics != nil {
				o.metrics.TranscriptsSaved.Inc()
			}
		}
	}
	result := o.result(history, runErr == nil, message, savedPath, runErr, agg)
	o.complete(result)
	return result
}

// close generates the single Responder reply that follows a closing Initiator message.
func (o *Orchestrator) close(ctx context.Context, lastMessage string, history *conversation.History) error {
	if err := o.sleep(ctx, o.delay); err != nil {
		return err
	}
	turn, err := o.responder.Respond(ctx, lastMessage, history.Turns())
	if err != nil {
		return err
	}
	history.Append(*turn)
	o.recordTurn(turn, history.Len()-1)
	o.incTurn(1)
	return nil
}

// Begin moves an idle orchestrator to Running without starting the loop, so
// callers that run it asynchronously can report a running status at once.
func (o *Orchestrator) Begin() error {
	o.mux.Lock()
	defer o.mux.Unlock()
	if o.state != StateIdle {
		return ErrAlreadyStarted
	}
	o.begin()
	return nil
}

// begin must be called with mux held.
func (o *Orchestrator) begin() {
	if o.state == StateIdle {
		o.state = StateRunning
		o.active = !o.stopRequested
	}
}

// Stop requests the run to end before the next turn. It is honoured even when
// called before Run; an in-flight generation is not interrupted.
func (o *Orchestrator) Stop() {
	o.mux.Lock()
	defer o.mux.Unlock()
	if o.state != StateIdle && o.state != StateRunning {
		return
	}
	if !o.stopRequested {
		o.stopRequested = true
		o.active = false
		o.logger.Info().Str("run", o.id).Str("state", string(o.state)).Msg("conversation stop requested")
	}
}

// State returns the lifecycle state.
func (o *Orchestrator) State() State {
	o.mux.RLock()
	defer o.mux.RUnlock()
	return o.state
}

// TurnCount returns the number of generated turns so far.
func (o *Orchestrator) TurnCount() int {
	o.mux.RLock()
	defer o.mux.RUnlock()
	return o.turnCount
}

// Status reports the current state and history summary.
func (o *Orchestrator) Status() *Status {
	o.mux.RLock()
	state, active, stopping, turns := o.state, o.active, o.stopRequested, o.turnCount
	o.mux.RUnlock()
	return &Status{
		RunID:         o.id,
		State:         state,
		Active:        active,
		StopRequested: stopping,
		Initiator:     o.initiator.ID,
		Responder:     o.responder.ID,
		TurnCount:     turns,
		Summary:       o.initiator.Summary(),
	}
}

func (o *Orchestrator) isActive() bool {
	o.mux.RLock()
	defer o.mux.RUnlock()
	return o.active && !o.stopRequested
}

func (o *Orchestrator) incTurn(delta int) {
	o.mux.Lock()
	o.turnCount += delta
	o.mux.Unlock()
}

func (o *Orchestrator) finish(state State) {
	o.mux.Lock()
	o.state = state
	o.active = false
	o.mux.Unlock()
}

func (o *Orchestrator) recordTurn(turn *conversation.Turn, index int) {
	elapsed := time.Duration(turn.ResponseTime() * float64(time.Second))
	o.metrics.RecordTurn(string(turn.Speaker), elapsed)
	o.logger.Debug().Str("run", o.id).Int("index", index).Str("speaker", string(turn.Speaker)).Str("elapsed", turn.ResponseTimeSeconds).Msg(turn.Message)
	o.publishTurn(turn, index)
}

func (o *Orchestrator) publishTurn(turn *conversation.Turn, index int) {
	o.collector.Publish(log.NewEvent(log.Turn, &TurnEvent{RunID: o.id, Index: index, Turn: *turn}))
}

func (o *Orchestrator) result(history *conversation.History, success bool, message string, savedPath *string, err error, agg *usage.Aggregator) *Result {
	turns := history.Turns()
	result := &Result{
		RunID:       o.id,
		Success:     success,
		Message:     message,
		TurnCount:   o.TurnCount(),
		InitiatorID: o.initiator.ID,
		ResponderID: o.responder.ID,
		Summary:     conversation.Summarize(turns),
		SavedPath:   savedPath,
		Timing:      conversation.ComputeTiming(turns),
		State:       o.State(),
		Usage:       agg.Snapshot(),
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

func (o *Orchestrator) complete(result *Result) {
	o.metrics.RecordSimulation(o.initiator.ID, result.Success)
	o.collector.Publish(log.NewEvent(log.RunEnd, result))
	o.logger.Info().Str("run", o.id).Bool("success", result.Success).Int("turns", result.TurnCount).Str("state", string(result.State)).Msg(result.Message)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("conversation interrupted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

// New creates an orchestrator for one Initiator and Responder pair.
func New(initiator *persona.Initiator, responder *persona.Responder, options ...Option) *Orchestrator {
	ret := &Orchestrator{
		id:        uuid.New().String(),
		initiator: initiator,
		responder: responder,
		maxTurns:  DefaultMaxTurns,
		delay:     DefaultDelay,
		bootstrap: DefaultBootstrap,
		policy:    NewPhrasePolicy(),
		logger:    zerolog.Nop(),
		collector: log.Default,
		now:       time.Now,
		sleep:     sleepContext,
		state:     StateIdle,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}
