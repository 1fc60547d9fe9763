package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/convsim/genai/completion"
	"github.com/viant/convsim/genai/conversation"
	"github.com/viant/convsim/genai/llm"
	"github.com/viant/convsim/genai/persona"
	"github.com/viant/convsim/genai/transcript"
	"github.com/viant/convsim/internal/log"
)

// script replies in order; an error entry fails that call.
type script struct {
	mux      sync.Mutex
	replies  []interface{}
	incoming []string
	hook     func(call int)
}

func (s *script) Complete(ctx context.Context, modelID, instructions string, messages []llm.Message) (string, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	call := len(s.incoming)
	if len(messages) > 0 {
		s.incoming = append(s.incoming, messages[len(messages)-1].Content)
	} else {
		s.incoming = append(s.incoming, "")
	}
	if s.hook != nil {
		s.hook(call)
	}
	if call >= len(s.replies) {
		return fmt.Sprintf("reply %d", call), nil
	}
	switch actual := s.replies[call].(type) {
	case error:
		return "", actual
	default:
		return actual.(string), nil
	}
}

func newPair(t *testing.T, initiatorScript, responderScript completion.Completer, greeting string) (*persona.Initiator, *persona.Responder) {
	initiator, err := persona.NewInitiator(context.Background(), "frustrated_customer", "llama", initiatorScript, "Base.", "Frustrated.", "Late delivery.")
	require.NoError(t, err)
	responder := persona.NewResponder("homedepot_agent", "llama", responderScript, "Be helpful.", greeting)
	return initiator, responder
}

type failingStore struct{}

func (f *failingStore) Save(ctx context.Context, turns []conversation.Turn, metadata *transcript.Metadata, fileName string) (string, error) {
	return "", fmt.Errorf("%w: disk full", transcript.ErrPersistence)
}

func speakers(turns []conversation.Turn) []conversation.Speaker {
	var result []conversation.Speaker
	for _, turn := range turns {
		result = append(result, turn.Speaker)
	}
	return result
}

const (
	I = conversation.SpeakerInitiator
	R = conversation.SpeakerResponder
)

func TestOrchestrator_Run(t *testing.T) {
	testCases := []struct {
		description       string
		greeting          string
		opening           string
		maxTurns          int
		initiatorReplies  []interface{}
		responderReplies  []interface{}
		expectSuccess     bool
		expectState       State
		expectTurnCount   int
		expectSpeakers    []conversation.Speaker
		expectFirst       string
		expectMessage     string
		expectSaved       bool
		expectErrContains string
	}{
		{
			description:     "greeting opens and budget ends the run",
			greeting:        persona.HomeDepotGreeting,
			maxTurns:        4,
			expectSuccess:   true,
			expectState:     StateCompleted,
			expectTurnCount: 4,
			expectSpeakers:  []conversation.Speaker{R, I, R, I, R},
			expectFirst:     persona.HomeDepotGreeting,
			expectMessage:   "Conversation completed successfully",
			expectSaved:     true,
		},
		{
			description:      "initiator bootstraps without opening",
			maxTurns:         4,
			initiatorReplies: []interface{}{"I need a new faucet."},
			expectSuccess:    true,
			expectState:      StateCompleted,
			expectTurnCount:  4,
			expectSpeakers:   []conversation.Speaker{I, R, I, R},
			expectFirst:      "I need a new faucet.",
			expectMessage:    "Conversation completed successfully",
			expectSaved:      true,
		},
		{
			description:     "explicit opening wins over greeting",
			greeting:        persona.HomeDepotGreeting,
			opening:         "Hi, this is support.",
			maxTurns:        2,
			expectSuccess:   true,
			expectState:     StateCompleted,
			expectTurnCount: 2,
			expectSpeakers:  []conversation.Speaker{R, I, R},
			expectFirst:     "Hi, this is support.",
			expectMessage:   "Conversation completed successfully",
			expectSaved:     true,
		},
		{
			description:      "closing phrase adds exactly one responder turn",
			greeting:         persona.HomeDepotGreeting,
			maxTurns:         10,
			initiatorReplies: []interface{}{"Where is my order?", "Great, THANK YOU, GOODBYE."},
			responderReplies: []interface{}{"It ships tomorrow.", "Have a great day!"},
			expectSuccess:    true,
			expectState:      StateCompleted,
			expectTurnCount:  4,
			expectSpeakers:   []conversation.Speaker{R, I, R, I, R},
			expectFirst:      persona.HomeDepotGreeting,
			expectMessage:    "Conversation ended naturally",
			expectSaved:      true,
		},
		{
			description:      "closing overrides remaining budget",
			greeting:         persona.HomeDepotGreeting,
			maxTurns:         1,
			initiatorReplies: []interface{}{"Never mind. Thank you, goodbye."},
			expectSuccess:    true,
			expectState:      StateCompleted,
			expectTurnCount:  2,
			expectSpeakers:   []conversation.Speaker{R, I, R},
			expectFirst:      persona.HomeDepotGreeting,
			expectMessage:    "Conversation ended naturally",
			expectSaved:      true,
		},
		{
			description:       "responder failure aborts and keeps prior turns",
			greeting:          persona.HomeDepotGreeting,
			maxTurns:          10,
			responderReplies:  []interface{}{"ok", errors.New("service unavailable")},
			expectSuccess:     false,
			expectState:       StateAborted,
			expectTurnCount:   3,
			expectSpeakers:    []conversation.Speaker{R, I, R, I},
			expectFirst:       persona.HomeDepotGreeting,
			expectSaved:       true,
			expectErrContains: "service unavailable",
		},
		{
			description:       "bootstrap failure saves nothing",
			maxTurns:          10,
			initiatorReplies:  []interface{}{errors.New("rate limited")},
			expectSuccess:     false,
			expectState:       StateAborted,
			expectTurnCount:   0,
			expectMessage:     "Failed to generate initial user message",
			expectSaved:       false,
			expectErrContains: "rate limited",
		},
	}

	for i, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			initiatorScript := &script{replies: tc.initiatorReplies}
			responderScript := &script{replies: tc.responderReplies}
			initiator, responder := newPair(t, initiatorScript, responderScript, tc.greeting)
			store := transcript.New(fmt.Sprintf("mem://localhost/orchestrator/run%d", i))
			orchestrator := New(initiator, responder,
				WithMaxTurns(tc.maxTurns),
				WithDelay(0),
				WithOpening(tc.opening),
				WithStore(store),
				WithCollector(&log.Collector{}),
			)

			result := orchestrator.Run(context.Background())
			turns := initiator.History().Turns()

			assert.EqualValues(t, tc.expectSuccess, result.Success)
			assert.EqualValues(t, tc.expectState, result.State)
			assert.EqualValues(t, tc.expectState, orchestrator.State())
			assert.EqualValues(t, tc.expectTurnCount, result.TurnCount)
			assert.EqualValues(t, tc.expectSpeakers, speakers(turns))
			assert.True(t, conversation.Alternates(turns))
			assert.EqualValues(t, len(turns), result.Summary.TotalTurns)
			assert.EqualValues(t, "frustrated_customer", result.InitiatorID)
			assert.EqualValues(t, "homedepot_agent", result.ResponderID)
			if tc.expectMessage != "" {
				assert.EqualValues(t, tc.expectMessage, result.Message)
			}
			if tc.expectErrContains != "" {
				assert.Contains(t, result.Error, tc.expectErrContains)
			} else {
				assert.Empty(t, result.Error)
			}
			if tc.expectFirst != "" {
				assert.EqualValues(t, tc.expectFirst, turns[0].Message)
			}
			if tc.greeting != "" || tc.opening != "" {
				assert.EqualValues(t, conversation.ZeroResponseTime, turns[0].ResponseTimeSeconds)
			}
			if !tc.expectSaved {
				assert.Nil(t, result.SavedPath)
				return
			}
			require.NotNil(t, result.SavedPath)
			record, err := store.Load(context.Background(), *result.SavedPath)
			require.NoError(t, err)
			assert.EqualValues(t, turns, record.Conversation)
			assert.EqualValues(t, "Late delivery.", record.ScenarioPrompt)
		})
	}
}

func TestOrchestrator_BootstrapMessage(t *testing.T) {
	initiatorScript := &script{}
	responderScript := &script{}
	initiator, responder := newPair(t, initiatorScript, responderScript, "")
	result := New(initiator, responder, WithMaxTurns(2), WithDelay(0), WithCollector(&log.Collector{})).Run(context.Background())
	assert.True(t, result.Success)
	assert.Nil(t, result.SavedPath)
	assert.EqualValues(t, DefaultBootstrap, initiatorScript.incoming[0])
	assert.EqualValues(t, []string{"reply 0"}, responderScript.incoming)
}

func TestOrchestrator_PersistenceFailure(t *testing.T) {
	initiator, responder := newPair(t, &script{}, &script{}, persona.HomeDepotGreeting)
	result := New(initiator, responder, WithMaxTurns(2), WithDelay(0), WithStore(&failingStore{}), WithCollector(&log.Collector{})).Run(context.Background())
	assert.False(t, result.Success)
	assert.EqualValues(t, StateCompleted, result.State)
	assert.Nil(t, result.SavedPath)
	assert.Contains(t, result.Error, "disk full")
	assert.EqualValues(t, 3, initiator.History().Len())
}

func TestOrchestrator_Stop(t *testing.T) {
	initiatorScript := &script{}
	initiator, responder := newPair(t, initiatorScript, &script{}, persona.HomeDepotGreeting)
	orchestrator := New(initiator, responder, WithMaxTurns(10), WithDelay(0), WithCollector(&log.Collector{}))
	initiatorScript.hook = func(call int) {
		if call == 1 {
			orchestrator.Stop()
		}
	}
	result := orchestrator.Run(context.Background())
	assert.True(t, result.Success)
	assert.EqualValues(t, "Conversation stopped", result.Message)
	assert.EqualValues(t, StateCompleted, result.State)
	assert.EqualValues(t, 3, result.TurnCount)

	status := orchestrator.Status()
	assert.False(t, status.Active)
	assert.EqualValues(t, 4, status.Summary.TotalTurns)

	again := orchestrator.Run(context.Background())
	assert.False(t, again.Success)
	assert.EqualValues(t, ErrAlreadyStarted.Error(), again.Error)
}

func TestOrchestrator_StopBeforeRun(t *testing.T) {
	testCases := []struct {
		description   string
		greeting      string
		expectHistory int
	}{
		{description: "greeting is kept, no turn generated", greeting: persona.HomeDepotGreeting, expectHistory: 1},
		{description: "bootstrap is skipped", expectHistory: 0},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			initiatorScript := &script{}
			responderScript := &script{}
			initiator, responder := newPair(t, initiatorScript, responderScript, testCase.greeting)
			orchestrator := New(initiator, responder, WithMaxTurns(6), WithDelay(0), WithCollector(&log.Collector{}))
			orchestrator.Stop()
			assert.True(t, orchestrator.Status().StopRequested)

			result := orchestrator.Run(context.Background())
			assert.True(t, result.Success)
			assert.EqualValues(t, "Conversation stopped", result.Message)
			assert.EqualValues(t, StateCompleted, result.State)
			assert.EqualValues(t, 0, result.TurnCount)
			assert.EqualValues(t, testCase.expectHistory, initiator.History().Len())
			assert.Empty(t, initiatorScript.incoming)
			assert.Empty(t, responderScript.incoming)
		})
	}
}

func TestOrchestrator_Begin(t *testing.T) {
	initiator, responder := newPair(t, &script{}, &script{}, persona.HomeDepotGreeting)
	orchestrator := New(initiator, responder, WithMaxTurns(2), WithDelay(0), WithCollector(&log.Collector{}))
	require.NoError(t, orchestrator.Begin())
	assert.EqualValues(t, StateRunning, orchestrator.Status().State)
	assert.True(t, orchestrator.Status().Active)
	assert.ErrorIs(t, orchestrator.Begin(), ErrAlreadyStarted)

	result := orchestrator.Run(context.Background())
	assert.True(t, result.Success)
	assert.EqualValues(t, 2, result.TurnCount)

	orchestrator.Stop()
	assert.False(t, orchestrator.Status().StopRequested)
}

func TestOrchestrator_ContextCancel(t *testing.T) {
	initiator, responder := newPair(t, &script{}, &script{}, persona.HomeDepotGreeting)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := transcript.New("mem://localhost/orchestrator/cancel")
	result := New(initiator, responder, WithDelay(time.Hour), WithStore(store), WithCollector(&log.Collector{})).Run(ctx)
	assert.False(t, result.Success)
	assert.EqualValues(t, StateAborted, result.State)
	assert.EqualValues(t, 0, result.TurnCount)
	require.NotNil(t, result.SavedPath)
}

func TestOrchestrator_Events(t *testing.T) {
	collector := &log.Collector{}
	events := collector.Subscribe(50)
	initiator, responder := newPair(t, &script{}, &script{}, persona.HomeDepotGreeting)
	orchestrator := New(initiator, responder, WithMaxTurns(2), WithDelay(0), WithCollector(collector), WithID("run-42"))
	result := orchestrator.Run(context.Background())
	assert.EqualValues(t, "run-42", result.RunID)
	collector.Close()

	var types []log.EventType
	for event := range events {
		types = append(types, event.EventType)
	}
	assert.EqualValues(t, []log.EventType{log.RunStart, log.Turn, log.Turn, log.Turn, log.RunEnd}, types)
}

func TestPhrasePolicy(t *testing.T) {
	testCases := []struct {
		description string
		policy      Policy
		message     string
		expected    bool
	}{
		{description: "default phrase", policy: NewPhrasePolicy(), message: "Thanks! Thank you, goodbye.", expected: true},
		{description: "case insensitive", policy: NewPhrasePolicy(), message: "THANK YOU, GOODBYE.", expected: true},
		{description: "paraphrase ignored by default", policy: NewPhrasePolicy(), message: "Bye now!", expected: false},
		{description: "custom phrases", policy: NewPhrasePolicy("bye now", "have a nice day"), message: "OK, bye now!", expected: true},
		{description: "blank phrase never matches", policy: NewPhrasePolicy(" "), message: "anything", expected: false},
		{description: "func policy", policy: PolicyFunc(func(message string) bool { return message == "end" }), message: "end", expected: true},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.EqualValues(t, tc.expected, tc.policy.ShouldEnd(tc.message))
		})
	}
}
