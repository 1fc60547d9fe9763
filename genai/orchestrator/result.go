package orchestrator

import (
	"github.com/viant/convsim/genai/conversation"
	"github.com/viant/convsim/genai/usage"
)

// State is the orchestrator lifecycle state.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateAborted   State = "aborted"
)

// Result reports the outcome of one run.
type Result struct {
	RunID       string                         `json:"run_id"`
	Success     bool                           `json:"success"`
	Message     string                         `json:"message"`
	TurnCount   int                            `json:"turn_count"`
	InitiatorID string                         `json:"user_agent_id"`
	ResponderID string                         `json:"chat_agent_id"`
	Summary     *conversation.Summary          `json:"conversation_summary"`
	SavedPath   *string                        `json:"saved_filepath"`
	Timing      *conversation.TimingStatistics `json:"timing_statistics"`
	State       State                          `json:"state"`
	Error       string                         `json:"error,omitempty"`
	Usage       map[string]usage.Stat          `json:"usage,omitempty"`
}

// Status is a point in time view of a run.
type Status struct {
	RunID         string                `json:"run_id"`
	State         State                 `json:"state"`
	Active        bool                  `json:"active"`
	StopRequested bool                  `json:"stop_requested,omitempty"`
	Initiator     string                `json:"user_agent"`
	Responder     string                `json:"chat_agent"`
	TurnCount     int                   `json:"turn_count"`
	Summary       *conversation.Summary `json:"conversation_summary"`
}

// TurnEvent is published for every appended turn.
type TurnEvent struct {
	RunID string            `json:"runId"`
	Index int               `json:"index"`
	Turn  conversation.Turn `json:"turn"`
}
