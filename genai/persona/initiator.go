package persona

import (
	"context"
	"fmt"

	"github.com/viant/convsim/genai/completion"
	"github.com/viant/convsim/genai/conversation"
	"github.com/viant/convsim/genai/transcript"
)

// Initiator is the simulated user. It owns the canonical conversation history.
type Initiator struct {
	persona
	BasePrompt        string
	PersonalityPrompt string
	ScenarioPrompt    string
	history           *conversation.History
}

// TranscriptLoader reads a persisted transcript.
type TranscriptLoader interface {
	Load(ctx context.Context, URL string) (*transcript.Record, error)
}

// Respond generates the Initiator's reply to incoming and appends it to the history.
// Nothing is appended on failure.
func (i *Initiator) Respond(ctx context.Context, incoming string) (*conversation.Turn, error) {
	turn, err := i.generate(ctx, incoming, i.history.Turns())
	if err != nil {
		return nil, err
	}
	i.history.Append(*turn)
	return turn, nil
}

// History returns the owned history.
func (i *Initiator) History() *conversation.History {
	return i.history
}

// Summary summarizes the owned history.
func (i *Initiator) Summary() *conversation.Summary {
	return i.history.Summary()
}

// Clear removes all turns.
func (i *Initiator) Clear() {
	i.history.Clear()
}

// LoadTranscript replaces the history with a persisted conversation; the
// history is left unchanged on failure.
func (i *Initiator) LoadTranscript(ctx context.Context, loader TranscriptLoader, URL string) error {
	record, err := loader.Load(ctx, URL)
	if err != nil {
		return err
	}
	i.history.Replace(record.Conversation)
	return nil
}

// Metadata describes the persona for transcript persistence.
func (i *Initiator) Metadata() *transcript.Metadata {
	return &transcript.Metadata{
		AgentID:           i.ID,
		PersonalityPrompt: i.PersonalityPrompt,
		ScenarioPrompt:    i.ScenarioPrompt,
		BasePrompt:        i.BasePrompt,
		Model:             i.ModelID,
	}
}

func (i *Initiator) String() string {
	return fmt.Sprintf("Initiator(id=%v, turns=%v)", i.ID, i.history.Len())
}

// NewInitiator creates an Initiator whose instructions combine base, personality and scenario prompts.
func NewInitiator(ctx context.Context, id, modelID string, completer completion.Completer, base, personality, scenario string, options ...Option) (*Initiator, error) {
	instructions, err := composeInstructions(ctx, base, personality, scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to compose instructions for %v: %w", id, err)
	}
	return &Initiator{
		persona:           newPersona(id, modelID, instructions, conversation.SpeakerInitiator, completer, options),
		BasePrompt:        base,
		PersonalityPrompt: personality,
		ScenarioPrompt:    scenario,
		history:           conversation.NewHistory(),
	}, nil
}
