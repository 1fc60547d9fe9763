package persona

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/viant/convsim/genai/completion"
	"github.com/viant/convsim/genai/conversation"
	"github.com/viant/convsim/genai/llm"
)

var (
	// ErrGeneration is returned when a completion call failed or produced nothing usable.
	ErrGeneration = errors.New("generation failed")
	// ErrInvalidSelection is returned for unknown template keys.
	ErrInvalidSelection = errors.New("invalid persona selection")
)

// persona holds what both sides of a conversation share.
type persona struct {
	ID           string
	ModelID      string
	instructions string
	speaker      conversation.Speaker
	completer    completion.Completer
	now          func() time.Time
	logger       zerolog.Logger
}

// Instructions returns the system instructions of the persona.
func (p *persona) Instructions() string {
	return p.instructions
}

// generate asks the completer for the next utterance framed from this persona's
// point of view and returns a fully formed turn.
func (p *persona) generate(ctx context.Context, incoming string, turns []conversation.Turn) (*conversation.Turn, error) {
	if p.completer == nil {
		return nil, fmt.Errorf("%v %v: %w", p.speaker, p.ID, completion.ErrProviderUnavailable)
	}
	messages := Messages(p.speaker, turns, incoming)
	started := time.Now()
	text, err := p.completer.Complete(ctx, p.ModelID, p.instructions, messages)
	elapsed := time.Since(started)
	if err != nil {
		p.logger.Error().Str("persona", p.ID).Str("model", p.ModelID).Err(err).Msg("failed to generate response")
		if errors.Is(err, completion.ErrProviderUnavailable) {
			return nil, fmt.Errorf("%v %v: %w", p.speaker, p.ID, err)
		}
		return nil, fmt.Errorf("%w: %v %v: %w", ErrGeneration, p.speaker, p.ID, err)
	}
	return conversation.NewTurn(p.speaker, text, p.now(), elapsed), nil
}

// Messages maps turns to provider messages from self's point of view: self
// turns become assistant messages, the other side's turns become user
// messages. incoming is appended as the newest user message unless the
// history already ends with that same opposing turn.
func Messages(self conversation.Speaker, turns []conversation.Turn, incoming string) []llm.Message {
	messages := make([]llm.Message, 0, len(turns)+1)
	for i := range turns {
		if turns[i].Speaker == self {
			messages = append(messages, llm.NewAssistantMessage(turns[i].Message))
			continue
		}
		messages = append(messages, llm.NewUserMessage(turns[i].Message))
	}
	if incoming == "" {
		return messages
	}
	if n := len(turns); n > 0 && turns[n-1].Speaker != self && turns[n-1].Message == incoming {
		return messages
	}
	return append(messages, llm.NewUserMessage(incoming))
}

func newPersona(id, modelID, instructions string, speaker conversation.Speaker, completer completion.Completer, options []Option) persona {
	ret := persona{
		ID:           id,
		ModelID:      modelID,
		instructions: instructions,
		speaker:      speaker,
		completer:    completer,
		now:          time.Now,
		logger:       zerolog.Nop(),
	}
	for _, option := range options {
		option(&ret)
	}
	return ret
}
