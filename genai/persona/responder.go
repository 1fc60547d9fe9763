package persona

import (
	"context"
	"fmt"

	"github.com/viant/convsim/genai/completion"
	"github.com/viant/convsim/genai/conversation"
)

// Responder answers on behalf of the service. It keeps no history; callers
// pass the conversation on every call.
type Responder struct {
	persona
	greeting string
}

// Greeting returns the predefined opening utterance, if any.
func (r *Responder) Greeting() string {
	return r.greeting
}

// Respond generates a reply to incoming given the current history. The history is not modified.
func (r *Responder) Respond(ctx context.Context, incoming string, history []conversation.Turn) (*conversation.Turn, error) {
	return r.generate(ctx, incoming, history)
}

func (r *Responder) String() string {
	return fmt.Sprintf("Responder(id=%v)", r.ID)
}

// NewResponder creates a Responder with instructions and an optional greeting.
func NewResponder(id, modelID string, completer completion.Completer, instructions, greeting string, options ...Option) *Responder {
	return &Responder{
		persona:  newPersona(id, modelID, instructions, conversation.SpeakerResponder, completer, options),
		greeting: greeting,
	}
}
