package judge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/viant/convsim/genai/completion"
	"github.com/viant/convsim/genai/conversation"
	"github.com/viant/convsim/genai/llm"
	"github.com/viant/convsim/genai/prompt"
	"github.com/viant/convsim/genai/transcript"
	"github.com/viant/convsim/internal/log"
)

// ErrVerdict is returned when the judge reply has no usable verdict.
var ErrVerdict = errors.New("invalid judge verdict")

// DefaultInstructions asks for a JSON verdict; ${agentId} and ${turns} are expanded.
const DefaultInstructions = `You are a strict quality reviewer of customer service chats.
You receive a transcript between a customer (${agentId}) and a service agent with ${turns} messages.
Rate how well the agent handled the conversation from 1 (poor) to 10 (excellent), decide whether
the customer's problem was resolved, and explain briefly.
Reply with JSON only: {"score": <1-10>, "resolved": <true|false>, "feedback": "<one paragraph>"}`

// Verdict is the judge's assessment of a transcript.
type Verdict struct {
	Score    float64 `json:"score"`
	Resolved bool    `json:"resolved"`
	Feedback string  `json:"feedback"`
	Model    string  `json:"model,omitempty"`
	Source   string  `json:"source,omitempty"`
}

// Judge evaluates transcripts with a model.
type Judge struct {
	completer    completion.Completer
	modelID      string
	instructions string
	logger       zerolog.Logger
}

// Evaluate sends the rendered transcript to the judge model and parses its verdict.
func (j *Judge) Evaluate(ctx context.Context, record *transcript.Record) (*Verdict, error) {
	if record == nil || len(record.Conversation) == 0 {
		return nil, fmt.Errorf("%w: empty transcript", ErrVerdict)
	}
	instructions, err := (&prompt.Prompt{Text: j.instructions}).Generate(ctx, map[string]interface{}{
		"agentId": record.AgentID,
		"turns":   len(record.Conversation),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to expand judge instructions: %w", err)
	}
	reply, err := j.completer.Complete(ctx, j.modelID, instructions, []llm.Message{llm.NewUserMessage(Render(record.Conversation))})
	if err != nil {
		return nil, err
	}
	verdict, err := Parse(reply)
	if err != nil {
		j.logger.Warn().Str("agent", record.AgentID).Str("reply", reply).Err(err).Msg("unparsable verdict")
		return nil, err
	}
	verdict.Model = j.modelID
	j.logger.Info().Str("agent", record.AgentID).Float64("score", verdict.Score).Bool("resolved", verdict.Resolved).Msg("transcript judged")
	return verdict, nil
}

// Render formats turns as one "Customer:" or "Agent:" line each.
func Render(turns []conversation.Turn) string {
	builder := strings.Builder{}
	for _, turn := range turns {
		label := "Agent"
		if turn.Speaker == conversation.SpeakerInitiator {
			label = "Customer"
		}
		builder.WriteString(label)
		builder.WriteString(": ")
		builder.WriteString(strings.TrimSpace(turn.Message))
		builder.WriteString("\n")
	}
	return builder.String()
}

// Parse extracts a verdict from a model reply. Surrounding prose and code
// fences are ignored; score and resolved may be quoted.
func Parse(reply string) (*Verdict, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end < start {
		return nil, fmt.Errorf("%w: no JSON object in reply", ErrVerdict)
	}
	raw := map[string]interface{}{}
	if err := json.Unmarshal([]byte(reply[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerdict, err)
	}
	verdict := &Verdict{}
	switch actual := raw["score"].(type) {
	case float64:
		verdict.Score = actual
	case string:
		score, err := strconv.ParseFloat(strings.TrimSpace(strings.Split(actual, "/")[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: score %q", ErrVerdict, actual)
		}
		verdict.Score = score
	default:
		return nil, fmt.Errorf("%w: missing score", ErrVerdict)
	}
	switch actual := raw["resolved"].(type) {
	case bool:
		verdict.Resolved = actual
	case string:
		switch strings.ToLower(strings.TrimSpace(actual)) {
		case "true", "yes", "y":
			verdict.Resolved = true
		}
	}
	if feedback, ok := raw["feedback"].(string); ok {
		verdict.Feedback = strings.TrimSpace(feedback)
	}
	return verdict, nil
}

// New creates a judge.
func New(completer completion.Completer, modelID string, options ...Option) *Judge {
	ret := &Judge{completer: completer, modelID: modelID, instructions: DefaultInstructions, logger: zerolog.Nop()}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Option customises a Judge.
type Option func(j *Judge)

// WithInstructions replaces the judge instructions.
func WithInstructions(instructions string) Option {
	return func(j *Judge) {
		if strings.TrimSpace(instructions) != "" {
			j.instructions = instructions
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(j *Judge) {
		j.logger = log.Component(logger, "judge")
	}
}
