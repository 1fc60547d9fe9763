package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/viant/convsim/genai/conversation"
	"github.com/viant/convsim/genai/llm"
	"github.com/viant/convsim/genai/usage"
	"github.com/viant/convsim/internal/log"
)

var (
	// ErrProviderUnavailable is returned when no model client can be resolved.
	ErrProviderUnavailable = errors.New("completion provider unavailable")
	// ErrEmptyResponse is returned when a model produced no usable text.
	ErrEmptyResponse = errors.New("completion provider returned empty response")
)

// Completer turns instructions and ordered messages into generated text.
type Completer interface {
	Complete(ctx context.Context, modelID, instructions string, messages []llm.Message) (string, error)
}

// Func adapts a function to Completer.
type Func func(ctx context.Context, modelID, instructions string, messages []llm.Message) (string, error)

func (f Func) Complete(ctx context.Context, modelID, instructions string, messages []llm.Message) (string, error) {
	return f(ctx, modelID, instructions, messages)
}

// Service resolves models with a Finder and generates a single completion.
type Service struct {
	finder    llm.Finder
	collector *log.Collector
	logger    zerolog.Logger
	options   llm.Options
}

// Payload is published with LLM_INPUT and LLM_OUTPUT events.
type Payload struct {
	RunID    string        `json:"runId,omitempty"`
	Model    string        `json:"model"`
	Messages []llm.Message `json:"messages,omitempty"`
	Text     string        `json:"text,omitempty"`
	Usage    *llm.Usage    `json:"usage,omitempty"`
	Elapsed  string        `json:"elapsed,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// Complete builds the generation request with a leading system message and
// returns the trimmed text of the first choice.
func (s *Service) Complete(ctx context.Context, modelID, instructions string, messages []llm.Message) (string, error) {
	if s == nil || s.finder == nil {
		return "", ErrProviderUnavailable
	}
	model, err := s.finder.Find(ctx, modelID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	request := &llm.GenerateRequest{Messages: make([]llm.Message, 0, len(messages)+1)}
	if instructions != "" {
		request.Messages = append(request.Messages, llm.NewSystemMessage(instructions))
	}
	request.Messages = append(request.Messages, messages...)
	options := s.options
	request.Options = &options

	runID := conversation.ID(ctx)
	s.collector.Publish(log.NewEvent(log.LLMInput, &Payload{RunID: runID, Model: modelID, Messages: request.Messages}))
	started := time.Now()
	response, err := model.Generate(ctx, request)
	elapsed := time.Since(started)
	if err != nil {
		s.logger.Warn().Str("model", modelID).Str("run", runID).Err(err).Msg("generation failed")
		s.collector.Publish(log.NewEvent(log.LLMOutput, &Payload{RunID: runID, Model: modelID, Error: err.Error(), Elapsed: elapsed.String()}))
		return "", err
	}
	if agg := usage.FromContext(ctx); agg != nil && response.Usage != nil {
		agg.OnUsage(modelID, response.Usage)
	}
	text := strings.TrimSpace(response.Text())
	s.collector.Publish(log.NewEvent(log.LLMOutput, &Payload{RunID: runID, Model: modelID, Text: text, Usage: response.Usage, Elapsed: elapsed.String()}))
	s.logger.Debug().Str("model", modelID).Str("run", runID).Dur("elapsed", elapsed).Int("chars", len(text)).Msg("generation completed")
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// New creates a completion service.
func New(finder llm.Finder, options ...Option) *Service {
	ret := &Service{finder: finder, collector: log.Default, logger: zerolog.Nop()}
	for _, option := range options {
		option(ret)
	}
	return ret
}
