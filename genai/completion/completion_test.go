package completion

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/convsim/genai/conversation"
	"github.com/viant/convsim/genai/llm"
	"github.com/viant/convsim/genai/usage"
	"github.com/viant/convsim/internal/log"
)

type fakeModel struct {
	text     string
	err      error
	captured *llm.GenerateRequest
}

func (f *fakeModel) Generate(ctx context.Context, request *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.captured = request
	if f.err != nil {
		return nil, f.err
	}
	return &llm.GenerateResponse{
		Choices: []llm.Choice{{Message: llm.NewAssistantMessage(f.text)}},
		Usage:   &llm.Usage{PromptTokens: 3, CompletionTokens: 2, TotalTokens: 5},
	}, nil
}

func (f *fakeModel) Implements(feature string) bool { return true }

type fakeFinder map[string]llm.Model

func (f fakeFinder) Find(ctx context.Context, id string) (llm.Model, error) {
	if model, ok := f[id]; ok {
		return model, nil
	}
	return nil, errors.New("model config not found: " + id)
}

func TestService_Complete(t *testing.T) {
	model := &fakeModel{text: "  Sure, I can help.  "}
	collector := &log.Collector{}
	events := collector.Subscribe(10)
	service := New(fakeFinder{"llama": model}, WithCollector(collector), WithJSONMode())

	ctx, agg := usage.WithAggregator(conversation.WithID(context.Background(), "run-7"))
	text, err := service.Complete(ctx, "llama", "You are an agent.", []llm.Message{llm.NewUserMessage("hi")})
	require.NoError(t, err)
	assert.EqualValues(t, "Sure, I can help.", text)

	require.Len(t, model.captured.Messages, 2)
	assert.EqualValues(t, llm.RoleSystem, model.captured.Messages[0].Role)
	assert.EqualValues(t, "You are an agent.", model.captured.Messages[0].Content)
	assert.True(t, model.captured.Options.JSONMode)

	prompt, completion, _ := agg.Totals()
	assert.EqualValues(t, 3, prompt)
	assert.EqualValues(t, 2, completion)

	input := <-events
	assert.EqualValues(t, log.LLMInput, input.EventType)
	assert.EqualValues(t, "run-7", input.Payload.(*Payload).RunID)
	output := <-events
	assert.EqualValues(t, log.LLMOutput, output.EventType)
}

func TestService_Complete_Errors(t *testing.T) {
	testCases := []struct {
		description string
		service     *Service
		modelID     string
		expectErr   error
	}{
		{description: "no finder", service: New(nil), modelID: "llama", expectErr: ErrProviderUnavailable},
		{description: "unknown model", service: New(fakeFinder{}), modelID: "llama", expectErr: ErrProviderUnavailable},
		{description: "empty text", service: New(fakeFinder{"llama": &fakeModel{text: "  "}}), modelID: "llama", expectErr: ErrEmptyResponse},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			_, err := tc.service.Complete(context.Background(), tc.modelID, "", nil)
			assert.ErrorIs(t, err, tc.expectErr)
		})
	}

	boom := errors.New("boom")
	_, err := New(fakeFinder{"llama": &fakeModel{err: boom}}).Complete(context.Background(), "llama", "", nil)
	assert.ErrorIs(t, err, boom)

	text, err := Func(func(ctx context.Context, modelID, instructions string, messages []llm.Message) (string, error) {
		return modelID, nil
	}).Complete(context.Background(), "echo", "", nil)
	assert.NoError(t, err)
	assert.EqualValues(t, "echo", text)
}
