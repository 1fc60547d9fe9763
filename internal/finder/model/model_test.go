package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/convsim/genai/llm"
	provider "github.com/viant/convsim/genai/llm/provider"
)

type stubModel struct{ id string }

func (s *stubModel) Generate(ctx context.Context, request *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	return &llm.GenerateResponse{}, nil
}

func (s *stubModel) Implements(feature string) bool { return false }

type countingCreator struct {
	calls     int
	listeners int
}

func (c *countingCreator) CreateModel(ctx context.Context, options *provider.Options) (llm.Model, error) {
	c.calls++
	if options.UsageListener != nil {
		c.listeners++
	}
	if options.Provider == "broken" {
		return nil, errors.New("boom")
	}
	return &stubModel{id: options.Model}, nil
}

func TestFinder_Find(t *testing.T) {
	creator := &countingCreator{}
	finder := New(
		WithCreator(creator),
		WithUsageListener(func(model string, usage *llm.Usage) {}),
		WithInitial(
			&provider.Config{ID: "openai_4o", Options: provider.Options{Provider: "openai", Model: "gpt-4o"}},
			&provider.Config{ID: "broken", Options: provider.Options{Provider: "broken"}},
		),
	)
	ctx := context.Background()

	first, err := finder.Find(ctx, "openai_4o")
	assert.NoError(t, err)
	second, err := finder.Find(ctx, "openai_4o")
	assert.NoError(t, err)
	assert.Same(t, first, second)
	assert.EqualValues(t, 1, creator.calls)
	assert.EqualValues(t, 1, creator.listeners)

	_, err = finder.Find(ctx, "unknown")
	assert.EqualError(t, err, "model config not found: unknown")

	_, err = finder.Find(ctx, "broken")
	assert.Error(t, err)

	assert.True(t, finder.Has("broken"))
	assert.Len(t, finder.Configs(), 2)
	assert.EqualValues(t, "broken", finder.Configs()[0].ID)
}
