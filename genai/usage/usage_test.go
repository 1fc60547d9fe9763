package usage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/convsim/genai/llm"
)

func TestAggregator(t *testing.T) {
	ctx, agg := WithAggregator(context.Background())
	assert.Same(t, agg, FromContext(ctx))
	assert.Nil(t, FromContext(context.Background()))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			agg.OnUsage("gpt-4o", &llm.Usage{PromptTokens: 2, CompletionTokens: 3, TotalTokens: 5})
		}()
	}
	wg.Wait()
	agg.OnUsage("gemini-2.0-flash", &llm.Usage{PromptTokens: 1, CompletionTokens: 1, CachedTokens: 1})
	agg.OnUsage("ignored", nil)

	prompt, completion, cached := agg.Totals()
	assert.EqualValues(t, 21, prompt)
	assert.EqualValues(t, 31, completion)
	assert.EqualValues(t, 1, cached)
	assert.EqualValues(t, []string{"gemini-2.0-flash", "gpt-4o"}, agg.Keys())
	assert.EqualValues(t, 10, agg.Snapshot()["gpt-4o"].Calls)
}
