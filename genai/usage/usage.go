package usage

import (
	"context"
	"sort"
	"sync"

	"github.com/viant/convsim/genai/llm"
)

// Stat accumulates token numbers for a single model.
type Stat struct {
	Calls            int `json:"calls"`
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	CachedTokens     int `json:"cachedTokens,omitempty"`
}

// Aggregator collects usage grouped by model name.
type Aggregator struct {
	mux      sync.RWMutex
	PerModel map[string]*Stat
}

// OnUsage satisfies provider/base.UsageListener allowing Aggregator to be
// passed directly to provider clients.
func (a *Aggregator) OnUsage(model string, u *llm.Usage) {
	if u == nil {
		return
	}
	a.Add(model, u.PromptTokens, u.CompletionTokens, u.CachedTokens)
}

// Add records a single call with its token counts. Cached tokens are optional,
// pass 0 when not applicable.
func (a *Aggregator) Add(model string, prompt, completion, cached int) {
	a.mux.Lock()
	defer a.mux.Unlock()
	if a.PerModel == nil {
		a.PerModel = map[string]*Stat{}
	}
	stat, ok := a.PerModel[model]
	if !ok {
		stat = &Stat{}
		a.PerModel[model] = stat
	}
	stat.Calls++
	stat.PromptTokens += prompt
	stat.CompletionTokens += completion
	stat.CachedTokens += cached
}

// Totals returns accumulated prompt, completion and cached tokens across all tracked models.
func (a *Aggregator) Totals() (prompt, completion, cached int) {
	a.mux.RLock()
	defer a.mux.RUnlock()
	for _, stat := range a.PerModel {
		prompt += stat.PromptTokens
		completion += stat.CompletionTokens
		cached += stat.CachedTokens
	}
	return prompt, completion, cached
}

// Keys returns sorted list of model names.
func (a *Aggregator) Keys() []string {
	a.mux.RLock()
	defer a.mux.RUnlock()
	keys := make([]string, 0, len(a.PerModel))
	for k := range a.PerModel {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of per model statistics.
func (a *Aggregator) Snapshot() map[string]Stat {
	a.mux.RLock()
	defer a.mux.RUnlock()
	result := make(map[string]Stat, len(a.PerModel))
	for k, v := range a.PerModel {
		result[k] = *v
	}
	return result
}

// -- context helpers ---------------------------------------------------------

type keyT struct{}

var key = keyT{}

// WithAggregator injects Aggregator into context.
func WithAggregator(ctx context.Context) (context.Context, *Aggregator) {
	agg := &Aggregator{}
	return context.WithValue(ctx, key, agg), agg
}

func FromContext(ctx context.Context) *Aggregator {
	v := ctx.Value(key)
	if v == nil {
		return nil
	}
	if a, ok := v.(*Aggregator); ok {
		return a
	}
	return nil
}
