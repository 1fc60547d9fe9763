package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/convsim/genai/llm"
	provider "github.com/viant/convsim/genai/llm/provider"
	"github.com/viant/convsim/internal/registry"
)

// Creator instantiates a model client from provider options.
type Creator interface {
	CreateModel(ctx context.Context, options *provider.Options) (llm.Model, error)
}

// Finder resolves model IDs to cached llm.Model clients.
type Finder struct {
	modelFactory   Creator
	configRegistry *registry.Registry[*provider.Config]
	usageListener  func(model string, usage *llm.Usage)
	models         map[string]llm.Model
	mux            sync.RWMutex
}

func (d *Finder) Find(ctx context.Context, id string) (llm.Model, error) {
	d.mux.RLock()
	ret, ok := d.models[id]
	d.mux.RUnlock()
	if ok {
		return ret, nil
	}
	d.mux.Lock()
	defer d.mux.Unlock()
	if ret, ok = d.models[id]; ok {
		return ret, nil
	}
	config, err := d.configRegistry.Lookup(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("model config not found: %s", id)
	}
	options := config.Options
	if options.UsageListener == nil && d.usageListener != nil {
		options.UsageListener = d.usageListener
	}
	model, err := d.modelFactory.CreateModel(ctx, &options)
	if err != nil {
		return nil, fmt.Errorf("failed to create model %v: %w", id, err)
	}
	d.models[id] = model
	return model, nil
}

// Configs returns all registered model configurations ordered by ID.
func (d *Finder) Configs() []*provider.Config {
	configs, _ := d.configRegistry.List(context.Background())
	return configs
}

// Has reports whether a model ID is registered.
func (d *Finder) Has(id string) bool {
	_, err := d.configRegistry.Lookup(context.Background(), id)
	return err == nil
}

func New(options ...Option) *Finder {
	dao := &Finder{
		modelFactory:   provider.New(),
		configRegistry: registry.New[*provider.Config](),
		models:         map[string]llm.Model{},
	}
	for _, option := range options {
		option(dao)
	}
	return dao
}
