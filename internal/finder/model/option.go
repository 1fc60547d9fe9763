package model

import (
	"github.com/viant/convsim/genai/llm"
	modelprovider "github.com/viant/convsim/genai/llm/provider"
)

// Option defines a functional option for Finder
type Option func(dao *Finder)

// WithInitial adds model configurations to the Finder instance.
func WithInitial(configs ...*modelprovider.Config) Option {
	return func(dao *Finder) {
		for _, modelConfig := range configs {
			if modelConfig == nil {
				continue
			}
			dao.configRegistry.Add(modelConfig.ID, modelConfig)
		}
	}
}

// WithCreator overrides the provider factory.
func WithCreator(creator Creator) Option {
	return func(dao *Finder) {
		dao.modelFactory = creator
	}
}

// WithUsageListener sets a listener attached to every model that does not define one.
func WithUsageListener(listener func(model string, usage *llm.Usage)) Option {
	return func(dao *Finder) {
		dao.usageListener = listener
	}
}
