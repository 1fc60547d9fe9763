package provider

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/viant/convsim/genai/llm"
	"github.com/viant/convsim/genai/llm/provider/gemini"
	"github.com/viant/convsim/genai/llm/provider/openai"
	"github.com/viant/scy/cred/secret"
)

type Factory struct {
	secrets *secret.Service
}

// CreateModel creates a new language model instance
func (f *Factory) CreateModel(ctx context.Context, options *Options) (llm.Model, error) {
	if options.Provider == "" {
		return nil, fmt.Errorf("provider was empty")
	}
	timeout := time.Duration(options.TimeoutSec) * time.Second
	switch options.Provider {
	case ProviderOpenAI, ProviderLlama, ProviderOllama:
		apiKey, err := f.apiKey(ctx, options)
		if err != nil {
			return nil, err
		}
		baseURL := options.URL
		if baseURL == "" {
			switch options.Provider {
			case ProviderLlama:
				baseURL = llamaBaseURL
			case ProviderOllama:
				baseURL = ollamaBaseURL
			}
		}
		if apiKey == "" && options.Provider == ProviderOllama {
			apiKey = "ollama"
		}
		return openai.NewClient(apiKey, options.Model,
			openai.WithBaseURL(baseURL),
			openai.WithTimeout(options.TimeoutSec),
			openai.WithMaxTokens(options.MaxTokens),
			openai.WithTemperature(options.Temperature),
			openai.WithUsageListener(options.UsageListener)), nil
	case ProviderGeminiAI:
		apiKey, err := f.apiKey(ctx, options)
		if err != nil {
			return nil, err
		}
		return gemini.NewClient(ctx, apiKey, options.Model,
			gemini.WithBaseURL(options.URL),
			gemini.WithTimeout(timeout),
			gemini.WithMaxTokens(options.MaxTokens),
			gemini.WithTemperature(options.Temperature),
			gemini.WithUsageListener(options.UsageListener))
	default:
		return nil, fmt.Errorf("unsupported provider: %v", options.Provider)
	}
}

// apiKey resolves the API key from a scy secret URL, then from the
// configured or provider default environment variable.
func (f *Factory) apiKey(ctx context.Context, options *Options) (string, error) {
	if options.APIKeyURL != "" {
		key, err := f.secrets.GeyKey(ctx, options.APIKeyURL)
		if err != nil {
			return "", fmt.Errorf("failed to load API key from %v: %w", options.APIKeyURL, err)
		}
		return key.Secret, nil
	}
	envKey := options.EnvKey
	if envKey == "" {
		envKey = defaultEnvKeys[options.Provider]
	}
	if envKey == "" {
		return "", nil
	}
	return os.Getenv(envKey), nil
}

func New() *Factory {
	return &Factory{secrets: secret.New()}
}
