package gemini

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/viant/convsim/genai/llm/provider/base"
	"google.golang.org/genai"
)

// Client represents a Gemini API client backed by the Google GenAI SDK.
type Client struct {
	base.Config
	APIKey string

	MaxTokens   int
	Temperature *float64

	client *genai.Client
}

// NewClient creates a new Gemini client with the given API key and model
func NewClient(ctx context.Context, apiKey, model string, options ...ClientOption) (*Client, error) {
	client := &Client{
		Config: base.Config{
			HTTPClient: &http.Client{Timeout: 5 * time.Minute},
			Model:      model,
		},
		APIKey: apiKey,
	}
	for _, option := range options {
		option(client)
	}
	if client.APIKey == "" {
		client.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if client.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	cfg := &genai.ClientConfig{
		APIKey:     client.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: client.HTTPClient,
	}
	if client.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: client.BaseURL}
	}
	genClient, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	client.client = genClient
	return client, nil
}
