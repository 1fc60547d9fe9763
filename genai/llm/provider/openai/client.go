package openai

import (
	"net/http"
	"os"
	"strings"
	"time"

	basecfg "github.com/viant/convsim/genai/llm/provider/base"
)

const openAIEndpoint = "https://api.openai.com/v1"

// Client represents an OpenAI-compatible chat completions client. Any backend
// exposing /chat/completions (OpenAI, Llama API compat, Ollama) can be used by
// overriding the base URL.
type Client struct {
	basecfg.Config
	APIKey string

	// Defaults applied when GenerateRequest.Options leaves the field unset.
	MaxTokens   int
	Temperature *float64
}

// NewClient creates a new client with the given API key and model
func NewClient(apiKey, model string, options ...ClientOption) *Client {
	client := &Client{
		Config: basecfg.Config{
			HTTPClient: &http.Client{Timeout: 5 * time.Minute},
			BaseURL:    openAIEndpoint,
			Model:      model,
		},
		APIKey: apiKey,
	}
	for _, option := range options {
		option(client)
	}
	if client.APIKey == "" {
		client.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if v := os.Getenv("OPENAI_HTTP_TIMEOUT_SEC"); v != "" {
		if timeout, err := time.ParseDuration(strings.TrimSpace(v) + "s"); err == nil && timeout > 0 {
			client.Config.HTTPClient.Timeout = timeout
			client.Config.Timeout = timeout
		}
	}
	return client
}
