package gemini

import (
	"net/http"
	"time"

	"github.com/viant/convsim/genai/llm/provider/base"
)

// ClientOption mutates a Gemini Client.
type ClientOption func(*Client)

// WithBaseURL overrides the Gemini API endpoint.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { base.WithBaseURL(baseURL)(&c.Config) }
}

// WithHTTPClient sets the HTTP client used by the SDK.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) { base.WithHTTPClient(httpClient)(&c.Config) }
}

// WithTimeout sets request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) { base.WithTimeout(timeout)(&c.Config) }
}

// WithMaxTokens sets the default output token cap.
func WithMaxTokens(maxTokens int) ClientOption {
	return func(c *Client) { c.MaxTokens = maxTokens }
}

// WithTemperature sets the default sampling temperature.
func WithTemperature(temperature *float64) ClientOption {
	return func(c *Client) { c.Temperature = temperature }
}

// WithUsageListener registers a callback to receive token usage metrics.
func WithUsageListener(listener base.UsageListener) ClientOption {
	return func(c *Client) { base.WithUsageListener(listener)(&c.Config) }
}
