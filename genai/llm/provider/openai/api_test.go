package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/convsim/genai/llm"
)

// roundTripFunc allows using a function as an HTTP RoundTripper.
type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func stubClient(status int, body string, inspect func(req *http.Request)) *http.Client {
	return &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if inspect != nil {
				inspect(req)
			}
			return &http.Response{
				StatusCode: status,
				Body:       io.NopCloser(strings.NewReader(body)),
				Header:     make(http.Header),
			}, nil
		}),
	}
}

func TestGenerate_UsageListener(t *testing.T) {
	testCases := []struct {
		name          string
		respBody      string
		expectedModel string
		expectedUsage llm.Usage
	}{
		{
			name:          "basic usage",
			respBody:      `{"id":"id","object":"chat.completion","created":0,"model":"test-model","choices":[{"index":0,"message":{"role":"assistant","content":"hi"},"finish_reason":""}],"usage":{"prompt_tokens":5,"completion_tokens":6,"total_tokens":11}}`,
			expectedModel: "test-model",
			expectedUsage: llm.Usage{PromptTokens: 5, CompletionTokens: 6, TotalTokens: 11},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var called bool
			client := NewClient(
				"apiKey",
				tc.expectedModel,
				WithUsageListener(func(model string, usage *llm.Usage) {
					called = true
					assert.EqualValues(t, tc.expectedModel, model)
					assert.EqualValues(t, &tc.expectedUsage, usage)
				}),
				WithBaseURL("http://localhost"),
				WithHTTPClient(stubClient(http.StatusOK, tc.respBody, nil)),
			)
			resp, err := client.Generate(context.Background(), &llm.GenerateRequest{})
			assert.NoError(t, err)
			assert.True(t, called, "usage listener should be called")
			assert.EqualValues(t, "hi", resp.Text())
			assert.EqualValues(t, tc.expectedUsage, *resp.Usage)
		})
	}
}

func TestGenerate_Request(t *testing.T) {
	var captured Request
	var auth, path string
	client := NewClient("secret", "llama-model",
		WithBaseURL("http://localhost/compat/v1/"),
		WithHTTPClient(stubClient(http.StatusOK, `{"model":"llama-model","choices":[{"message":{"role":"assistant","content":"ok"}}]}`, func(req *http.Request) {
			auth = req.Header.Get("Authorization")
			path = req.URL.Path
			data, _ := io.ReadAll(req.Body)
			_ = json.Unmarshal(data, &captured)
		})),
	)
	_, err := client.Generate(context.Background(), &llm.GenerateRequest{Messages: []llm.Message{llm.NewUserMessage("hello")}})
	assert.NoError(t, err)
	assert.EqualValues(t, "Bearer secret", auth)
	assert.EqualValues(t, "/compat/v1/chat/completions", path)
	assert.EqualValues(t, "llama-model", captured.Model)
	assert.EqualValues(t, []Message{{Role: "user", Content: "hello"}}, captured.Messages)
}

func TestGenerate_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		apiKey  string
		status  int
		body    string
		wantErr string
	}{
		{name: "api error envelope", apiKey: "k", status: http.StatusTooManyRequests, body: `{"error":{"message":"rate limited"}}`, wantErr: "rate limited"},
		{name: "raw api error", apiKey: "k", status: http.StatusBadGateway, body: `upstream down`, wantErr: "upstream down"},
		{name: "malformed body", apiKey: "k", status: http.StatusOK, body: `{`, wantErr: "failed to unmarshal"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := NewClient(tc.apiKey, "m", WithBaseURL("http://localhost"), WithHTTPClient(stubClient(tc.status, tc.body, nil)))
			_, err := client.Generate(context.Background(), &llm.GenerateRequest{})
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestGenerate_MissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	client := NewClient("", "m")
	_, err := client.Generate(context.Background(), &llm.GenerateRequest{})
	assert.EqualError(t, err, "API key is required")
}
