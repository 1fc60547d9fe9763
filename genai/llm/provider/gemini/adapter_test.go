package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/convsim/genai/llm"
	"google.golang.org/genai"
)

func TestToContents(t *testing.T) {
	testCases := []struct {
		description   string
		messages      []llm.Message
		expectSystem  string
		expectedRoles []string
		expectedTexts []string
	}{
		{
			description: "system folded into instruction",
			messages: []llm.Message{
				llm.NewSystemMessage("You are a shopper."),
				llm.NewAssistantMessage("Hello! How can I help?"),
				llm.NewUserMessage("My faucet leaks."),
			},
			expectSystem:  "You are a shopper.",
			expectedRoles: []string{string(genai.RoleModel), string(genai.RoleUser)},
			expectedTexts: []string{"Hello! How can I help?", "My faucet leaks."},
		},
		{
			description:   "no system message",
			messages:      []llm.Message{llm.NewUserMessage("hi")},
			expectedRoles: []string{string(genai.RoleUser)},
			expectedTexts: []string{"hi"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			system, contents := ToContents(tc.messages)
			if tc.expectSystem == "" {
				assert.Nil(t, system)
			} else if assert.NotNil(t, system) {
				assert.EqualValues(t, tc.expectSystem, system.Parts[0].Text)
			}
			var roles, texts []string
			for _, content := range contents {
				roles = append(roles, content.Role)
				texts = append(texts, content.Parts[0].Text)
			}
			assert.EqualValues(t, tc.expectedRoles, roles)
			assert.EqualValues(t, tc.expectedTexts, texts)
		})
	}
}

func TestClient_ToConfig(t *testing.T) {
	temperature := 0.3
	client := &Client{MaxTokens: 100, Temperature: &temperature}

	config := client.ToConfig(nil, nil)
	assert.EqualValues(t, int32(100), config.MaxOutputTokens)
	assert.InDelta(t, 0.3, float64(*config.Temperature), 0.0001)
	assert.Empty(t, config.ResponseMIMEType)

	config = client.ToConfig(&llm.Options{MaxTokens: 10, Temperature: 0.9, JSONMode: true}, nil)
	assert.EqualValues(t, int32(10), config.MaxOutputTokens)
	assert.InDelta(t, 0.9, float64(*config.Temperature), 0.0001)
	assert.EqualValues(t, "application/json", config.ResponseMIMEType)
}

func TestToLLMSResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: string(genai.RoleModel), Parts: []*genai.Part{
				{Text: "thinking", Thought: true},
				{Text: "Sure, "},
				{Text: "let me help."},
			}},
			FinishReason: genai.FinishReasonStop,
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     4,
			CandidatesTokenCount: 5,
			TotalTokenCount:      9,
		},
	}
	actual := ToLLMSResponse("gemini-2.0-flash", resp)
	assert.EqualValues(t, "Sure, let me help.", actual.Text())
	assert.EqualValues(t, "gemini-2.0-flash", actual.Model)
	assert.EqualValues(t, "stop", actual.Choices[0].FinishReason)
	assert.EqualValues(t, &llm.Usage{PromptTokens: 4, CompletionTokens: 5, TotalTokens: 9}, actual.Usage)
}
