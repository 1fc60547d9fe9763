package gemini

import (
	"strings"

	"github.com/viant/convsim/genai/llm"
	"google.golang.org/genai"
)

// ToContents splits llm messages into a system instruction and Gemini contents.
// Assistant messages map to the "model" role; system messages are joined into
// the system instruction.
func ToContents(messages []llm.Message) (*genai.Content, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for i := range messages {
		msg := &messages[i]
		text := msg.Text()
		switch msg.Role {
		case llm.RoleSystem:
			if text != "" {
				system = append(system, text)
			}
		case llm.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(text, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
		}
	}
	if len(system) == 0 {
		return nil, contents
	}
	return genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser), contents
}

// ToConfig builds the generation config from request options and client defaults.
func (c *Client) ToConfig(options *llm.Options, system *genai.Content) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{SystemInstruction: system}
	maxTokens := c.MaxTokens
	var temperature *float64 = c.Temperature
	if options != nil {
		if options.MaxTokens > 0 {
			maxTokens = options.MaxTokens
		}
		if options.Temperature > 0 {
			t := options.Temperature
			temperature = &t
		}
		if options.TopP > 0 {
			topP := float32(options.TopP)
			config.TopP = &topP
		}
		if options.JSONMode {
			config.ResponseMIMEType = "application/json"
		}
	}
	if maxTokens > 0 {
		config.MaxOutputTokens = int32(maxTokens)
	}
	if temperature != nil {
		t := float32(*temperature)
		config.Temperature = &t
	}
	return config
}

// ToLLMSResponse converts a Gemini response to an llm.GenerateResponse.
func ToLLMSResponse(model string, resp *genai.GenerateContentResponse) *llm.GenerateResponse {
	result := &llm.GenerateResponse{Model: model}
	if resp == nil {
		return result
	}
	if resp.ModelVersion != "" {
		result.Model = resp.ModelVersion
	}
	for i, candidate := range resp.Candidates {
		if candidate == nil {
			continue
		}
		var text strings.Builder
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part == nil || part.Thought {
					continue
				}
				text.WriteString(part.Text)
			}
		}
		result.Choices = append(result.Choices, llm.Choice{
			Index:        i,
			Message:      llm.NewAssistantMessage(text.String()),
			FinishReason: strings.ToLower(string(candidate.FinishReason)),
		})
	}
	if meta := resp.UsageMetadata; meta != nil {
		result.Usage = &llm.Usage{
			PromptTokens:     int(meta.PromptTokenCount),
			CompletionTokens: int(meta.CandidatesTokenCount),
			TotalTokens:      int(meta.TotalTokenCount),
			CachedTokens:     int(meta.CachedContentTokenCount),
		}
	}
	return result
}
