package gemini

import (
	"context"
	"fmt"

	"github.com/viant/convsim/genai/llm"
	"github.com/viant/convsim/genai/llm/provider/base"
)

func (c *Client) Implements(feature string) bool {
	switch feature {
	case base.CanUseJSONMode, base.CanUseSystemInstruction:
		return true
	}
	return false
}

// Generate sends a generateContent request to Gemini and returns the response
func (c *Client) Generate(ctx context.Context, request *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	if request == nil {
		request = &llm.GenerateRequest{}
	}
	model := c.Model
	if request.Options != nil && request.Options.Model != "" {
		model = request.Options.Model
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	system, contents := ToContents(request.Messages)
	if len(contents) == 0 {
		return nil, fmt.Errorf("at least one non-system message is required")
	}
	resp, err := c.client.Models.GenerateContent(ctx, model, contents, c.ToConfig(request.Options, system))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	llmsResp := ToLLMSResponse(model, resp)
	if c.UsageListener != nil && llmsResp.Usage != nil && llmsResp.Usage.TotalTokens > 0 {
		c.UsageListener.OnUsage(model, llmsResp.Usage)
	}
	return llmsResp, nil
}
