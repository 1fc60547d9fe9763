package openai

import (
	"github.com/viant/convsim/genai/llm"
)

// ToRequest converts an llm.GenerateRequest to a chat completions Request.
func ToRequest(request *llm.GenerateRequest) *Request {
	req := &Request{}
	if request == nil {
		return req
	}
	if options := request.Options; options != nil {
		req.Model = options.Model
		if options.Temperature > 0 {
			temperature := options.Temperature
			req.Temperature = &temperature
		}
		if options.MaxTokens > 0 {
			req.MaxTokens = options.MaxTokens
		}
		if options.TopP > 0 {
			req.TopP = options.TopP
		}
		if options.JSONMode {
			req.ResponseFormat = &ResponseFormat{Type: "json_object"}
		}
	}
	req.Messages = make([]Message, 0, len(request.Messages))
	for _, msg := range request.Messages {
		req.Messages = append(req.Messages, Message{
			Role:    string(msg.Role),
			Name:    msg.Name,
			Content: msg.Text(),
		})
	}
	return req
}

// ToLLMSResponse converts a chat completions Response to an llm.GenerateResponse.
func ToLLMSResponse(resp *Response) *llm.GenerateResponse {
	llmsResp := &llm.GenerateResponse{
		Choices: make([]llm.Choice, len(resp.Choices)),
		Model:   resp.Model,
	}
	for i, choice := range resp.Choices {
		message := llm.NewTextMessage(llm.MessageRole(choice.Message.Role), choice.Message.Content)
		message.Name = choice.Message.Name
		llmsResp.Choices[i] = llm.Choice{
			Index:        choice.Index,
			Message:      message,
			FinishReason: choice.FinishReason,
		}
	}
	llmsResp.Usage = &llm.Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	if details := resp.Usage.PromptTokensDetails; details != nil {
		llmsResp.Usage.CachedTokens = details.CachedTokens
	}
	return llmsResp
}
