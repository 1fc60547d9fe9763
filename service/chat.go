package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/viant/convsim/genai/batch"
	"github.com/viant/convsim/genai/conversation"
	"github.com/viant/convsim/genai/persona"
)

// ErrInvalidRequest is returned for malformed requests.
var ErrInvalidRequest = errors.New("invalid request")

// ChatRequest asks a Responder for a single reply.
type ChatRequest struct {
	Message string `json:"message"`
	// Responder selects a Responder template; ignored when Instructions is set.
	Responder    string              `json:"chat_agent,omitempty"`
	Instructions string              `json:"system_prompt,omitempty"`
	ModelID      string              `json:"model,omitempty"`
	History      []conversation.Turn `json:"history,omitempty"`
}

// ChatResponse carries the generated reply.
type ChatResponse struct {
	Response            string `json:"response"`
	Agent               string `json:"agent_id"`
	Timestamp           string `json:"timestamp"`
	ResponseTimeSeconds string `json:"response_time_seconds"`
}

// Chat generates one Responder turn for message given an optional prior history.
func (s *Service) Chat(ctx context.Context, request *ChatRequest) (*ChatResponse, error) {
	if request == nil || strings.TrimSpace(request.Message) == "" {
		return nil, fmt.Errorf("%w: message was empty", ErrInvalidRequest)
	}
	modelID := request.ModelID
	if modelID == "" {
		modelID = s.opts.Config.DefaultModel
	}
	var responder *persona.Responder
	if request.Instructions != "" {
		responder = persona.NewResponder(string(conversation.SpeakerResponder), modelID, s.opts.Completer, request.Instructions, "")
	} else {
		key := request.Responder
		if key == "" {
			key = batch.DefaultResponder
		}
		var err error
		if responder, err = s.opts.Registry.NewResponder(ctx, key, modelID); err != nil {
			return nil, err
		}
	}
	turn, err := responder.Respond(ctx, request.Message, request.History)
	if err != nil {
		return nil, err
	}
	return &ChatResponse{
		Response:            turn.Message,
		Agent:               responder.ID,
		Timestamp:           turn.Timestamp,
		ResponseTimeSeconds: turn.ResponseTimeSeconds,
	}, nil
}
