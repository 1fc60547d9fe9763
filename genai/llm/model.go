package llm

import "context"

// Model generates chat completions. Implements reports optional provider
// capabilities (see provider/base feature names).
type Model interface {
	Generate(ctx context.Context, request *GenerateRequest) (*GenerateResponse, error)
	Implements(feature string) bool
}
