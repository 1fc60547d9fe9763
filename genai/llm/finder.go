package llm

import "context"

// Finder resolves a configured model by its identifier.
type Finder interface {
	Find(ctx context.Context, id string) (Model, error)
}
