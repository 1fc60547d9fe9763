package conversation

import "context"

type ctxKeyType struct{}

var ctxKey = ctxKeyType{}

// WithID returns a new context that carries the supplied simulation run ID.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey, id)
}

// ID extracts the run ID from ctx. When ctx does not carry an ID the
// empty string is returned.
func ID(ctx context.Context) string {
	v, _ := ctx.Value(ctxKey).(string)
	return v
}
