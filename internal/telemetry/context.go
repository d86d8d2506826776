package telemetry

import "context"

type invocationIDKey struct{}

// WithInvocationID tags ctx so spans started below it carry the id.
func WithInvocationID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, invocationIDKey{}, id)
}

func InvocationIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(invocationIDKey{}).(string)
	return id
}
