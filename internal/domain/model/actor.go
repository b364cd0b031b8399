package model

import "context"

// Actor is the authenticated caller performing a change.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Fallbacks used when the identity layer supplies no usable claims.
const (
	UnknownActorID   = "unknown"
	UnknownActorName = "Unknown"
)

type actorKey struct{}

// WithActor returns a context carrying a.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFromContext returns the actor stored by WithActor.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}
