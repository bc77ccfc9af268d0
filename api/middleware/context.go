package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/angelmondragon/qtyoffers/pkg/auth"
)

// Actor is the authenticated admin behind a request.
type Actor struct {
	UserID uuid.UUID
	Role   auth.Role
}

type actorKey struct{}

// WithActor stores the actor on ctx. Auth calls it; tests use it to skip token minting.
func WithActor(ctx context.Context, actor Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}
