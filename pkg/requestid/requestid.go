// Package requestid carries the per-request correlation id between the HTTP
// middleware, the error writer and the logger.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header is echoed on every response.
const Header = "X-Request-Id"

type key struct{}

// Normalize keeps a caller-supplied uuid and mints one otherwise.
func Normalize(raw string) string {
	if id, err := uuid.Parse(raw); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

func NewContext(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, key{}, id)
}

func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(key{}).(string)
	return id
}
