package models

import (
	"context"

	"github.com/google/uuid"

	"github.com/gocab/gocab/internal/domain/types"
)

// Identity is the authenticated caller extracted from the bearer token.
type Identity struct {
	ID   uuid.UUID
	Role types.Role
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
