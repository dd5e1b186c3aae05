package middleware

import (
	"context"

	"github.com/angelmondragon/leaddesk-backend/pkg/enums"
	"github.com/google/uuid"
)

type contextKey string

const ctxIdentity contextKey = "identity"

// Identity is the authenticated caller, loaded from the users table.
type Identity struct {
	UserID uuid.UUID
	Name   string
	Email  string
	Role   enums.Role
}

// WithIdentity injects the caller into the context.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIdentity, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	identity, ok := ctx.Value(ctxIdentity).(Identity)
	return identity, ok
}

func UserIDFromContext(ctx context.Context) string {
	if identity, ok := IdentityFromContext(ctx); ok {
		return identity.UserID.String()
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if identity, ok := IdentityFromContext(ctx); ok {
		return string(identity.Role)
	}
	return ""
}
