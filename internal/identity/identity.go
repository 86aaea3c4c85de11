// Package identity carries the authenticated caller through a request context.
package identity

import (
	"context"

	"github.com/Skotchmaster/skz_roster/internal/models"
)

type Identity struct {
	ID       uint
	Username string
	Role     string
}

func (i Identity) IsAdmin() bool { return i.Role == models.RoleAdmin }

type ctxKey struct{}

func IntoContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
