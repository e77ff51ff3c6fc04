package auth

import (
	"context"
	"slices"
)

// Principal is the authenticated caller of a request. It is placed on the
// request context by the auth middleware and passed explicitly to anything
// that needs to know who is asking (e.g. which signature to embed).
type Principal struct {
	UserID string
	Name   string
	Roles  []string
}

// HasRole reports whether p holds role. Admins hold every role.
func (p Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role) || slices.Contains(p.Roles, RoleAdmin)
}

// DisplayName is the name printed on documents, falling back to the user id.
func (p Principal) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.UserID
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the caller set by the auth middleware.
// ok is false for unauthenticated contexts.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
