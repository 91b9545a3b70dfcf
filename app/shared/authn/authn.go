// Package authn carries the authenticated identity through request
// contexts. The HTTP middleware sets it; handlers read it.
package authn

import "context"

type contextKey string

const (
	userIDKey contextKey = "auth_user_id"
	roleKey   contextKey = "auth_role"
)

// Roles recognized by the admin middleware.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// WithIdentity returns a context carrying the authenticated user and role.
func WithIdentity(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

// UserID returns the authenticated user ID, or "" if unauthenticated.
func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// Role returns the authenticated role, or "" if unauthenticated.
func Role(ctx context.Context) string {
	if role, ok := ctx.Value(roleKey).(string); ok {
		return role
	}
	return ""
}
