package auth

import (
	"context"
)

// UserContext holds authenticated operator information
type UserContext struct {
	UserID string
	Email  string
	Roles  []string
	// AuthType is "jwt" or "api_key"
	AuthType string
}

type contextKey string

const userContextKey contextKey = "userContext"

// SystemUserID identifies requests authenticated with the admin API key
const SystemUserID = "system"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// HasRole checks if user has a specific role
func (u *UserContext) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// DisplayName returns the best available human-readable identity
func (u *UserContext) DisplayName() string {
	if u.Email != "" {
		return u.Email
	}
	return u.UserID
}
