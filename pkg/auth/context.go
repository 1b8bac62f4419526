package auth

import (
	"context"
	"errors"
)

// UserContext is the identity resolved from a verified token, carried in
// the request context by the authentication middleware.
type UserContext struct {
	UserID string
	Email  string
}

type contextKey string

const userContextKey contextKey = "auth.user"

// ErrNoUserInContext is returned when no identity was resolved for the
// current request.
var ErrNoUserInContext = errors.New("no user in context")

// SetUserInContext stores the resolved user in the context.
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext extracts the resolved user from the context.
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, ErrNoUserInContext
	}
	return user, nil
}
