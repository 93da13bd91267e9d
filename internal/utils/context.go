package utils

import "context"

type contextKey string

const (
	// ContextKeyUserID is the request-context key for the authenticated user id
	ContextKeyUserID contextKey = "user_id"
	// ContextKeyEmail is the request-context key for the authenticated email
	ContextKeyEmail contextKey = "email"
)

// WithIdentity attaches the authenticated identity to the context
func WithIdentity(ctx context.Context, userID int64, email string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyUserID, userID)
	return context.WithValue(ctx, ContextKeyEmail, email)
}

// GetUserIDFromContext extracts the authenticated user id from the context
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ContextKeyUserID).(int64)
	return id, ok
}

// GetEmailFromContext extracts the authenticated email from the context
func GetEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(ContextKeyEmail).(string)
	return email, ok
}
