package multiauth

import "context"

// Context keys for auth-related values.
type contextKey int

const (
	userIDKey contextKey = iota
	principalsKey
)

// WithUserID returns a new context with the authenticated userid attached.
func WithUserID(ctx context.Context, userid string) context.Context {
	return context.WithValue(ctx, userIDKey, userid)
}

// UserIDFromContext retrieves the authenticated userid from the context.
// Returns "" if none is present.
func UserIDFromContext(ctx context.Context) string {
	userid, _ := ctx.Value(userIDKey).(string)
	return userid
}

// WithPrincipals returns a new context with the effective principals attached.
func WithPrincipals(ctx context.Context, principals PrincipalSet) context.Context {
	return context.WithValue(ctx, principalsKey, principals)
}

// PrincipalsFromContext retrieves the effective principals from the context.
// Returns nil if none are present.
func PrincipalsFromContext(ctx context.Context) PrincipalSet {
	principals, _ := ctx.Value(principalsKey).(PrincipalSet)
	return principals
}
