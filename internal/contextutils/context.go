package contextutils

import "context"

type contextKey string

const (
	requestIDKey  contextKey = "request_id"
	userIDKey     contextKey = "user_id"
	userRoleKey   contextKey = "user_role"
	authRecordKey contextKey = "auth_record"
)

// authRecord is a mutable slot filled in once authentication resolves the
// caller. Middleware that runs upstream of the auth layer installs it so it
// can still read the identity after the handler chain returns.
type authRecord struct {
	userID int64
}

// RoleAdmin is the role token granting administrative access
const RoleAdmin = "admin"

// GetRequestID retrieves the request ID from the context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithRequestID adds the request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(ctx context.Context) int64 {
	if id, ok := ctx.Value(userIDKey).(int64); ok {
		return id
	}
	return 0
}

// WithUserID adds the authenticated user ID to the context. When an auth
// record is installed upstream it is filled in as well.
func WithUserID(ctx context.Context, userID int64) context.Context {
	if record, ok := ctx.Value(authRecordKey).(*authRecord); ok {
		record.userID = userID
	}
	return context.WithValue(ctx, userIDKey, userID)
}

// WithAuthRecord installs the slot WithUserID fills in downstream
func WithAuthRecord(ctx context.Context) context.Context {
	return context.WithValue(ctx, authRecordKey, &authRecord{})
}

// RecordedUserID returns the user ID captured by the auth record, or zero
// when the request never authenticated.
func RecordedUserID(ctx context.Context) int64 {
	if record, ok := ctx.Value(authRecordKey).(*authRecord); ok {
		return record.userID
	}
	return 0
}

// GetUserRole retrieves the authenticated user's role from the context
func GetUserRole(ctx context.Context) string {
	if role, ok := ctx.Value(userRoleKey).(string); ok {
		return role
	}
	return ""
}

// WithUserRole adds the authenticated user's role to the context
func WithUserRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, userRoleKey, role)
}

// IsAdmin reports whether the context carries the admin role
func IsAdmin(ctx context.Context) bool {
	return GetUserRole(ctx) == RoleAdmin
}
