package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID   ctxKey = "user_id"
	CtxKeyRole     ctxKey = "role"
	CtxKeyOfficeID ctxKey = "office_id"
)

// UserIDFromContext returns the authenticated user id, or "" when the
// request was not authenticated.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// RoleFromContext returns the authenticated caller's role, or "".
func RoleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyRole).(string); ok {
		return v
	}
	return ""
}

// OfficeIDFromContext returns the authenticated caller's home office, or "".
func OfficeIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyOfficeID).(string); ok {
		return v
	}
	return ""
}
