package appctx

import "context"

// ContextKey is the shared type for all context keys in this codebase.
// Keeping it in a tiny package avoids import cycles (config <-> utils).
type ContextKey string

func (c ContextKey) String() string { return string(c) }

var (
	ContextKeyToken         = ContextKey("Token")
	ContextKeyUsername      = ContextKey("Username")
	ContextKeyUserId        = ContextKey("UserId")
	ContextKeyRole          = ContextKey("Role")
	ContextKeySite          = ContextKey("Site")
	ContextKeyCorrelationId = ContextKey("CorrelationId")

	// ContextKeySectionPath carries the dashboard section a request acts on.
	// Write permission is resolved from it on every request, never cached
	// per-session: navigating between sections changes the writable set.
	ContextKeySectionPath = ContextKey("SectionPath")
)

func GetString(ctx context.Context, key ContextKey) (string, bool) {
	v, ok := ctx.Value(key).(string)
	return v, ok
}

func Set(ctx context.Context, key ContextKey, value any) context.Context {
	return context.WithValue(ctx, key, value)
}
