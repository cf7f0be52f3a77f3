package cache

import "context"

// scopeContextKey is an unexported key type to avoid context key collisions.
type scopeContextKey struct{}

// requestScope is the per-request cache layer. It is owned by exactly one
// in-flight request and must never be shared, so access is unsynchronized.
type requestScope struct {
	entries map[string]string
}

// WithRequestScope returns a context carrying a fresh request-scoped cache.
// Call it once at the request boundary; the scope dies with the context.
// If ctx is nil, context.Background() is used.
func WithRequestScope(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, scopeContextKey{}, &requestScope{
		entries: make(map[string]string),
	})
}

// ScopeLookup returns the request-scoped text for (language, key). The
// second return value is false when no scope is attached or the entry is
// absent.
func ScopeLookup(ctx context.Context, language, key string) (string, bool) {
	if ctx == nil {
		return "", false
	}
	scope, ok := ctx.Value(scopeContextKey{}).(*requestScope)
	if !ok {
		return "", false
	}
	text, ok := scope.entries[entryKey(language, key)]
	return text, ok
}

// ScopeStore records the text for (language, key) in the request scope.
// It is a no-op when the context carries no scope, so callers need not
// distinguish scoped from unscoped contexts.
func ScopeStore(ctx context.Context, language, key, text string) {
	if ctx == nil {
		return
	}
	if scope, ok := ctx.Value(scopeContextKey{}).(*requestScope); ok {
		scope.entries[entryKey(language, key)] = text
	}
}
