// Package cache provides the two-layer read cache that sits in front of the
// translation catalog.
//
// Layer one is request-scoped: a private map carried on the request context,
// guaranteeing at most one store read per (language, key) within a single
// render pass. It is never shared between requests and needs no locking.
//
// Layer two is process-wide: a time-bounded SharedCache keyed by
// (language, key), populated lazily on store read-through and evicted
// immediately when a translation is written. The in-process TTLCache
// implementation lives here; a Redis-backed implementation with the same
// contract lives in integration/database/redis.
//
// # Usage
//
//	shared := cache.NewTTLCache(cache.WithTTL(30 * time.Minute))
//	defer shared.Close()
//
//	// At the request boundary:
//	ctx := cache.WithRequestScope(r.Context())
//
//	// Inside the orchestrator:
//	if text, ok := cache.ScopeLookup(ctx, "fr", "home.title"); ok {
//		return text
//	}
//	if text, ok := shared.Get(ctx, "fr", "home.title"); ok {
//		cache.ScopeStore(ctx, "fr", "home.title", text)
//		return text
//	}
//
// A cache miss is never an error; both layers answer with a boolean.
package cache
