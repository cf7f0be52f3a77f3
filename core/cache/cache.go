package cache

import "context"

// SharedCache is the process-wide (or cluster-wide) translation cache tier.
// Entries are keyed by (language, key). Implementations must be safe for
// concurrent use and must treat misses as ordinary control flow, never as
// errors.
type SharedCache interface {
	// Get returns the cached text for (language, key), if present.
	Get(ctx context.Context, language, key string) (string, bool)

	// Set stores the text for (language, key) for the cache's lifetime
	// policy (e.g. TTL).
	Set(ctx context.Context, language, key, text string)

	// Delete evicts the entry for (language, key). Evicting an absent
	// entry is a no-op.
	Delete(ctx context.Context, language, key string)
}

// entryKey builds the composite cache key for a (language, key) pair.
func entryKey(language, key string) string {
	return language + ":" + key
}
