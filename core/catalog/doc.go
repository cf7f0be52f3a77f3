// Package catalog defines the translation catalog data model and the Store
// contract shared by all storage backends.
//
// A catalog maps stable string keys (e.g. "home.title") to their canonical
// default-language text plus any number of per-language translations. The
// package ships two dependency-light backends: an in-memory store for tests
// and volatile deployments, and a YAML file store for small installations.
// PostgreSQL and MongoDB backends live under integration/database.
//
// # Data Model
//
// Key is the unit of translatable UI text. It is created the first time a
// key is encountered during rendering and its default text is versioned by
// overwrite. Keys are never deleted.
//
// Translation belongs to exactly one Key and is unique per (key, language)
// pair. Writes are upserts; concurrent duplicate writers converge to a
// single row rather than failing on conflict.
//
// # Usage
//
//	store := catalog.NewMemoryStore()
//
//	id, err := store.UpsertKey(ctx, "home.title", "Welcome", "", "")
//	if err != nil {
//		return err
//	}
//
//	if err := store.UpsertTranslation(ctx, id, "fr", "Bienvenue", catalog.ProvenanceAI, "gpt-4o-mini"); err != nil {
//		return err
//	}
//
//	text, err := store.GetTranslation(ctx, "home.title", "fr")
//	if errors.Is(err, catalog.ErrNotFound) {
//		// fall back to the key's default text
//	}
//
// All Store implementations are safe for concurrent use.
package catalog
