package translator_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/linguakit/core/cache"
	"github.com/dmitrymomot/linguakit/core/catalog"
	"github.com/dmitrymomot/linguakit/core/translator"
)

// markerAdapter translates by prefixing the target language, e.g.
// "Welcome" → "[fr] Welcome". Set broken to simulate a failing backend
// that degrades to pass-through.
type markerAdapter struct {
	mu          sync.Mutex
	broken      bool
	batchOmit   map[string]bool
	batchCalls  int
	singleCalls int
}

func (a *markerAdapter) Translate(ctx context.Context, text, targetLang, sourceLang string) string {
	a.mu.Lock()
	a.singleCalls++
	broken := a.broken
	a.mu.Unlock()
	if broken {
		return text
	}
	return "[" + targetLang + "] " + text
}

func (a *markerAdapter) TranslateBatch(ctx context.Context, items map[string]string, targetLang, sourceLang string) map[string]string {
	a.mu.Lock()
	a.batchCalls++
	broken := a.broken
	omit := a.batchOmit
	a.mu.Unlock()
	if broken {
		return nil
	}
	out := make(map[string]string, len(items))
	for key, text := range items {
		if omit[key] {
			continue
		}
		out[key] = "[" + targetLang + "] " + text
	}
	return out
}

func (a *markerAdapter) counts() (batch, single int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.batchCalls, a.singleCalls
}

func newService(t *testing.T, adapter translator.Adapter) (*translator.Service, *catalog.MemoryStore) {
	t.Helper()
	store := catalog.NewMemoryStore()
	svc, err := translator.New(store, adapter)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc, store
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires store", func(t *testing.T) {
		t.Parallel()

		_, err := translator.New(nil, &markerAdapter{})
		assert.ErrorIs(t, err, translator.ErrNilStore)
	})

	t.Run("requires adapter", func(t *testing.T) {
		t.Parallel()

		_, err := translator.New(catalog.NewMemoryStore(), nil)
		assert.ErrorIs(t, err, translator.ErrNilAdapter)
	})
}

func TestService_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("default language served from default text", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t, &markerAdapter{})
		ctx := context.Background()

		_, err := svc.EnsureKey(ctx, "home.title", "Welcome", "", "")
		require.NoError(t, err)

		assert.Equal(t, "Welcome", svc.Resolve(ctx, "home.title", "en"))
	})

	t.Run("untranslated key falls back to default text", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t, &markerAdapter{})
		ctx := context.Background()

		_, err := svc.EnsureKey(ctx, "home.title", "Welcome", "", "")
		require.NoError(t, err)

		// Before any translation exists, every language resolves to the
		// same text as the default language.
		assert.Equal(t, svc.Resolve(ctx, "home.title", "en"), svc.Resolve(ctx, "home.title", "fr"))
	})

	t.Run("unknown key resolves to the literal key", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t, &markerAdapter{})

		assert.Equal(t, "no.such.key", svc.Resolve(context.Background(), "no.such.key", "en"))
	})

	t.Run("translated key resolves to its translation", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t, &markerAdapter{})
		ctx := context.Background()

		_, err := svc.EnsureKey(ctx, "home.title", "Welcome", "", "")
		require.NoError(t, err)
		require.NoError(t, svc.SetTranslation(ctx, "home.title", "fr", "Bienvenue", catalog.ProvenanceManual, ""))

		assert.Equal(t, "Bienvenue", svc.Resolve(ctx, "home.title", "fr"))
	})

	t.Run("language codes are normalized", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t, &markerAdapter{})
		ctx := context.Background()

		_, err := svc.EnsureKey(ctx, "home.title", "Welcome", "", "")
		require.NoError(t, err)
		require.NoError(t, svc.SetTranslation(ctx, "home.title", "fr", "Bienvenue", catalog.ProvenanceManual, ""))

		assert.Equal(t, "Bienvenue", svc.Resolve(ctx, "home.title", "FR"))
	})

	t.Run("write evicts stale shared cache entry", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t, &markerAdapter{})
		ctx := context.Background()

		_, err := svc.EnsureKey(ctx, "home.title", "Welcome", "", "")
		require.NoError(t, err)

		// Prime the shared cache with the fallback text.
		assert.Equal(t, "Welcome", svc.Resolve(ctx, "home.title", "fr"))

		require.NoError(t, svc.SetTranslation(ctx, "home.title", "fr", "Bienvenue", catalog.ProvenanceManual, ""))

		assert.Equal(t, "Bienvenue", svc.Resolve(ctx, "home.title", "fr"))
	})

	t.Run("request scope guarantees one store read per key", func(t *testing.T) {
		t.Parallel()

		adapter := &markerAdapter{}
		store := catalog.NewMemoryStore()
		counting := &countingStore{Store: store}
		svc, err := translator.New(counting, adapter)
		require.NoError(t, err)
		t.Cleanup(func() { _ = svc.Close() })

		ctx := context.Background()
		_, err = svc.EnsureKey(ctx, "home.title", "Welcome", "", "")
		require.NoError(t, err)

		rctx := cache.WithRequestScope(ctx)
		before := counting.reads()
		svc.Resolve(rctx, "home.title", "fr")
		svc.Resolve(rctx, "home.title", "fr")
		svc.Resolve(rctx, "home.title", "fr")
		// First call misses both layers; the shared cache was empty, so it
		// reads through once. Repeats are scope hits.
		assert.Equal(t, before+2, counting.reads(), "one GetTranslation + one GetKey, then cache hits")
	})
}

func TestService_ResolveWithDefault(t *testing.T) {
	t.Parallel()

	t.Run("serves the supplied text for a new key", func(t *testing.T) {
		t.Parallel()

		svc, store := newService(t, &markerAdapter{})
		ctx := context.Background()

		got := svc.ResolveWithDefault(ctx, "home.cta", "en", "Get started")
		assert.Equal(t, "Get started", got)

		// The write happens off the render path; wait for it.
		require.Eventually(t, func() bool {
			k, err := store.GetKey(ctx, "home.cta")
			return err == nil && k.DefaultText == "Get started"
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("serves the supplied text for a new key in a non-default language", func(t *testing.T) {
		t.Parallel()

		svc, store := newService(t, &markerAdapter{})
		ctx := context.Background()

		// A plain read beats the key record and caches the literal-key
		// fallback under the active language.
		assert.Equal(t, "home.cta", svc.Resolve(ctx, "home.cta", "fr"))

		got := svc.ResolveWithDefault(ctx, "home.cta", "fr", "Get started")
		assert.Equal(t, "Get started", got, "a brand-new key has no translation in any language")

		require.Eventually(t, func() bool {
			k, err := store.GetKey(ctx, "home.cta")
			return err == nil && k.DefaultText == "Get started"
		}, time.Second, 10*time.Millisecond)

		// The detached write also evicts the stale literal-key entry.
		assert.Eventually(t, func() bool {
			return svc.Resolve(ctx, "home.cta", "fr") == "Get started"
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("records changed default text without blocking", func(t *testing.T) {
		t.Parallel()

		svc, store := newService(t, &markerAdapter{})
		ctx := context.Background()

		_, err := svc.EnsureKey(ctx, "home.title", "Welcome", "", "")
		require.NoError(t, err)

		svc.ResolveWithDefault(ctx, "home.title", "en", "Welcome back")

		require.Eventually(t, func() bool {
			k, err := store.GetKey(ctx, "home.title")
			return err == nil && k.DefaultText == "Welcome back"
		}, time.Second, 10*time.Millisecond)
	})
}

func TestService_SetTranslation(t *testing.T) {
	t.Parallel()

	t.Run("rejects the default language", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t, &markerAdapter{})
		ctx := context.Background()

		_, err := svc.EnsureKey(ctx, "home.title", "Welcome", "", "")
		require.NoError(t, err)

		err = svc.SetTranslation(ctx, "home.title", "en", "Welcome", catalog.ProvenanceManual, "")
		assert.ErrorIs(t, err, translator.ErrDefaultLanguage)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t, &markerAdapter{})
		err := svc.SetTranslation(context.Background(), "no.such.key", "fr", "x", catalog.ProvenanceManual, "")
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})
}

// countingStore counts read operations passing through to the inner store.
type countingStore struct {
	catalog.Store
	mu    sync.Mutex
	count int
}

func (c *countingStore) GetKey(ctx context.Context, key string) (*catalog.Key, error) {
	c.inc()
	return c.Store.GetKey(ctx, key)
}

func (c *countingStore) GetTranslation(ctx context.Context, key, language string) (string, error) {
	c.inc()
	return c.Store.GetTranslation(ctx, key, language)
}

func (c *countingStore) inc() {
	c.mu.Lock()
	c.count++
	c.mu.Unlock()
}

func (c *countingStore) reads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}
