package translator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/linguakit/core/cache"
	"github.com/dmitrymomot/linguakit/core/catalog"
	"github.com/dmitrymomot/linguakit/core/logger"
	"github.com/dmitrymomot/linguakit/pkg/broadcast"
)

// DefaultEventBuffer is the per-subscriber event buffer size.
const DefaultEventBuffer = 100

// Service is the translation orchestrator. It owns the invariant that a
// persisted translation reflects the latest accepted AI output for its
// (key, language) pair; the cache tier is only a read-through projection
// of that and is evicted on every write.
type Service struct {
	store       catalog.Store
	jobStore    catalog.Store
	adapter     Adapter
	shared      cache.SharedCache
	hub         *broadcast.MemoryBroadcaster[Event]
	log         *slog.Logger
	defaultLang string
	modelName   string
	ownedCache  *cache.TTLCache

	jobs sync.WaitGroup
}

// Option configures the Service during construction.
type Option func(*Service)

// WithSharedCache sets the process-wide cache tier. Defaults to an owned
// in-process TTL cache; pass the Redis implementation for multi-instance
// deployments.
func WithSharedCache(c cache.SharedCache) Option {
	return func(s *Service) {
		if c != nil {
			s.shared = c
		}
	}
}

// WithDefaultLanguage sets the source language whose text lives on the key
// records themselves. Default is catalog.DefaultLanguage ("en").
func WithDefaultLanguage(lang string) Option {
	return func(s *Service) {
		if lang != "" {
			s.defaultLang = lang
		}
	}
}

// WithLogger configures structured logging. Logging is discarded by default.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithJobStore supplies a dedicated store handle for background jobs,
// decoupled from whatever the request path uses. Defaults to the service
// store, which is already request-independent for the shipped backends.
func WithJobStore(store catalog.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.jobStore = store
		}
	}
}

// WithEventBuffer sets the per-subscriber broadcast buffer size.
func WithEventBuffer(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.hub = broadcast.NewMemoryBroadcaster[Event](size)
		}
	}
}

// New creates the orchestrator. store and adapter are required; everything
// else has working defaults.
func New(store catalog.Store, adapter Adapter, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if adapter == nil {
		return nil, ErrNilAdapter
	}

	s := &Service{
		store:       store,
		jobStore:    store,
		adapter:     adapter,
		hub:         broadcast.NewMemoryBroadcaster[Event](DefaultEventBuffer),
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		defaultLang: catalog.DefaultLanguage,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("translator"))

	if s.shared == nil {
		s.ownedCache = cache.NewTTLCache()
		s.shared = s.ownedCache
	}
	if mn, ok := adapter.(ModelNamer); ok {
		s.modelName = mn.Model()
	}

	return s, nil
}

// Subscribe attaches a listener to the three broadcast event kinds. The
// subscription dies with ctx. Transport mechanics (SSE, WebSocket) are the
// caller's concern; listeners self-filter by Event.Language.
func (s *Service) Subscribe(ctx context.Context) broadcast.Subscriber[Event] {
	return s.hub.Subscribe(ctx)
}

// Close waits for in-flight background jobs and shuts the event hub down.
func (s *Service) Close() error {
	s.jobs.Wait()
	if s.ownedCache != nil {
		s.ownedCache.Close()
	}
	return s.hub.Close()
}

// DefaultLanguage returns the configured source language.
func (s *Service) DefaultLanguage() string {
	return s.defaultLang
}

// Languages lists the distinct languages known to the catalog, default
// language first.
func (s *Service) Languages(ctx context.Context) ([]string, error) {
	return s.store.ListLanguages(ctx)
}

// Resolve returns the text to render for (key, language): the stored
// translation when one exists, the key's default text otherwise, or the
// literal key as a last resort for unknown keys. It never returns an error
// and never blocks on translation work. Lookups go request scope → shared
// cache → store, with exactly one store read per key per request.
func (s *Service) Resolve(ctx context.Context, key, lang string) string {
	lang = s.normalizeOrDefault(lang)

	if text, ok := cache.ScopeLookup(ctx, lang, key); ok {
		return text
	}
	if text, ok := s.shared.Get(ctx, lang, key); ok {
		cache.ScopeStore(ctx, lang, key, text)
		return text
	}

	text := s.resolveFromStore(ctx, key, lang)
	s.shared.Set(ctx, lang, key, text)
	cache.ScopeStore(ctx, lang, key, text)
	return text
}

// ResolveWithDefault behaves like Resolve but also records defaultText as
// the key's canonical text when the caller supplies one that differs from
// the stored value. The write is fire-and-forget so rendering never waits
// on it.
func (s *Service) ResolveWithDefault(ctx context.Context, key, lang, defaultText string) string {
	if defaultText == "" {
		return s.Resolve(ctx, key, lang)
	}

	k, err := s.store.GetKey(ctx, key)
	if errors.Is(err, catalog.ErrNotFound) || (err == nil && k.DefaultText != defaultText) {
		evictLang := s.normalizeOrDefault(lang)
		s.jobs.Add(1)
		go func() {
			defer s.jobs.Done()
			// Detached from the request; the render pass must not block.
			ctx := context.Background()
			if _, err := s.jobStore.UpsertKey(ctx, key, defaultText, "", ""); err != nil {
				s.log.Error("record default text", "key", key, logger.Error(err))
				return
			}
			s.shared.Delete(ctx, s.defaultLang, key)
			if evictLang != s.defaultLang {
				// A read racing ahead of the key record may have cached the
				// literal-key fallback for the active language.
				s.shared.Delete(ctx, evictLang, key)
			}
		}()
	}
	if errors.Is(err, catalog.ErrNotFound) {
		// First encounter: no translation can exist yet for any language,
		// so the supplied text is the fallback this pass.
		return defaultText
	}
	return s.Resolve(ctx, key, lang)
}

// EnsureKey registers a key with its default text. It is idempotent and
// safe to call redundantly from concurrent render passes: unchanged text is
// a no-op, changed text updates the record in place, and no duplicate keys
// can be created. Returns the key ID.
func (s *Service) EnsureKey(ctx context.Context, key, defaultText, category, keyContext string) (int64, error) {
	return s.store.UpsertKey(ctx, key, defaultText, category, keyContext)
}

// SetTranslation records a manual or imported translation for key, evicts
// the shared cache entry so the next read observes the new text, and
// broadcasts the change to listeners.
func (s *Service) SetTranslation(ctx context.Context, key, lang, text string, provenance catalog.Provenance, model string) error {
	normalized, err := s.normalizeLanguage(lang)
	if err != nil {
		return err
	}
	lang = normalized
	if lang == s.defaultLang {
		return ErrDefaultLanguage
	}

	k, err := s.store.GetKey(ctx, key)
	if err != nil {
		return err
	}
	if err := s.store.UpsertTranslation(ctx, k.ID, lang, text, provenance, model); err != nil {
		return err
	}
	s.shared.Delete(ctx, lang, key)
	s.publish(ctx, stringTranslatedEvent(lang, key, text))
	return nil
}

// resolveFromStore performs the single store read behind both cache layers.
func (s *Service) resolveFromStore(ctx context.Context, key, lang string) string {
	if lang != s.defaultLang {
		text, err := s.store.GetTranslation(ctx, key, lang)
		if err == nil {
			return text
		}
		if !errors.Is(err, catalog.ErrNotFound) {
			s.log.Error("read translation", "key", key, logger.Language(lang), logger.Error(err))
		}
	}

	k, err := s.store.GetKey(ctx, key)
	if err != nil {
		if !errors.Is(err, catalog.ErrNotFound) {
			s.log.Error("read key", "key", key, logger.Error(err))
		}
		// Unknown key renders as itself: visible but safe.
		return key
	}
	return k.DefaultText
}

// normalizeLanguage canonicalizes a BCP 47 code ("FR" → "fr", "pt-br" →
// "pt-BR") so cache and store rows agree on spelling.
func (s *Service) normalizeLanguage(lang string) (string, error) {
	if lang == "" {
		return s.defaultLang, nil
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return "", ErrInvalidLanguage
	}
	return tag.String(), nil
}

// normalizeOrDefault is the tolerant variant for render-path lookups, where
// a bad code must not break the page.
func (s *Service) normalizeOrDefault(lang string) string {
	normalized, err := s.normalizeLanguage(lang)
	if err != nil {
		return lang
	}
	return normalized
}
