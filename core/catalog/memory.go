package catalog

import (
	"context"
	"sort"
	"sync"
	"time"
)

// DefaultLanguage is the language served from Key.DefaultText when no other
// default is configured.
const DefaultLanguage = "en"

// MemoryStore is a volatile, in-memory Store implementation. It is the
// reference backend for tests and single-process deployments that do not
// need durability.
type MemoryStore struct {
	mu           sync.RWMutex
	keys         map[string]*Key
	translations map[int64]map[string]*Translation
	nextID       int64
	defaultLang  string
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithMemoryDefaultLanguage overrides the default language reported by
// ListLanguages. Default is "en".
func WithMemoryDefaultLanguage(lang string) MemoryStoreOption {
	return func(s *MemoryStore) {
		if lang != "" {
			s.defaultLang = lang
		}
	}
}

// NewMemoryStore creates an empty in-memory catalog store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		keys:         make(map[string]*Key),
		translations: make(map[int64]map[string]*Translation),
		nextID:       1,
		defaultLang:  DefaultLanguage,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetKey returns the key record or ErrNotFound.
func (s *MemoryStore) GetKey(ctx context.Context, key string) (*Key, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	k, ok := s.keys[key]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *k
	return &clone, nil
}

// UpsertKey creates the key or updates its default text in place. The
// write is serialized by the store mutex, so redundant concurrent calls
// cannot produce duplicate keys or lost updates.
func (s *MemoryStore) UpsertKey(ctx context.Context, key, defaultText, category, keyContext string) (int64, error) {
	if key == "" {
		return 0, ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := s.keys[key]; ok {
		changed := false
		if existing.DefaultText != defaultText {
			existing.DefaultText = defaultText
			changed = true
		}
		if category != "" && existing.Category != category {
			existing.Category = category
			changed = true
		}
		if keyContext != "" && existing.Context != keyContext {
			existing.Context = keyContext
			changed = true
		}
		if changed {
			existing.UpdatedAt = now
		}
		return existing.ID, nil
	}

	k := &Key{
		ID:          s.nextID,
		Key:         key,
		DefaultText: defaultText,
		Category:    category,
		Context:     keyContext,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.nextID++
	s.keys[key] = k
	return k.ID, nil
}

// GetTranslation returns the translated text for (key, language) or
// ErrNotFound.
func (s *MemoryStore) GetTranslation(ctx context.Context, key, language string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	if language == "" {
		return "", ErrEmptyLang
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	k, ok := s.keys[key]
	if !ok {
		return "", ErrNotFound
	}
	tr, ok := s.translations[k.ID][language]
	if !ok {
		return "", ErrNotFound
	}
	return tr.Text, nil
}

// UpsertTranslation inserts or replaces the translation for
// (keyID, language). The later of two concurrent writes wins.
func (s *MemoryStore) UpsertTranslation(ctx context.Context, keyID int64, language, text string, provenance Provenance, model string) error {
	if keyID <= 0 {
		return ErrInvalidKeyID
	}
	if language == "" {
		return ErrEmptyLang
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	byLang, ok := s.translations[keyID]
	if !ok {
		byLang = make(map[string]*Translation)
		s.translations[keyID] = byLang
	}
	if existing, ok := byLang[language]; ok {
		existing.Text = text
		existing.Provenance = provenance
		existing.Model = model
		existing.UpdatedAt = now
		return nil
	}
	byLang[language] = &Translation{
		KeyID:      keyID,
		Language:   language,
		Text:       text,
		Provenance: provenance,
		Model:      model,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return nil
}

// ListKeys returns every key in the catalog, sorted by key for stable
// iteration order.
func (s *MemoryStore) ListKeys(ctx context.Context) ([]Key, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Key, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, *k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// ListLanguages returns the distinct translation languages plus the default
// language, default first, the rest sorted alphabetically.
func (s *MemoryStore) ListLanguages(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]bool{s.defaultLang: true}
	langs := []string{s.defaultLang}
	for _, byLang := range s.translations {
		for lang := range byLang {
			if !seen[lang] {
				seen[lang] = true
				langs = append(langs, lang)
			}
		}
	}
	sort.Strings(langs[1:])
	return langs, nil
}
