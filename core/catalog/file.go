package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// FileStore is a Store backed by a single YAML document on disk. The whole
// catalog is loaded on open and rewritten on every mutation, which keeps the
// implementation trivial and is perfectly adequate for the catalog sizes a
// UI-string layer deals with (hundreds to low thousands of keys).
type FileStore struct {
	mu          sync.RWMutex
	path        string
	doc         fileDoc
	byKey       map[string]int // index into doc.Keys
	defaultLang string
}

type fileDoc struct {
	NextID       int64         `yaml:"next_id"`
	Keys         []Key         `yaml:"keys"`
	Translations []Translation `yaml:"translations"`
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithFileDefaultLanguage overrides the default language reported by
// ListLanguages. Default is "en".
func WithFileDefaultLanguage(lang string) FileStoreOption {
	return func(s *FileStore) {
		if lang != "" {
			s.defaultLang = lang
		}
	}
}

// NewFileStore opens (or creates on first write) a YAML-backed catalog at
// path. A missing file is not an error; it is treated as an empty catalog.
func NewFileStore(path string, opts ...FileStoreOption) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("catalog: file store path cannot be empty")
	}

	s := &FileStore{
		path:        path,
		doc:         fileDoc{NextID: 1},
		byKey:       make(map[string]int),
		defaultLang: DefaultLanguage,
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Empty catalog until the first write.
	case err != nil:
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(raw, &s.doc); err != nil {
			return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
		}
		if s.doc.NextID < 1 {
			s.doc.NextID = 1
		}
		for i, k := range s.doc.Keys {
			s.byKey[k.Key] = i
			if k.ID >= s.doc.NextID {
				s.doc.NextID = k.ID + 1
			}
		}
	}

	return s, nil
}

// persist writes the document atomically via a temp file rename. Caller
// must hold the write lock.
func (s *FileStore) persist() error {
	raw, err := yaml.Marshal(&s.doc)
	if err != nil {
		return fmt.Errorf("catalog: marshal catalog: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("catalog: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".catalog-*.yaml")
	if err != nil {
		return fmt.Errorf("catalog: create temp file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("catalog: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("catalog: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("catalog: replace %s: %w", s.path, err)
	}
	return nil
}

// GetKey returns the key record or ErrNotFound.
func (s *FileStore) GetKey(ctx context.Context, key string) (*Key, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byKey[key]
	if !ok {
		return nil, ErrNotFound
	}
	clone := s.doc.Keys[i]
	return &clone, nil
}

// UpsertKey creates the key or updates its default text in place, then
// persists the catalog. Unchanged default text is a no-op with no disk
// write.
func (s *FileStore) UpsertKey(ctx context.Context, key, defaultText, category, keyContext string) (int64, error) {
	if key == "" {
		return 0, ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if i, ok := s.byKey[key]; ok {
		k := &s.doc.Keys[i]
		changed := false
		if k.DefaultText != defaultText {
			k.DefaultText = defaultText
			changed = true
		}
		if category != "" && k.Category != category {
			k.Category = category
			changed = true
		}
		if keyContext != "" && k.Context != keyContext {
			k.Context = keyContext
			changed = true
		}
		if !changed {
			return k.ID, nil
		}
		k.UpdatedAt = now
		if err := s.persist(); err != nil {
			return 0, err
		}
		return k.ID, nil
	}

	k := Key{
		ID:          s.doc.NextID,
		Key:         key,
		DefaultText: defaultText,
		Category:    category,
		Context:     keyContext,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.doc.NextID++
	s.doc.Keys = append(s.doc.Keys, k)
	s.byKey[key] = len(s.doc.Keys) - 1
	if err := s.persist(); err != nil {
		return 0, err
	}
	return k.ID, nil
}

// GetTranslation returns the translated text for (key, language) or
// ErrNotFound.
func (s *FileStore) GetTranslation(ctx context.Context, key, language string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	if language == "" {
		return "", ErrEmptyLang
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byKey[key]
	if !ok {
		return "", ErrNotFound
	}
	keyID := s.doc.Keys[i].ID
	for j := range s.doc.Translations {
		tr := &s.doc.Translations[j]
		if tr.KeyID == keyID && tr.Language == language {
			return tr.Text, nil
		}
	}
	return "", ErrNotFound
}

// UpsertTranslation inserts or replaces the translation for
// (keyID, language) and persists the catalog.
func (s *FileStore) UpsertTranslation(ctx context.Context, keyID int64, language, text string, provenance Provenance, model string) error {
	if keyID <= 0 {
		return ErrInvalidKeyID
	}
	if language == "" {
		return ErrEmptyLang
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for j := range s.doc.Translations {
		tr := &s.doc.Translations[j]
		if tr.KeyID == keyID && tr.Language == language {
			tr.Text = text
			tr.Provenance = provenance
			tr.Model = model
			tr.UpdatedAt = now
			return s.persist()
		}
	}
	s.doc.Translations = append(s.doc.Translations, Translation{
		KeyID:      keyID,
		Language:   language,
		Text:       text,
		Provenance: provenance,
		Model:      model,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	return s.persist()
}

// ListKeys returns every key in the catalog, sorted by key.
func (s *FileStore) ListKeys(ctx context.Context) ([]Key, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Key, len(s.doc.Keys))
	copy(out, s.doc.Keys)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// ListLanguages returns the distinct translation languages plus the default
// language, default first.
func (s *FileStore) ListLanguages(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]bool{s.defaultLang: true}
	langs := []string{s.defaultLang}
	for j := range s.doc.Translations {
		lang := s.doc.Translations[j].Language
		if !seen[lang] {
			seen[lang] = true
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs[1:])
	return langs, nil
}
