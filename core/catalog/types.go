package catalog

import (
	"context"
	"time"
)

// Provenance records how a translation was produced.
type Provenance string

const (
	ProvenanceManual   Provenance = "manual"
	ProvenanceAI       Provenance = "ai"
	ProvenanceImported Provenance = "imported"
)

// Key is one translatable unit of UI text, identified by a stable
// human-chosen string key. DefaultText holds the canonical source-language
// text and is authoritative: the default language is always served from it,
// never from the translations table.
type Key struct {
	ID          int64     `json:"id" yaml:"id"`
	Key         string    `json:"key" yaml:"key"`
	DefaultText string    `json:"default_text" yaml:"default_text"`
	Category    string    `json:"category,omitempty" yaml:"category,omitempty"`
	Context     string    `json:"context,omitempty" yaml:"context,omitempty"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// Translation is the stored text for one (key, language) pair. At most one
// Translation exists per pair at any time; writes are upserts.
type Translation struct {
	KeyID      int64      `json:"key_id" yaml:"key_id"`
	Language   string     `json:"language" yaml:"language"`
	Text       string     `json:"text" yaml:"text"`
	Provenance Provenance `json:"provenance" yaml:"provenance"`
	Model      string     `json:"model,omitempty" yaml:"model,omitempty"`
	Approved   bool       `json:"approved" yaml:"approved"`
	CreatedAt  time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" yaml:"updated_at"`
}

// Store is the storage contract consumed by the translator orchestrator.
// Backends are independent, swappable implementations; there is no shared
// base type, only this interface.
type Store interface {
	// GetKey returns the key record or ErrNotFound.
	GetKey(ctx context.Context, key string) (*Key, error)

	// UpsertKey creates the key or updates its default text in place.
	// Calling it with an unchanged default text is a no-op that preserves
	// the modification timestamp. Returns the key's ID.
	UpsertKey(ctx context.Context, key, defaultText, category, keyContext string) (int64, error)

	// GetTranslation returns the translated text for (key, language) or
	// ErrNotFound.
	GetTranslation(ctx context.Context, key, language string) (string, error)

	// UpsertTranslation inserts or replaces the translation for
	// (keyID, language). Concurrent duplicate writers must converge to a
	// single row; the later write wins.
	UpsertTranslation(ctx context.Context, keyID int64, language, text string, provenance Provenance, model string) error

	// ListKeys returns every key in the catalog.
	ListKeys(ctx context.Context) ([]Key, error)

	// ListLanguages returns the distinct languages present in the
	// translations plus the default language, default first.
	ListLanguages(ctx context.Context) ([]string, error)
}
