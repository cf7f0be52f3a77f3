package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/linguakit/core/catalog"
)

// Store is the PostgreSQL-backed catalog.Store. All writes are ON CONFLICT
// upserts, so concurrent duplicate writers converge instead of failing.
type Store struct {
	pool        *pgxpool.Pool
	defaultLang string
}

// StoreOption configures the Store.
type StoreOption func(*Store)

// WithDefaultLanguage overrides the default language reported by
// ListLanguages. Default is "en".
func WithDefaultLanguage(lang string) StoreOption {
	return func(s *Store) {
		if lang != "" {
			s.defaultLang = lang
		}
	}
}

// NewStore creates a catalog store on top of an established pool.
func NewStore(pool *pgxpool.Pool, opts ...StoreOption) *Store {
	s := &Store{
		pool:        pool,
		defaultLang: catalog.DefaultLanguage,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetKey returns the key record or catalog.ErrNotFound.
func (s *Store) GetKey(ctx context.Context, key string) (*catalog.Key, error) {
	if key == "" {
		return nil, catalog.ErrEmptyKey
	}

	const q = `
		SELECT id, key, default_text, category, context, created_at, updated_at
		FROM translation_keys
		WHERE key = $1`

	var k catalog.Key
	err := s.pool.QueryRow(ctx, q, key).Scan(
		&k.ID, &k.Key, &k.DefaultText, &k.Category, &k.Context, &k.CreatedAt, &k.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: get key %q: %w", key, err)
	}
	return &k, nil
}

// UpsertKey creates the key or updates its default text in place. The
// modification timestamp only moves when the default text actually
// changes, keeping redundant calls idempotent.
func (s *Store) UpsertKey(ctx context.Context, key, defaultText, category, keyContext string) (int64, error) {
	if key == "" {
		return 0, catalog.ErrEmptyKey
	}

	const q = `
		INSERT INTO translation_keys (key, default_text, category, context)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE SET
			default_text = EXCLUDED.default_text,
			category     = COALESCE(NULLIF(EXCLUDED.category, ''), translation_keys.category),
			context      = COALESCE(NULLIF(EXCLUDED.context, ''), translation_keys.context),
			updated_at   = CASE
				WHEN translation_keys.default_text IS DISTINCT FROM EXCLUDED.default_text THEN now()
				ELSE translation_keys.updated_at
			END
		RETURNING id`

	var id int64
	if err := s.pool.QueryRow(ctx, q, key, defaultText, category, keyContext).Scan(&id); err != nil {
		return 0, fmt.Errorf("pg: upsert key %q: %w", key, err)
	}
	return id, nil
}

// GetTranslation returns the translated text for (key, language) or
// catalog.ErrNotFound.
func (s *Store) GetTranslation(ctx context.Context, key, language string) (string, error) {
	if key == "" {
		return "", catalog.ErrEmptyKey
	}
	if language == "" {
		return "", catalog.ErrEmptyLang
	}

	const q = `
		SELECT t.text
		FROM translations t
		JOIN translation_keys k ON k.id = t.key_id
		WHERE k.key = $1 AND t.language = $2`

	var text string
	err := s.pool.QueryRow(ctx, q, key, language).Scan(&text)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", catalog.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("pg: get translation %q/%s: %w", key, language, err)
	}
	return text, nil
}

// UpsertTranslation inserts or replaces the translation for
// (keyID, language).
func (s *Store) UpsertTranslation(ctx context.Context, keyID int64, language, text string, provenance catalog.Provenance, model string) error {
	if keyID <= 0 {
		return catalog.ErrInvalidKeyID
	}
	if language == "" {
		return catalog.ErrEmptyLang
	}

	const q = `
		INSERT INTO translations (key_id, language, text, provenance, model)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key_id, language) DO UPDATE SET
			text       = EXCLUDED.text,
			provenance = EXCLUDED.provenance,
			model      = EXCLUDED.model,
			updated_at = now()`

	if _, err := s.pool.Exec(ctx, q, keyID, language, text, string(provenance), model); err != nil {
		return fmt.Errorf("pg: upsert translation %d/%s: %w", keyID, language, err)
	}
	return nil
}

// ListKeys returns every key in the catalog ordered by key.
func (s *Store) ListKeys(ctx context.Context) ([]catalog.Key, error) {
	const q = `
		SELECT id, key, default_text, category, context, created_at, updated_at
		FROM translation_keys
		ORDER BY key`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("pg: list keys: %w", err)
	}
	defer rows.Close()

	var keys []catalog.Key
	for rows.Next() {
		var k catalog.Key
		if err := rows.Scan(&k.ID, &k.Key, &k.DefaultText, &k.Category, &k.Context, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pg: scan key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pg: list keys: %w", err)
	}
	return keys, nil
}

// ListLanguages returns the distinct translation languages plus the
// default language, default first.
func (s *Store) ListLanguages(ctx context.Context) ([]string, error) {
	const q = `
		SELECT DISTINCT language
		FROM translations
		WHERE language <> $1
		ORDER BY language`

	rows, err := s.pool.Query(ctx, q, s.defaultLang)
	if err != nil {
		return nil, fmt.Errorf("pg: list languages: %w", err)
	}
	defer rows.Close()

	langs := []string{s.defaultLang}
	for rows.Next() {
		var lang string
		if err := rows.Scan(&lang); err != nil {
			return nil, fmt.Errorf("pg: scan language: %w", err)
		}
		langs = append(langs, lang)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pg: list languages: %w", err)
	}
	return langs, nil
}
