package translator

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/linguakit/core/catalog"
	"github.com/dmitrymomot/linguakit/core/logger"
)

// ProgressFunc receives bulk-translation progress after every key,
// including skipped ones, so callers can render a determinate progress bar.
type ProgressFunc func(total, completed int, currentKey string)

// TranslateAll synchronously walks every key in the catalog and translates
// it into lang. Keys that already have a translation are skipped unless
// overwrite is set. Adapter failures skip the key without aborting the
// pass. Returns the number of keys actually (re)translated.
func (s *Service) TranslateAll(ctx context.Context, lang string, overwrite bool, progress ProgressFunc) (int, error) {
	normalized, err := s.normalizeLanguage(lang)
	if err != nil {
		return 0, err
	}
	lang = normalized
	if lang == s.defaultLang {
		return 0, ErrDefaultLanguage
	}

	keys, err := s.store.ListKeys(ctx)
	if err != nil {
		return 0, fmt.Errorf("list keys: %w", err)
	}

	total := len(keys)
	translated := 0
	for i, k := range keys {
		if err := ctx.Err(); err != nil {
			return translated, err
		}

		if !overwrite {
			if _, err := s.store.GetTranslation(ctx, k.Key, lang); err == nil {
				s.report(progress, total, i+1, k.Key)
				continue
			} else if !errors.Is(err, catalog.ErrNotFound) {
				return translated, err
			}
		}

		text := s.adapter.Translate(ctx, k.DefaultText, lang, s.defaultLang)
		if text == "" || text == k.DefaultText {
			// Fail-soft pass-through: leave the key untranslated.
			s.log.Warn("translation unavailable", "key", k.Key, logger.Language(lang))
			s.report(progress, total, i+1, k.Key)
			continue
		}

		if err := s.store.UpsertTranslation(ctx, k.ID, lang, text, catalog.ProvenanceAI, s.modelName); err != nil {
			return translated, fmt.Errorf("persist translation for %q: %w", k.Key, err)
		}
		s.shared.Delete(ctx, lang, k.Key)

		translated++
		s.report(progress, total, i+1, k.Key)
	}

	return translated, nil
}

func (s *Service) report(progress ProgressFunc, total, completed int, key string) {
	if progress != nil {
		progress(total, completed, key)
	}
}

// Stats summarizes translation coverage for one language.
type Stats struct {
	Language   string  `json:"language"`
	Total      int     `json:"total"`
	Translated int     `json:"translated"`
	Pending    int     `json:"pending"`
	Percentage float64 `json:"percentage"`
}

// Stats reports how much of the catalog is translated into lang. The
// default language is always fully covered because it is served from
// default text.
func (s *Service) Stats(ctx context.Context, lang string) (Stats, error) {
	normalized, err := s.normalizeLanguage(lang)
	if err != nil {
		return Stats{}, err
	}
	lang = normalized

	keys, err := s.store.ListKeys(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list keys: %w", err)
	}

	st := Stats{Language: lang, Total: len(keys)}
	if lang == s.defaultLang {
		st.Translated = st.Total
	} else {
		for _, k := range keys {
			if _, err := s.store.GetTranslation(ctx, k.Key, lang); err == nil {
				st.Translated++
			} else if !errors.Is(err, catalog.ErrNotFound) {
				return Stats{}, err
			}
		}
	}
	st.Pending = st.Total - st.Translated
	if st.Total == 0 {
		st.Percentage = 100
	} else {
		st.Percentage = float64(st.Translated) / float64(st.Total) * 100
	}
	return st, nil
}
