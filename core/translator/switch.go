package translator

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dmitrymomot/linguakit/core/catalog"
)

// Fragment is a ready-to-render (key, text) pair. Translated reports
// whether Text is an actual translation or the default-language fallback.
type Fragment struct {
	Key        string `json:"key"`
	Text       string `json:"text"`
	Translated bool   `json:"translated"`
}

// SwitchResult is the synchronous part of a language switch. It always
// carries a fragment for every requested key (untranslated keys fall back
// to default text so the page re-renders completely) plus the now-current
// language. When a background job was scheduled for the Missing keys, JobID
// identifies it in the event stream.
type SwitchResult struct {
	Language  string     `json:"language"`
	Fragments []Fragment `json:"fragments"`
	Missing   []string   `json:"missing,omitempty"`
	JobID     string     `json:"job_id,omitempty"`
}

// missingKey carries everything the background job needs so it never
// touches request-scoped state.
type missingKey struct {
	id   int64
	key  string
	text string
}

// SwitchLanguage resolves the requested keys for lang and returns
// immediately. Keys with a stored translation come back as translated
// fragments; the rest come back with default text and are queued for a
// detached background translation job (unless lang is the default
// language, which needs no translating). The call never waits for the job.
func (s *Service) SwitchLanguage(ctx context.Context, lang string, keys []string) (*SwitchResult, error) {
	normalized, err := s.normalizeLanguage(lang)
	if err != nil {
		return nil, err
	}
	lang = normalized

	res := &SwitchResult{
		Language:  lang,
		Fragments: make([]Fragment, 0, len(keys)),
	}

	var missing []missingKey
	for _, key := range keys {
		if lang == s.defaultLang {
			k, err := s.store.GetKey(ctx, key)
			if err != nil {
				if !errors.Is(err, catalog.ErrNotFound) {
					return nil, err
				}
				res.Fragments = append(res.Fragments, Fragment{Key: key, Text: key})
				continue
			}
			res.Fragments = append(res.Fragments, Fragment{Key: key, Text: k.DefaultText, Translated: true})
			continue
		}

		if text, err := s.store.GetTranslation(ctx, key, lang); err == nil {
			s.shared.Set(ctx, lang, key, text)
			res.Fragments = append(res.Fragments, Fragment{Key: key, Text: text, Translated: true})
			continue
		} else if !errors.Is(err, catalog.ErrNotFound) {
			return nil, err
		}

		k, err := s.store.GetKey(ctx, key)
		if err != nil {
			if !errors.Is(err, catalog.ErrNotFound) {
				return nil, err
			}
			// Unknown key: render as itself, nothing to translate.
			res.Fragments = append(res.Fragments, Fragment{Key: key, Text: key})
			continue
		}

		res.Fragments = append(res.Fragments, Fragment{Key: key, Text: k.DefaultText})
		res.Missing = append(res.Missing, key)
		missing = append(missing, missingKey{id: k.ID, key: key, text: k.DefaultText})
	}

	if len(missing) > 0 && lang != s.defaultLang {
		res.JobID = s.scheduleJob(lang, missing)
	}

	return res, nil
}

// scheduleJob launches the detached background translation job and returns
// its ID. The job runs on a fresh context with the service's own store
// handle: the triggering request may complete, cancel or disconnect without
// affecting it.
func (s *Service) scheduleJob(lang string, missing []missingKey) string {
	jobID := uuid.NewString()

	s.jobs.Add(1)
	go func() {
		defer s.jobs.Done()
		s.runJob(context.Background(), jobID, lang, missing)
	}()

	return jobID
}
