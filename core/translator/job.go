package translator

import (
	"context"

	"github.com/dmitrymomot/linguakit/core/catalog"
	"github.com/dmitrymomot/linguakit/core/logger"
	"github.com/dmitrymomot/linguakit/pkg/broadcast"
)

// runJob is the detached background translation job. It batch-translates
// the missing keys, persists results through the job store, evicts shared
// cache entries and broadcasts progress. Nothing that happens here can
// propagate to the request that scheduled the job; every failure is logged
// and degrades to "key stays untranslated until the next request retries".
//
// Event order per job: progress(0) → {progress(key) → string_translated}* →
// complete.
func (s *Service) runJob(ctx context.Context, jobID, lang string, missing []missingKey) {
	total := len(missing)
	s.publish(ctx, progressEvent(jobID, lang, total, 0, ""))

	items := make(map[string]string, total)
	for _, m := range missing {
		items[m.key] = m.text
	}

	// One batch call when possible; per-key fallback covers whatever the
	// batch failed to return. A batch failure therefore never aborts the
	// job, it just makes it slower.
	batch := s.adapter.TranslateBatch(ctx, items, lang, s.defaultLang)

	translated := 0
	for i, m := range missing {
		s.publish(ctx, progressEvent(jobID, lang, total, i, m.key))

		text, ok := batch[m.key]
		if !ok || text == "" {
			text = s.adapter.Translate(ctx, m.text, lang, s.defaultLang)
		}
		if text == "" || text == m.text {
			// Fail-soft adapters answer with the original text; persisting
			// it would mask the failure as a translation. Leave the key
			// untranslated so the next request retries it.
			s.log.Warn("translation unavailable", logger.JobID(jobID), "key", m.key, logger.Language(lang))
			continue
		}

		if err := s.jobStore.UpsertTranslation(ctx, m.id, lang, text, catalog.ProvenanceAI, s.modelName); err != nil {
			s.log.Error("persist translation", logger.JobID(jobID), "key", m.key, logger.Language(lang), logger.Error(err))
			continue
		}
		s.shared.Delete(ctx, lang, m.key)

		translated++
		s.publish(ctx, stringTranslatedEvent(lang, m.key, text))
	}

	s.publish(ctx, completeEvent(jobID, lang, translated))
	s.log.Info("translation job finished", logger.JobID(jobID), logger.Language(lang), "total", total, "translated", translated)
}

func (s *Service) publish(ctx context.Context, ev Event) {
	if err := s.hub.Broadcast(ctx, broadcast.Message[Event]{Data: ev}); err != nil {
		s.log.Debug("broadcast event", "kind", ev.Kind, logger.Error(err))
	}
}
