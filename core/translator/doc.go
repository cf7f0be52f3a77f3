// Package translator orchestrates on-demand AI translation of UI strings.
//
// The Service sits between the rendering layer and a catalog.Store. For a
// requested (key, language) pair it answers from the two-layer cache or the
// store, falling back from translation to default text to the literal key,
// so rendering never blocks on translation work and never shows empty
// content.
//
// When a language switch requests keys that have no translation yet, the
// Service returns the default text immediately and schedules a detached
// background job. The job batches the missing keys through the AI adapter,
// persists results, evicts cache entries and broadcasts per-string progress
// events. Its lifetime is decoupled from the request that triggered it: it
// runs on a fresh context with the Service's own store handle and keeps
// going after the client disconnects.
//
// # Usage
//
//	svc, err := translator.New(store, adapter,
//		translator.WithSharedCache(shared),
//		translator.WithLogger(log),
//	)
//	if err != nil {
//		return err
//	}
//	defer svc.Close()
//
//	// Request boundary:
//	ctx := cache.WithRequestScope(r.Context())
//	res, err := svc.SwitchLanguage(ctx, "fr", []string{"home.title", "home.lead"})
//
//	// Real-time transport:
//	sub := svc.Subscribe(r.Context())
//	for msg := range sub.Receive(r.Context()) {
//		push(msg.Data) // clients self-filter by Language
//	}
//
// AI failures never surface to the renderer: adapters degrade to returning
// the input text, and the job simply leaves such keys untranslated so the
// next request retries them.
package translator
