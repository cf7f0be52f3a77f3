package translator

import "context"

// Adapter translates text between languages. Implementations must fail
// soft: on any error they return the input unchanged (and log it) instead
// of failing, so a broken AI backend degrades to untranslated UI rather
// than broken pages. Concrete adapters live under integration/ai.
type Adapter interface {
	// Translate returns text translated into targetLang, or text unchanged
	// on failure. sourceLang may be empty when unknown.
	Translate(ctx context.Context, text, targetLang, sourceLang string) string

	// TranslateBatch translates items (key → text) in one call where the
	// backend supports it. Partial and empty result maps are acceptable;
	// callers fall back to Translate per missing key.
	TranslateBatch(ctx context.Context, items map[string]string, targetLang, sourceLang string) map[string]string
}

// ModelNamer is implemented by adapters that can report the backend model
// identifier. The service records it alongside AI-produced translations.
type ModelNamer interface {
	Model() string
}
