package translator

import "errors"

var (
	// ErrInvalidLanguage is returned for language codes that fail BCP 47
	// parsing at the API boundary.
	ErrInvalidLanguage = errors.New("translator: invalid language code")

	// ErrDefaultLanguage is returned when a bulk translation pass targets
	// the default language, which is served from default text and never
	// stored in the translations table.
	ErrDefaultLanguage = errors.New("translator: cannot translate into the default language")

	// ErrNilStore and ErrNilAdapter guard service construction.
	ErrNilStore   = errors.New("translator: store is required")
	ErrNilAdapter = errors.New("translator: adapter is required")
)
