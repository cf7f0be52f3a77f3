package translator

// EventKind discriminates the three broadcast message kinds.
type EventKind string

const (
	EventProgress         EventKind = "progress"
	EventStringTranslated EventKind = "string_translated"
	EventComplete         EventKind = "complete"
)

// Event is the single payload type pushed to all subscribers. Listeners
// self-filter by comparing Language to their own current language; there is
// no per-listener addressing.
//
// Within one job the stream is ordered:
// progress(0) → {progress(key) → string_translated(key)}* → complete.
// No ordering is guaranteed across jobs or across listeners.
type Event struct {
	Kind     EventKind `json:"kind"`
	JobID    string    `json:"job_id,omitempty"`
	Language string    `json:"language"`

	// Progress fields.
	Total      int    `json:"total,omitempty"`
	Completed  int    `json:"completed"`
	CurrentKey string `json:"current_key,omitempty"`

	// StringTranslated fields.
	Key  string `json:"key,omitempty"`
	Text string `json:"text,omitempty"`

	// Complete fields.
	Translated int `json:"translated"`
}

// Percentage reports job progress as 0-100. An empty job is complete by
// definition.
func (e Event) Percentage() float64 {
	if e.Total == 0 {
		return 100
	}
	return float64(e.Completed) / float64(e.Total) * 100
}

func progressEvent(jobID, language string, total, completed int, currentKey string) Event {
	return Event{
		Kind:       EventProgress,
		JobID:      jobID,
		Language:   language,
		Total:      total,
		Completed:  completed,
		CurrentKey: currentKey,
	}
}

func stringTranslatedEvent(language, key, text string) Event {
	return Event{
		Kind:     EventStringTranslated,
		Language: language,
		Key:      key,
		Text:     text,
	}
}

func completeEvent(jobID, language string, translated int) Event {
	return Event{
		Kind:       EventComplete,
		JobID:      jobID,
		Language:   language,
		Translated: translated,
	}
}
