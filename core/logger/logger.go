// Package logger provides structured logging helpers built on log/slog:
// a factory with environment presets and a small set of attribute
// constructors used across the toolkit.
package logger

import (
	"io"
	"log/slog"
	"os"
)

type settings struct {
	level  slog.Level
	json   bool
	output io.Writer
	attrs  []slog.Attr
}

// Option configures the logger factory.
type Option func(*settings)

// WithLevel sets the minimum level. Default is Info.
func WithLevel(level slog.Level) Option {
	return func(s *settings) { s.level = level }
}

// WithJSONFormatter switches output to JSON (the production default is
// text on stdout).
func WithJSONFormatter() Option {
	return func(s *settings) { s.json = true }
}

// WithOutput redirects log output. Default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.output = w
		}
	}
}

// WithAttr attaches a static attribute to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(s *settings) { s.attrs = append(s.attrs, attrs...) }
}

// WithDevelopment configures text output at debug level tagged with the
// app name.
func WithDevelopment(app string) Option {
	return func(s *settings) {
		s.level = slog.LevelDebug
		s.json = false
		s.attrs = append(s.attrs, slog.String("app", app))
	}
}

// WithProduction configures JSON output at info level tagged with the app
// name.
func WithProduction(app string) Option {
	return func(s *settings) {
		s.level = slog.LevelInfo
		s.json = true
		s.attrs = append(s.attrs, slog.String("app", app))
	}
}

// New creates a configured *slog.Logger.
func New(opts ...Option) *slog.Logger {
	s := settings{
		level:  slog.LevelInfo,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(&s)
	}

	ho := &slog.HandlerOptions{Level: s.level}
	var h slog.Handler
	if s.json {
		h = slog.NewJSONHandler(s.output, ho)
	} else {
		h = slog.NewTextHandler(s.output, ho)
	}
	if len(s.attrs) > 0 {
		h = h.WithAttrs(s.attrs)
	}
	return slog.New(h)
}

// Error creates an attribute for a single error under the key "error".
// Returns an empty Attr for nil errors, enabling safe usage without nil
// checks.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component tags the record with the emitting component.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Language tags the record with a language code.
func Language(lang string) slog.Attr {
	return slog.String("language", lang)
}

// JobID tags the record with a background job identifier.
func JobID(id string) slog.Attr {
	return slog.String("job_id", id)
}
