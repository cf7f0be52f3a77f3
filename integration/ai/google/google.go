package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

// Gemini model constants.
const (
	GeminiFlash = "gemini-2.0-flash"
	GeminiPro   = "gemini-2.0-pro"
)

// ErrInvalidAPIKey is returned when the API key is empty.
var ErrInvalidAPIKey = errors.New("google: invalid API key")

// Adapter translates UI strings through Google's Generative AI API.
type Adapter struct {
	client   *genai.Client
	model    string
	log      *slog.Logger
	backend  genai.Backend
	project  string
	location string
}

// Option is a functional option for configuring the Adapter.
type Option func(*Adapter)

// WithModel sets the model to use.
func WithModel(model string) Option {
	return func(a *Adapter) {
		if model != "" {
			a.model = model
		}
	}
}

// WithLogger configures structured logging for degraded translations.
func WithLogger(log *slog.Logger) Option {
	return func(a *Adapter) {
		if log != nil {
			a.log = log
		}
	}
}

// WithBackend sets the backend to use (Gemini API or Vertex AI).
func WithBackend(backend genai.Backend) Option {
	return func(a *Adapter) {
		a.backend = backend
	}
}

// WithProject sets the GCP project ID for Vertex AI.
func WithProject(project string) Option {
	return func(a *Adapter) {
		a.project = project
	}
}

// WithLocation sets the GCP location/region for Vertex AI.
func WithLocation(location string) Option {
	return func(a *Adapter) {
		a.location = location
	}
}

// New creates a Gemini translation adapter with API key authentication.
func New(ctx context.Context, apiKey string, opts ...Option) (*Adapter, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}

	a := &Adapter{
		model:   GeminiFlash,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(a)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:   apiKey,
		Backend:  a.backend,
		Project:  a.project,
		Location: a.location,
	})
	if err != nil {
		return nil, fmt.Errorf("google: create client: %w", err)
	}
	a.client = client

	return a, nil
}

// NewVertexAI creates a Gemini translation adapter on the Vertex AI backend.
func NewVertexAI(ctx context.Context, project, location string, opts ...Option) (*Adapter, error) {
	if project == "" || location == "" {
		return nil, errors.New("google: project and location are required for Vertex AI backend")
	}

	a := &Adapter{
		model:    GeminiFlash,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		backend:  genai.BackendVertexAI,
		project:  project,
		location: location,
	}
	for _, opt := range opts {
		opt(a)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend:  genai.BackendVertexAI,
		Project:  a.project,
		Location: a.location,
	})
	if err != nil {
		return nil, fmt.Errorf("google: create Vertex AI client: %w", err)
	}
	a.client = client

	return a, nil
}

// Model returns the configured model identifier.
func (a *Adapter) Model() string {
	return a.model
}

// Translate returns text translated into targetLang, or text unchanged on
// any failure.
func (a *Adapter) Translate(ctx context.Context, text, targetLang, sourceLang string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(text), &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction(singlePrompt(targetLang, sourceLang)),
	})
	if err != nil {
		a.log.Warn("gemini translate failed", "language", targetLang, "error", err)
		return text
	}

	translated := strings.TrimSpace(resp.Text())
	if translated == "" {
		return text
	}
	return translated
}

// TranslateBatch translates items in a single generation call using a JSON
// object protocol. Keys missing from the answer are simply absent from the
// result; the caller falls back per key.
func (a *Adapter) TranslateBatch(ctx context.Context, items map[string]string, targetLang, sourceLang string) map[string]string {
	if len(items) == 0 {
		return map[string]string{}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		a.log.Warn("gemini batch encode failed", "language", targetLang, "error", err)
		return map[string]string{}
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(string(payload)), &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction(batchPrompt(targetLang, sourceLang)),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		a.log.Warn("gemini batch translate failed", "language", targetLang, "count", len(items), "error", err)
		return map[string]string{}
	}

	var decoded map[string]string
	if err := json.Unmarshal([]byte(resp.Text()), &decoded); err != nil {
		a.log.Warn("gemini batch decode failed", "language", targetLang, "error", err)
		return map[string]string{}
	}

	result := make(map[string]string, len(decoded))
	for key, text := range decoded {
		if _, ok := items[key]; ok && strings.TrimSpace(text) != "" {
			result[key] = text
		}
	}
	return result
}

func systemInstruction(prompt string) *genai.Content {
	return &genai.Content{
		Parts: []*genai.Part{genai.NewPartFromText(prompt)},
	}
}

func singlePrompt(targetLang, sourceLang string) string {
	source := "the source language"
	if sourceLang != "" {
		source = fmt.Sprintf("%q", sourceLang)
	}
	return fmt.Sprintf("You are a professional UI copy translator. Translate the user message from %s into %q. "+
		"Preserve placeholders, HTML tags and formatting exactly. Answer with the translated text only.", source, targetLang)
}

func batchPrompt(targetLang, sourceLang string) string {
	source := "the source language"
	if sourceLang != "" {
		source = fmt.Sprintf("%q", sourceLang)
	}
	return fmt.Sprintf("You are a professional UI copy translator. The user message is a JSON object mapping "+
		"string identifiers to UI texts in %s. Translate every value into %q, preserving placeholders, HTML tags "+
		"and formatting exactly. Answer with a JSON object with the same keys and translated values, nothing else.", source, targetLang)
}
