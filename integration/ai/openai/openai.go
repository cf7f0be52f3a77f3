package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// ChatModelGPT4oMini is the default translation model: fast, cheap and
// good enough for short UI strings.
const (
	ChatModelGPT4oMini = openai.ChatModelGPT4oMini
	ChatModelGPT4o     = openai.ChatModelGPT4o
)

// ErrInvalidAPIKey is returned when the API key is empty.
var ErrInvalidAPIKey = errors.New("openai: invalid API key")

// Adapter translates UI strings through the OpenAI chat completion API.
type Adapter struct {
	client openai.Client
	model  openai.ChatModel
	log    *slog.Logger
}

// Option is a functional option for configuring the Adapter.
type Option func(*Adapter)

// WithModel sets the chat model to use.
func WithModel(model openai.ChatModel) Option {
	return func(a *Adapter) {
		if model != "" {
			a.model = model
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(a *Adapter) {
		if client != nil {
			a.client = openai.NewClient(
				option.WithHTTPClient(client),
			)
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

// New creates a new OpenAI translation adapter.
func New(apiKey string, opts ...Option) (*Adapter, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}

	a := &Adapter{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  ChatModelGPT4oMini,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Model returns the configured chat model identifier.
func (a *Adapter) Model() string {
	return string(a.model)
}

// Translate returns text translated into targetLang, or text unchanged on
// any failure.
func (a *Adapter) Translate(ctx context.Context, text, targetLang, sourceLang string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(singlePrompt(targetLang, sourceLang)),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		a.log.Warn("openai translate failed", "language", targetLang, "error", err)
		return text
	}
	if len(resp.Choices) == 0 {
		a.log.Warn("openai translate returned no choices", "language", targetLang)
		return text
	}

	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translated == "" {
		return text
	}
	return translated
}

// TranslateBatch translates items in a single chat call using a JSON
// object protocol. Keys missing from the answer are simply absent from the
// result; the caller falls back per key.
func (a *Adapter) TranslateBatch(ctx context.Context, items map[string]string, targetLang, sourceLang string) map[string]string {
	if len(items) == 0 {
		return map[string]string{}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		a.log.Warn("openai batch encode failed", "language", targetLang, "error", err)
		return map[string]string{}
	}

	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(batchPrompt(targetLang, sourceLang)),
			openai.UserMessage(string(payload)),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		a.log.Warn("openai batch translate failed", "language", targetLang, "count", len(items), "error", err)
		return map[string]string{}
	}
	if len(resp.Choices) == 0 {
		a.log.Warn("openai batch translate returned no choices", "language", targetLang)
		return map[string]string{}
	}

	return decodeBatch(resp.Choices[0].Message.Content, items, a.log, targetLang)
}

// decodeBatch parses the model answer, keeping only keys that were in the
// request. Models occasionally wrap JSON in code fences; strip them first.
func decodeBatch(answer string, items map[string]string, log *slog.Logger, targetLang string) map[string]string {
	answer = strings.TrimSpace(answer)
	answer = strings.TrimPrefix(answer, "```json")
	answer = strings.TrimPrefix(answer, "```")
	answer = strings.TrimSuffix(answer, "```")

	var decoded map[string]string
	if err := json.Unmarshal([]byte(strings.TrimSpace(answer)), &decoded); err != nil {
		log.Warn("openai batch decode failed", "language", targetLang, "error", err)
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
