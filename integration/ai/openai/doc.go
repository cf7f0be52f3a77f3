// Package openai provides an OpenAI chat-based implementation of the
// translation adapter contract.
//
// The adapter is fail-soft: any API error, malformed response or context
// cancellation is logged and the input text comes back unchanged, so a
// degraded OpenAI never breaks page rendering. Batch translation sends one
// JSON object per call and accepts partial answers; the orchestrator covers
// missing keys with single-string fallback calls.
//
//	adapter, err := openai.New(os.Getenv("OPENAI_API_KEY"),
//		openai.WithModel(openai.ChatModelGPT4o),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	svc, err := translator.New(store, adapter)
package openai
