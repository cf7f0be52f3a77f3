// Package google provides a Gemini implementation of the translation
// adapter contract, supporting both the Gemini API and Vertex AI backends.
//
// Like the OpenAI adapter it is fail-soft: API errors and malformed
// responses are logged and the input text comes back unchanged. Batch
// translation uses a JSON object protocol with JSON response mode, and
// partial answers are acceptable.
//
//	adapter, err := google.New(ctx, os.Getenv("GEMINI_API_KEY"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	svc, err := translator.New(store, adapter)
package google
