// Package vision sends screenshots and prompts to a multimodal model and turns
// its free-text reply into structured data.
//
// The Client interface is what the locator strategies depend on. OpenAIClient
// implements it against any OpenAI-compatible chat completions endpoint
// (OpenAI itself, an inference gateway, or a local server) using openai-go.
//
// Model replies are parsed leniently: markdown code fences and prose around
// the JSON object are tolerated, the object is validated against the
// request's JSON schema, and anything that still does not fit is reported as
// ErrMalformedResponse rather than guessed at.
package vision
