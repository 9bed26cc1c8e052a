package port

import "context"

// ModelRequest is one prompt sent together with the source document.
type ModelRequest struct {
	Prompt      string
	Document    []byte
	ContentType string
}

// ModelResponse is the complete text returned by the model for one request.
type ModelResponse struct {
	Text         string
	InputTokens  int
	OutputTokens int
	Model        string
}

// ModelClient abstracts a large-language-model provider. Implementations block
// until the full response is available, never retry, and must be safe for
// concurrent use by independent runs.
type ModelClient interface {
	Invoke(ctx context.Context, req ModelRequest) (*ModelResponse, error)
}
