// Package llm wraps the Gemini API behind small generator interfaces.
package llm

import "context"

// TokenUsage counts the tokens one generation consumed.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
}

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   TokenUsage
}

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (ContentResponse, error)
}

// ImageGenerator is an interface for generating an image from a prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}
