package ai

import (
	"context"
	"iter"
)

// GenerateRequest carries one prompt to the generation capability.
// Temperature defaults to the provider's default when zero is not
// meaningful for the caller; MaxTokens of 0 means no limit.
type GenerateRequest struct {
	Prompt       string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
}

// Generator produces text completions from prompts.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate returns the complete text answer for the request.
	Generate(ctx context.Context, req GenerateRequest) (string, error)

	// GenerateJSON returns a structured value parsed from the model's
	// answer. Implementations must tolerate code-fence wrappers and
	// surrounding prose around the JSON payload.
	// The returned value is a map[string]any, []any, or scalar.
	GenerateJSON(ctx context.Context, req GenerateRequest) (any, error)

	// GenerateStream returns a lazy, forward-only sequence of text
	// fragments whose concatenation equals the Generate answer. The
	// sequence stops early when the consumer breaks or the context is
	// cancelled; a mid-stream failure is delivered as a final pair with
	// an empty fragment and a non-nil error.
	GenerateStream(ctx context.Context, req GenerateRequest) (iter.Seq2[string, error], error)
}

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in
	// a batch, in input order. Returns an error if any embedding fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management.
type Provider interface {
	// Generator returns the text generation service.
	Generator() Generator

	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Close releases resources held by the provider and its services.
	Close() error
}
