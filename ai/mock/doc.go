// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Generator, ai.Embedder,
// and ai.Provider for use in unit tests. The mocks allow tests to run
// without external AI service dependencies and enable controlled,
// deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	answer, err := mockProvider.Generator().Generate(ctx, ai.GenerateRequest{Prompt: "q"})
//
//	// Custom behavior injection
//	gen := mock.NewMockGenerator()
//	gen.GenerateJSONFunc = func(ctx context.Context, req ai.GenerateRequest) (any, error) {
//	    return map[string]any{"owners": []any{"Priya"}}, nil
//	}
//
//	// Check call counts
//	count := gen.CallCount()
//
// # Default Behavior
//
//   - MockGenerator: canned text answers, empty JSON objects, word-by-word streams
//   - MockEmbedder: deterministic vectors based on text hash
//   - MockProvider: aggregates mock generator and embedder
package mock
