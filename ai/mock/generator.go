package mock

import (
	"context"
	"iter"
	"strings"
	"sync/atomic"

	"github.com/meetlens/meetlens/ai"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	GenerateFunc func(ctx context.Context, req ai.GenerateRequest) (string, error)

	// GenerateJSONFunc is called by GenerateJSON if set.
	GenerateJSONFunc func(ctx context.Context, req ai.GenerateRequest) (any, error)

	// GenerateStreamFunc is called by GenerateStream if set.
	GenerateStreamFunc func(ctx context.Context, req ai.GenerateRequest) (iter.Seq2[string, error], error)

	callCount atomic.Int64
}

// NewMockGenerator creates a mock generator with default deterministic
// behavior. Returns the concrete type to allow test assertions.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate returns a canned answer derived from the prompt.
func (m *MockGenerator) Generate(ctx context.Context, req ai.GenerateRequest) (string, error) {
	m.callCount.Add(1)

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}

	return "mock answer", nil
}

// GenerateJSON returns an empty object by default.
func (m *MockGenerator) GenerateJSON(ctx context.Context, req ai.GenerateRequest) (any, error) {
	m.callCount.Add(1)

	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, req)
	}

	return map[string]any{}, nil
}

// GenerateStream streams the Generate answer word by word.
func (m *MockGenerator) GenerateStream(ctx context.Context, req ai.GenerateRequest) (iter.Seq2[string, error], error) {
	m.callCount.Add(1)

	if m.GenerateStreamFunc != nil {
		return m.GenerateStreamFunc(ctx, req)
	}

	answer := "mock answer"
	if m.GenerateFunc != nil {
		var err error
		answer, err = m.GenerateFunc(ctx, req)
		if err != nil {
			return nil, err
		}
	}

	words := strings.SplitAfter(answer, " ")
	return func(yield func(string, error) bool) {
		for _, w := range words {
			if !yield(w, nil) {
				return
			}
		}
	}, nil
}

// CallCount returns the number of times any method was called.
func (m *MockGenerator) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom functions.
func (m *MockGenerator) Reset() {
	m.callCount.Store(0)
	m.GenerateFunc = nil
	m.GenerateJSONFunc = nil
	m.GenerateStreamFunc = nil
}
