// Copyright 2025 The Meetlens Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mock

import "github.com/meetlens/meetlens/ai"

// MockProvider is a test double for ai.Provider.
// It aggregates mock generator and embedder instances.
type MockProvider struct {
	generator *MockGenerator
	embedder  *MockEmbedder
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.Provider interface for consistency with production
// constructors. Use GetMockGenerator()/GetMockEmbedder() to access concrete
// types for test assertions.
func NewMockProvider() ai.Provider {
	return &MockProvider{
		generator: NewMockGenerator(),
		embedder:  NewMockEmbedder(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock
// services. This allows full control over the behavior of each service.
func NewMockProviderWithServices(generator *MockGenerator, embedder *MockEmbedder) ai.Provider {
	return &MockProvider{
		generator: generator,
		embedder:  embedder,
	}
}

// Generator returns the mock generator.
func (p *MockProvider) Generator() ai.Generator {
	return p.generator
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockGenerator returns the underlying mock generator for test assertions.
func (p *MockProvider) GetMockGenerator() *MockGenerator {
	return p.generator
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}
