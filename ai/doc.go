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


// Package ai provides abstractions for the AI capabilities used by Meetlens.
//
// This package defines interfaces for text generation (single-shot,
// structured JSON, and streaming) and vector embeddings. It follows the
// dependency inversion principle, allowing the domain packages to depend
// on abstractions rather than concrete model vendors.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - Generator: produces text, structured values, and streams from prompts
//   - Embedder: generates vector embeddings from text
//   - Provider: aggregates both for convenient initialization
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external services
//
// Public constructors (openai.NewProvider, openai.NewGenerator, etc.)
// return INTERFACE types to enforce abstraction. Mock constructors return
// CONCRETE types to enable test assertions and behavior injection via
// function fields.
//
// # Usage Example
//
//	config := ai.DefaultConfig()
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	answer, err := provider.Generator().Generate(ctx, ai.GenerateRequest{
//	    Prompt: "Summarize this meeting...",
//	})
package ai
