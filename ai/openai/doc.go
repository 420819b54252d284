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


// Package openai provides AI service implementations using OpenAI-compatible APIs.
//
// This package implements the ai.Provider interface using the langchaingo
// library to communicate with OpenAI or OpenAI-compatible services (such as
// Ollama, LocalAI, or vLLM).
//
// Model responses rarely arrive as clean JSON: they come wrapped in
// markdown code fences, prefixed with prose, or with minor syntax defects.
// ExtractJSON implements the tolerant parse path used by GenerateJSON.
//
// # Usage
//
//	config := ai.DefaultConfig()
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	answer, err := provider.Generator().Generate(ctx, ai.GenerateRequest{Prompt: "..."})
//	vectors, err := provider.Embedder().EmbedTexts(ctx, chunks)
package openai
