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

// Package meetlens turns meeting transcripts into structured
// intelligence and answers questions over the accumulated corpus.
//
// Store is the assembly point: it opens the storage backend, wires the
// AI provider, and hands out the pipeline, chat composer and reindexer
// built on them.
package meetlens

import (
	"io"
	"log/slog"

	"github.com/meetlens/meetlens/ai"
	"github.com/meetlens/meetlens/ai/openai"
	"github.com/meetlens/meetlens/chat"
	"github.com/meetlens/meetlens/extract"
	"github.com/meetlens/meetlens/index"
	"github.com/meetlens/meetlens/pipeline"
	"github.com/meetlens/meetlens/reindex"
	"github.com/meetlens/meetlens/storage"
	"github.com/meetlens/meetlens/storage/badger"
)

// Store bundles the repositories, AI provider and index for one
// meeting corpus.
type Store struct {
	repos        *badger.Repositories
	provider     ai.Provider
	orchestrator *extract.Orchestrator
	index        *index.Index
	logger       *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*storeOptions)

type storeOptions struct {
	aiConfig *ai.Config
	logger   *slog.Logger
	inMemory bool
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) StoreOption {
	return func(o *storeOptions) {
		o.aiConfig = config
	}
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(o *storeOptions) {
		o.logger = logger
	}
}

// WithInMemory keeps the corpus in memory instead of on disk. The path
// given to Open is ignored.
func WithInMemory() StoreOption {
	return func(o *storeOptions) {
		o.inMemory = true
	}
}

// Open opens (or creates) a corpus at path.
func Open(path string, opts ...StoreOption) (*Store, error) {
	options := &storeOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	var (
		repos *badger.Repositories
		err   error
	)
	if options.inMemory {
		repos, err = badger.NewMemoryRepositories(options.logger)
	} else {
		repos, err = badger.NewRepositories(path, options.logger)
	}
	if err != nil {
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		repos.Close()
		return nil, err
	}

	orchestrator, err := extract.New(provider.Generator(), extract.WithLogger(options.logger))
	if err != nil {
		provider.Close()
		repos.Close()
		return nil, err
	}

	return &Store{
		repos:        repos,
		provider:     provider,
		orchestrator: orchestrator,
		index:        index.New(repos.Chunks, provider.Embedder(), options.logger),
		logger:       options.logger,
	}, nil
}

// Close releases the provider, the orchestrator's worker pool and the
// storage backend.
func (s *Store) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}
	s.orchestrator.Close()
	return s.repos.Close()
}

// Documents exposes the document repository.
func (s *Store) Documents() storage.DocumentRepository {
	return s.repos.Documents
}

// History exposes the history repository.
func (s *Store) History() storage.HistoryRepository {
	return s.repos.History
}

// Index exposes the vector index.
func (s *Store) Index() *index.Index {
	return s.index
}

// NewPipeline builds an ingestion pipeline on the store.
func (s *Store) NewPipeline(opts ...pipeline.Option) *pipeline.Pipeline {
	opts = append([]pipeline.Option{pipeline.WithLogger(s.logger)}, opts...)
	return pipeline.New(s.repos.Documents, s.repos.History, s.index, s.orchestrator, opts...)
}

// NewComposer builds a chat composer on the store.
func (s *Store) NewComposer() *chat.Composer {
	return chat.New(s.index, s.repos.Documents, s.repos.History, s.provider.Generator(), s.logger)
}

// NewReindexer builds a reindexer on the store. Progress output goes to
// progress.
func (s *Store) NewReindexer(config *reindex.Config, progress io.Writer) *reindex.Reindexer {
	return reindex.New(s.repos.Documents, s.index, config, progress)
}
