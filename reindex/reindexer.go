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

package reindex

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/meetlens/meetlens/index"
	"github.com/meetlens/meetlens/storage"
)

// Config tunes a reindex run.
type Config struct {
	// ChunkSize and ChunkOverlap are passed to the chunker.
	ChunkSize    int
	ChunkOverlap int

	// ReportInterval is how often to report progress, in documents.
	ReportInterval int

	// MaxRetries bounds attempts per document; RetryDelay is the base
	// backoff delay.
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ChunkSize:      index.DefaultChunkSize,
		ChunkOverlap:   index.DefaultChunkOverlap,
		ReportInterval: 10,
		MaxRetries:     3,
		RetryDelay:     time.Second,
	}
}

// Reindexer re-chunks and re-embeds every stored document, replacing
// each document's chunks in place. Run it after changing the embedding
// model or chunking parameters.
type Reindexer struct {
	documents storage.DocumentRepository
	index     *index.Index
	config    *Config
	progress  io.Writer
}

// New builds a reindexer. Progress output goes to progress, typically
// os.Stderr.
func New(documents storage.DocumentRepository, ix *index.Index, config *Config, progress io.Writer) *Reindexer {
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Reindexer{
		documents: documents,
		index:     ix,
		config:    config,
		progress:  progress,
	}
}

// Run reindexes the whole corpus. Each document's chunks are deleted
// and rebuilt; a document that keeps failing after retries aborts the
// run so the failure is not silently skipped.
func (r *Reindexer) Run(ctx context.Context) error {
	docs, err := r.documents.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}
	if len(docs) == 0 {
		fmt.Fprintln(r.progress, "No documents to reindex")
		return nil
	}

	fmt.Fprintf(r.progress, "Reindexing %d documents (chunk size: %d, overlap: %d)\n",
		len(docs), r.config.ChunkSize, r.config.ChunkOverlap)
	tracker := newProgressTracker(r.progress, len(docs), r.config.ReportInterval)

	for _, doc := range docs {
		chunks := index.Chunk(doc.Text, r.config.ChunkSize, r.config.ChunkOverlap)

		err := retryWithBackoff(ctx, func() error {
			r.index.Delete(ctx, doc.ID)
			return r.index.Upsert(ctx, doc.ID, chunks)
		}, r.config.MaxRetries, r.config.RetryDelay)
		if err != nil {
			return fmt.Errorf("reindexing document %d: %w", doc.ID, err)
		}
		tracker.Increment(1)
	}

	tracker.Finish()
	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindexing complete. Processed %d documents in %v\n",
		len(docs), elapsed.Round(time.Second))
	return nil
}
