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

package index

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/meetlens/meetlens/ai"
	"github.com/meetlens/meetlens/core"
	"github.com/meetlens/meetlens/storage"
)

// DefaultTopK is the number of chunks a search returns when the caller
// does not say otherwise.
const DefaultTopK = 5

// overfetchFactor sets the initial candidate window for set-filtered
// searches, which discard non-matching owners client-side.
const overfetchFactor = 3

// OwnerFilter restricts a search to particular documents. The zero
// value matches everything.
type OwnerFilter struct {
	ids []core.ID
}

// FilterNone matches chunks from every document.
func FilterNone() OwnerFilter { return OwnerFilter{} }

// FilterOwner matches chunks of exactly one document.
func FilterOwner(id core.ID) OwnerFilter { return OwnerFilter{ids: []core.ID{id}} }

// FilterOwners matches chunks of any of the given documents.
func FilterOwners(ids ...core.ID) OwnerFilter {
	return OwnerFilter{ids: append([]core.ID(nil), ids...)}
}

// IsRestricted reports whether the filter excludes anything.
func (f OwnerFilter) IsRestricted() bool { return len(f.ids) > 0 }

// Primary returns the single document id of a one-document filter, or
// zero for any other filter.
func (f OwnerFilter) Primary() core.ID {
	if len(f.ids) == 1 {
		return f.ids[0]
	}
	return 0
}

func (f OwnerFilter) contains(id core.ID) bool {
	for _, candidate := range f.ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// Index embeds chunk text and serves similarity searches over the
// stored vectors. Writes for the same owner are serialized; reads take
// no locks.
type Index struct {
	chunks   storage.ChunkRepository
	embedder ai.Embedder
	logger   *slog.Logger

	mu     sync.Mutex
	owners map[core.ID]*sync.Mutex
}

// New builds an index over the chunk repository using the embedder.
func New(chunks storage.ChunkRepository, embedder ai.Embedder, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{
		chunks:   chunks,
		embedder: embedder,
		logger:   logger.With("component", "index"),
		owners:   make(map[core.ID]*sync.Mutex),
	}
}

// Upsert embeds the chunk texts and stores them under (ownerID, index)
// composite keys, replacing entries at the same positions. Embedding
// failures propagate so the caller can retry the whole ingestion;
// nothing is stored on failure.
func (ix *Index) Upsert(ctx context.Context, ownerID core.ID, texts []string) error {
	if len(texts) == 0 {
		return nil
	}

	unlock := ix.lockOwner(ownerID)
	defer unlock()

	vectors, err := ix.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %d chunks for document %d: %w", len(texts), ownerID, err)
	}
	if len(vectors) != len(texts) {
		return fmt.Errorf("%w: embedder returned %d vectors for %d chunks",
			ErrEmbeddingMismatch, len(vectors), len(texts))
	}

	records := make([]*core.ChunkEmbedding, len(texts))
	for i, text := range texts {
		records[i] = &core.ChunkEmbedding{
			OwnerID: ownerID,
			Index:   i,
			Text:    text,
			Preview: core.Preview(text),
			Vector:  vectors[i],
		}
	}

	if err := ix.chunks.PutChunks(ctx, records...); err != nil {
		return fmt.Errorf("storing chunks for document %d: %w", ownerID, err)
	}
	ix.logger.Debug("indexed document chunks", "owner_id", ownerID, "chunks", len(records))
	return nil
}

// Delete removes every chunk owned by the document. Failures are logged
// and swallowed; deleting an absent owner is a no-op.
func (ix *Index) Delete(ctx context.Context, ownerID core.ID) {
	unlock := ix.lockOwner(ownerID)
	defer unlock()

	removed, err := ix.chunks.DeleteChunks(ctx, ownerID)
	if err != nil {
		ix.logger.Error("failed to delete document chunks", "owner_id", ownerID, "error", err)
		return
	}
	if removed > 0 {
		ix.logger.Debug("deleted document chunks", "owner_id", ownerID, "chunks", removed)
	}
}

// Search embeds the query and returns up to topK chunks matching the
// filter, best first. Search is best-effort: failures are logged and
// yield an empty result.
func (ix *Index) Search(ctx context.Context, query string, topK int, filter OwnerFilter) []*core.RetrievedChunk {
	if topK <= 0 {
		topK = DefaultTopK
	}

	vector, err := ix.embedder.EmbedText(ctx, query)
	if err != nil {
		ix.logger.Error("failed to embed query", "error", err)
		return nil
	}

	switch len(filter.ids) {
	case 0:
		return ix.findSimilar(ctx, vector, topK, 0)
	case 1:
		// A single owner maps onto the store's native restriction.
		return ix.findSimilar(ctx, vector, topK, filter.ids[0])
	default:
		return ix.searchFiltered(ctx, vector, topK, filter)
	}
}

// searchFiltered over-fetches unrestricted candidates and keeps only
// matching owners, doubling the candidate window until topK matches are
// collected or the index is exhausted.
func (ix *Index) searchFiltered(ctx context.Context, vector []float32, topK int, filter OwnerFilter) []*core.RetrievedChunk {
	fetch := topK * overfetchFactor
	for {
		candidates := ix.findSimilar(ctx, vector, fetch, 0)

		matches := make([]*core.RetrievedChunk, 0, topK)
		for _, candidate := range candidates {
			if !filter.contains(candidate.OwnerID) {
				continue
			}
			matches = append(matches, candidate)
			if len(matches) == topK {
				return matches
			}
		}

		// Fewer candidates than requested means the index has nothing
		// more to offer.
		if len(candidates) < fetch {
			return matches
		}
		fetch *= 2
	}
}

func (ix *Index) findSimilar(ctx context.Context, vector []float32, limit int, ownerID core.ID) []*core.RetrievedChunk {
	matches, err := ix.chunks.FindSimilar(ctx, vector, limit, ownerID)
	if err != nil {
		ix.logger.Error("similarity search failed", "owner_id", ownerID, "error", err)
		return nil
	}
	return matches
}

// lockOwner serializes writes per owner so concurrent ingestions of the
// same document cannot interleave their chunk sets.
func (ix *Index) lockOwner(ownerID core.ID) func() {
	ix.mu.Lock()
	lock, ok := ix.owners[ownerID]
	if !ok {
		lock = &sync.Mutex{}
		ix.owners[ownerID] = lock
	}
	ix.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
