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

package storage

import (
	"context"

	"github.com/meetlens/meetlens/core"
)

// DocumentRepository persists meeting documents, their secondary indexes
// and the extraction records derived from them.
type DocumentRepository interface {
	// AddDocument assigns an identifier to the document, stamps its
	// creation time and stores it together with its indexes.
	AddDocument(ctx context.Context, doc *core.Document) (*core.Document, error)

	// GetDocument returns the document with the given identifier or
	// ErrDocumentNotFound.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// ListDocuments returns all stored documents, most recent first.
	ListDocuments(ctx context.Context) ([]*core.Document, error)

	// DeleteDocuments removes documents, their indexes and extraction
	// records. Missing identifiers are ignored.
	DeleteDocuments(ctx context.Context, ids ...core.ID) error

	// FindByFingerprint returns the document whose content fingerprint
	// matches, or ErrDocumentNotFound.
	FindByFingerprint(ctx context.Context, fingerprint core.ID) (*core.Document, error)

	// FindByProject returns the identifiers of all documents whose
	// extraction resolved to the given project name, most recent first.
	FindByProject(ctx context.Context, project string) ([]core.ID, error)

	// PutExtraction stores the extraction record for a document,
	// replacing any previous record.
	PutExtraction(ctx context.Context, record *core.ExtractionRecord) error

	// GetExtraction returns the extraction record for a document or
	// ErrExtractionNotFound.
	GetExtraction(ctx context.Context, documentID core.ID) (*core.ExtractionRecord, error)

	// Close releases resources held by the repository.
	Close() error
}

// ChunkRepository persists chunk embeddings keyed by owning document
// and chunk position.
type ChunkRepository interface {
	// PutChunks stores chunk embeddings, replacing entries that share
	// the same (owner, index) pair.
	PutChunks(ctx context.Context, chunks ...*core.ChunkEmbedding) error

	// DeleteChunks removes every chunk owned by the given document and
	// reports how many were removed. Deleting for an unknown owner is
	// a no-op.
	DeleteChunks(ctx context.Context, ownerID core.ID) (int, error)

	// FindSimilar returns up to limit chunks ranked by similarity to
	// the query vector. A zero ownerID searches across all documents;
	// otherwise the search is restricted to that owner's chunks.
	FindSimilar(ctx context.Context, vector []float32, limit int, ownerID core.ID) ([]*core.RetrievedChunk, error)

	// Close releases resources held by the repository.
	Close() error
}

// HistoryRepository records question/answer exchanges.
type HistoryRepository interface {
	// AppendHistory assigns an identifier and timestamp to the record
	// and stores it.
	AppendHistory(ctx context.Context, record *core.HistoryRecord) (*core.HistoryRecord, error)

	// ListHistory returns up to limit records, most recent first. A
	// non-positive limit returns all records.
	ListHistory(ctx context.Context, limit int) ([]*core.HistoryRecord, error)

	// DeleteAllHistory removes every history record and reports how
	// many were removed.
	DeleteAllHistory(ctx context.Context) (int, error)

	// Close releases resources held by the repository.
	Close() error
}
