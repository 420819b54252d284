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

package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/meetlens/meetlens/core"
	"github.com/meetlens/meetlens/extract"
	"github.com/meetlens/meetlens/index"
	"github.com/meetlens/meetlens/storage"
	"github.com/meetlens/meetlens/transcript"
)

// Pipeline drives a document from raw input to fully derived state:
// normalize, fingerprint, store, extract, chunk and index.
type Pipeline struct {
	documents    storage.DocumentRepository
	history      storage.HistoryRepository
	index        *index.Index
	orchestrator *extract.Orchestrator
	chunkSize    int
	chunkOverlap int
	logger       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithChunking overrides the chunk size and overlap.
func WithChunking(size, overlap int) Option {
	return func(p *Pipeline) {
		p.chunkSize = size
		p.chunkOverlap = overlap
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger.With("component", "pipeline")
	}
}

// New builds a pipeline over the repositories, index and orchestrator.
func New(documents storage.DocumentRepository, history storage.HistoryRepository, ix *index.Index, orchestrator *extract.Orchestrator, opts ...Option) *Pipeline {
	p := &Pipeline{
		documents:    documents,
		history:      history,
		index:        ix,
		orchestrator: orchestrator,
		chunkSize:    index.DefaultChunkSize,
		chunkOverlap: index.DefaultChunkOverlap,
		logger:       slog.Default().With("component", "pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IngestRequest carries one raw transcript into the pipeline.
type IngestRequest struct {
	// Input is the raw transcript: a string, a JSON-shaped map, or raw
	// JSON bytes.
	Input any

	// Title overrides the title found in the transcript.
	Title string

	// ProjectName, when set, takes precedence over project-name
	// extraction.
	ProjectName string
}

// IngestResult reports what ingestion produced.
type IngestResult struct {
	Document   *core.Document
	Extraction *core.ExtractionRecord

	// Replaced is true when an identical transcript was already stored
	// and got replaced.
	Replaced bool
}

// Ingest normalizes, stores, analyzes and indexes one transcript.
// Re-ingesting a byte-identical transcript replaces the prior document
// and everything derived from it. Failures after the document is stored
// roll the document back so no partially derived state survives.
func (p *Pipeline) Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	parsed, err := transcript.Parse(req.Input)
	if err != nil {
		return nil, err
	}
	if err := core.ValidateTranscript(parsed); err != nil {
		return nil, err
	}
	if strings.TrimSpace(parsed.Text) == "" {
		return nil, ErrEmptyTranscript
	}

	title := req.Title
	if title == "" {
		title = parsed.Title
	}

	fingerprint := core.IDFromContent(parsed.Text)
	replaced, err := p.replaceExisting(ctx, fingerprint)
	if err != nil {
		return nil, err
	}

	doc, err := p.documents.AddDocument(ctx, &core.Document{
		Title:       title,
		Text:        parsed.Text,
		Transcript:  parsed,
		Fingerprint: fingerprint,
	})
	if err != nil {
		return nil, err
	}
	p.logger.Info("stored document", "id", doc.ID, "title", title, "replaced", replaced)

	record := p.orchestrator.Extract(ctx, extract.Request{
		DocumentID:  doc.ID,
		Text:        parsed.Text,
		Title:       title,
		ProjectName: req.ProjectName,
		Speakers:    parsed.Speakers,
	})
	if err := p.documents.PutExtraction(ctx, record); err != nil {
		p.rollback(ctx, doc.ID)
		return nil, err
	}

	chunks := index.Chunk(parsed.Text, p.chunkSize, p.chunkOverlap)
	if err := p.index.Upsert(ctx, doc.ID, chunks); err != nil {
		p.rollback(ctx, doc.ID)
		return nil, err
	}

	return &IngestResult{Document: doc, Extraction: record, Replaced: replaced}, nil
}

// replaceExisting removes a prior document carrying the same content
// fingerprint, reporting whether one existed.
func (p *Pipeline) replaceExisting(ctx context.Context, fingerprint core.ID) (bool, error) {
	existing, err := p.documents.FindByFingerprint(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, storage.ErrDocumentNotFound) {
			return false, nil
		}
		return false, err
	}

	p.logger.Info("replacing document with identical transcript", "id", existing.ID)
	if err := p.Delete(ctx, existing.ID); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Pipeline) rollback(ctx context.Context, id core.ID) {
	p.logger.Warn("rolling back partially ingested document", "id", id)
	if err := p.Delete(ctx, id); err != nil {
		p.logger.Error("rollback failed", "id", id, "error", err)
	}
}

// Get returns a stored document with its extraction record. A document
// without a record (mid-rollback) yields an empty record.
func (p *Pipeline) Get(ctx context.Context, id core.ID) (*core.Document, *core.ExtractionRecord, error) {
	doc, err := p.documents.GetDocument(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	record, err := p.documents.GetExtraction(ctx, id)
	if err != nil {
		if !errors.Is(err, storage.ErrExtractionNotFound) {
			return nil, nil, err
		}
		record = core.EmptyExtractionRecord(id)
	}
	return doc, record, nil
}

// List returns all stored documents, most recent first.
func (p *Pipeline) List(ctx context.Context) ([]*core.Document, error) {
	return p.documents.ListDocuments(ctx)
}

// Delete removes a document, its extraction record and its chunks.
// Deleting an unknown document is a no-op.
func (p *Pipeline) Delete(ctx context.Context, id core.ID) error {
	p.index.Delete(ctx, id)
	return p.documents.DeleteDocuments(ctx, id)
}

// DeleteAll removes every document, chunk and history record and
// reports how many documents were removed. The confirmed flag must be
// true; callers own the confirmation prompt.
func (p *Pipeline) DeleteAll(ctx context.Context, confirmed bool) (int, error) {
	if !confirmed {
		return 0, ErrNotConfirmed
	}

	docs, err := p.documents.ListDocuments(ctx)
	if err != nil {
		return 0, err
	}
	for i, doc := range docs {
		if err := p.Delete(ctx, doc.ID); err != nil {
			return i, err
		}
	}

	removed, err := p.history.DeleteAllHistory(ctx)
	if err != nil {
		return len(docs), err
	}
	p.logger.Info("cleared all data", "documents", len(docs), "history_records", removed)
	return len(docs), nil
}
