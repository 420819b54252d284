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

package badger

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/meetlens/meetlens/core"
	"github.com/meetlens/meetlens/storage"
)

// Backend wraps a badger database shared by the repositories built on
// top of it.
type Backend struct {
	db     *badgerdb.DB
	logger *slog.Logger
}

// Open opens (or creates) an on-disk badger database at path.
func Open(path string, logger *slog.Logger) (*Backend, error) {
	return open(badgerdb.DefaultOptions(path), logger)
}

// OpenInMemory opens an in-memory badger database. Data is lost on
// close; intended for tests and throwaway sessions.
func OpenInMemory(logger *slog.Logger) (*Backend, error) {
	return open(badgerdb.DefaultOptions("").WithInMemory(true), logger)
}

func open(opts badgerdb.Options, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "storage")
	opts = opts.WithLogger(&slogAdapter{logger: logger})

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger database: %w", err)
	}
	return &Backend{db: db, logger: logger}, nil
}

// WithTx runs fn inside a badger transaction, honoring context
// cancellation before starting.
func (b *Backend) WithTx(ctx context.Context, update bool, fn func(txn *badgerdb.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var err error
	if update {
		err = b.db.Update(fn)
	} else {
		err = b.db.View(fn)
	}
	if err != nil {
		// Both halves stay unwrappable so callers can still detect
		// badger's sentinel errors.
		return fmt.Errorf("%w: %w", storage.ErrTransactionFailed, err)
	}
	return nil
}

// Sequence returns a monotonically increasing identifier sequence under
// the given key.
func (b *Backend) Sequence(key string) (*badgerdb.Sequence, error) {
	seq, err := b.db.GetSequence([]byte(key), 64)
	if err != nil {
		return nil, fmt.Errorf("obtaining sequence %q: %w", key, err)
	}
	return seq, nil
}

// DropAll removes every key in the database.
func (b *Backend) DropAll() error {
	if err := b.db.DropAll(); err != nil {
		return fmt.Errorf("dropping database contents: %w", err)
	}
	return nil
}

// Close releases the underlying database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// findSimilarChunks scans the chunk range selected by prefix, scoring
// each stored vector against the query by dot product, and returns the
// top matches in descending score order.
func (b *Backend) findSimilarChunks(ctx context.Context, prefix []byte, vector []float32, limit int) ([]*core.RetrievedChunk, error) {
	if limit <= 0 {
		return nil, nil
	}

	var matches []*core.RetrievedChunk
	err := b.WithTx(ctx, false, func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var chunk core.ChunkEmbedding
			err := it.Item().Value(func(val []byte) error {
				return storage.Unmarshal(val, &chunk)
			})
			if err != nil {
				return err
			}
			if len(chunk.Vector) != len(vector) {
				b.logger.Warn("skipping chunk with mismatched vector size",
					"owner_id", chunk.OwnerID, "index", chunk.Index,
					"stored", len(chunk.Vector), "query", len(vector))
				continue
			}
			matches = append(matches, &core.RetrievedChunk{
				OwnerID: chunk.OwnerID,
				Index:   chunk.Index,
				Text:    chunk.Text,
				Score:   dotProduct(chunk.Vector, vector),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// dotProduct assumes normalized embedding vectors, for which it equals
// cosine similarity.
func dotProduct(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// slogAdapter bridges badger's logger interface onto slog. Badger's
// internal chatter is demoted to debug.
type slogAdapter struct {
	logger *slog.Logger
}

func (a *slogAdapter) Errorf(format string, args ...any) {
	a.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (a *slogAdapter) Warningf(format string, args ...any) {
	a.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (a *slogAdapter) Infof(format string, args ...any) {
	a.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (a *slogAdapter) Debugf(format string, args ...any) {
	a.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
