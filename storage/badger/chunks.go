package badger

import (
	"context"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/meetlens/meetlens/core"
	"github.com/meetlens/meetlens/storage"
)

// chunkRepository implements storage.ChunkRepository on a shared
// Backend.
type chunkRepository struct {
	backend *Backend
}

// NewChunkRepository builds a chunk repository on the backend.
func NewChunkRepository(backend *Backend) storage.ChunkRepository {
	return &chunkRepository{backend: backend}
}

func (r *chunkRepository) PutChunks(ctx context.Context, chunks ...*core.ChunkEmbedding) error {
	if len(chunks) == 0 {
		return nil
	}
	return r.backend.WithTx(ctx, true, func(txn *badgerdb.Txn) error {
		for _, chunk := range chunks {
			data, err := storage.Marshal(chunk)
			if err != nil {
				return err
			}
			if err := txn.Set(chunkKey(chunk.OwnerID, chunk.Index), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *chunkRepository) DeleteChunks(ctx context.Context, ownerID core.ID) (int, error) {
	var keys [][]byte
	err := r.backend.WithTx(ctx, false, func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = chunkScanPrefix(ownerID)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	err = r.backend.WithTx(ctx, true, func(txn *badgerdb.Txn) error {
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

func (r *chunkRepository) FindSimilar(ctx context.Context, vector []float32, limit int, ownerID core.ID) ([]*core.RetrievedChunk, error) {
	return r.backend.findSimilarChunks(ctx, chunkScanPrefix(ownerID), vector, limit)
}

func (r *chunkRepository) Close() error {
	return nil
}
