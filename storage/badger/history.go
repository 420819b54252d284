package badger

import (
	"context"
	"fmt"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/meetlens/meetlens/core"
	"github.com/meetlens/meetlens/storage"
)

// historyRepository implements storage.HistoryRepository on a shared
// Backend.
type historyRepository struct {
	backend *Backend
	seq     *badgerdb.Sequence
}

// NewHistoryRepository builds a history repository on the backend.
func NewHistoryRepository(backend *Backend) (storage.HistoryRepository, error) {
	seq, err := backend.Sequence(historySeqKey)
	if err != nil {
		return nil, err
	}
	return &historyRepository{backend: backend, seq: seq}, nil
}

func (r *historyRepository) AppendHistory(ctx context.Context, record *core.HistoryRecord) (*core.HistoryRecord, error) {
	n, err := r.seq.Next()
	if err != nil {
		return nil, fmt.Errorf("allocating history id: %w", err)
	}

	stored := *record
	stored.ID = core.ID(n + 1)
	if stored.Timestamp.IsZero() {
		stored.Timestamp = time.Now().UTC()
	}

	data, err := storage.Marshal(&stored)
	if err != nil {
		return nil, err
	}
	err = r.backend.WithTx(ctx, true, func(txn *badgerdb.Txn) error {
		return txn.Set(historyKey(stored.ID), data)
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *historyRepository) ListHistory(ctx context.Context, limit int) ([]*core.HistoryRecord, error) {
	var records []*core.HistoryRecord
	err := r.backend.WithTx(ctx, false, func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(historyPrefix)
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append([]byte(historyPrefix), 0xff)
		for it.Seek(seek); it.ValidForPrefix([]byte(historyPrefix)); it.Next() {
			if limit > 0 && len(records) >= limit {
				return nil
			}
			var record core.HistoryRecord
			err := it.Item().Value(func(val []byte) error {
				return storage.Unmarshal(val, &record)
			})
			if err != nil {
				return err
			}
			records = append(records, &record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *historyRepository) DeleteAllHistory(ctx context.Context) (int, error) {
	var keys [][]byte
	err := r.backend.WithTx(ctx, false, func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(historyPrefix)
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

func (r *historyRepository) Close() error {
	return r.seq.Release()
}
