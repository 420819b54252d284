package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/meetlens/meetlens/core"
	"github.com/meetlens/meetlens/storage"
)

// documentRepository implements storage.DocumentRepository on a shared
// Backend.
type documentRepository struct {
	backend *Backend
	seq     *badgerdb.Sequence
}

// NewDocumentRepository builds a document repository on the backend.
func NewDocumentRepository(backend *Backend) (storage.DocumentRepository, error) {
	seq, err := backend.Sequence(documentSeqKey)
	if err != nil {
		return nil, err
	}
	return &documentRepository{backend: backend, seq: seq}, nil
}

func (r *documentRepository) AddDocument(ctx context.Context, doc *core.Document) (*core.Document, error) {
	id, err := r.nextID()
	if err != nil {
		return nil, err
	}

	stored := *doc
	stored.ID = id
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	data, err := storage.Marshal(&stored)
	if err != nil {
		return nil, err
	}

	err = r.backend.WithTx(ctx, true, func(txn *badgerdb.Txn) error {
		if err := txn.Set(documentKey(stored.ID), data); err != nil {
			return err
		}
		if err := txn.Set(dateIndexKey(stored.CreatedAt.UnixMicro(), stored.ID), nil); err != nil {
			return err
		}
		if stored.ProjectName != "" {
			if err := txn.Set(projectIndexKey(stored.ProjectName, stored.ID), nil); err != nil {
				return err
			}
		}
		if stored.Fingerprint != 0 {
			return txn.Set(fingerprintKey(stored.Fingerprint), appendID(nil, stored.ID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *documentRepository) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	var doc core.Document
	err := r.backend.WithTx(ctx, false, func(txn *badgerdb.Txn) error {
		return readRecord(txn, documentKey(id), &doc)
	})
	if err != nil {
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: id %d", storage.ErrDocumentNotFound, id)
		}
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) ListDocuments(ctx context.Context) ([]*core.Document, error) {
	var ids []core.ID
	err := r.backend.WithTx(ctx, false, func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(dateIndexPrefix)
		opts.PrefetchValues = false
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration has to start past the end of the prefix
		// range to visit the newest entry first.
		seek := append([]byte(dateIndexPrefix), 0xff)
		for it.Seek(seek); it.ValidForPrefix([]byte(dateIndexPrefix)); it.Next() {
			id, err := idFromKeySuffix(it.Item().Key())
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	docs := make([]*core.Document, 0, len(ids))
	for _, id := range ids {
		doc, err := r.GetDocument(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrDocumentNotFound) {
				r.backend.logger.Warn("date index points at missing document", "id", id)
				continue
			}
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (r *documentRepository) DeleteDocuments(ctx context.Context, ids ...core.ID) error {
	for _, id := range ids {
		doc, err := r.GetDocument(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrDocumentNotFound) {
				continue
			}
			return err
		}

		// The project index may be keyed by the extraction's resolved
		// name rather than the name the document was stored with.
		projects := []string{doc.ProjectName}
		if record, err := r.GetExtraction(ctx, id); err == nil && record.ProjectName != doc.ProjectName {
			projects = append(projects, record.ProjectName)
		}

		err = r.backend.WithTx(ctx, true, func(txn *badgerdb.Txn) error {
			if err := txn.Delete(documentKey(id)); err != nil {
				return err
			}
			if err := txn.Delete(dateIndexKey(doc.CreatedAt.UnixMicro(), id)); err != nil {
				return err
			}
			for _, project := range projects {
				if project == "" {
					continue
				}
				if err := txn.Delete(projectIndexKey(project, id)); err != nil {
					return err
				}
			}
			if doc.Fingerprint != 0 {
				if err := txn.Delete(fingerprintKey(doc.Fingerprint)); err != nil {
					return err
				}
			}
			return txn.Delete(extractionKey(id))
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *documentRepository) FindByFingerprint(ctx context.Context, fingerprint core.ID) (*core.Document, error) {
	var id core.ID
	err := r.backend.WithTx(ctx, false, func(txn *badgerdb.Txn) error {
		item, err := txn.Get(fingerprintKey(fingerprint))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			parsed, err := idFromKeySuffix(val)
			if err != nil {
				return err
			}
			id = parsed
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: fingerprint %d", storage.ErrDocumentNotFound, fingerprint)
		}
		return nil, err
	}
	return r.GetDocument(ctx, id)
}

func (r *documentRepository) FindByProject(ctx context.Context, project string) ([]core.ID, error) {
	var ids []core.ID
	err := r.backend.WithTx(ctx, false, func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = projectIndexScanPrefix(project)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			id, err := idFromKeySuffix(it.Item().Key())
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Identifiers are assigned in insertion order, so the highest is
	// the most recent.
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids, nil
}

func (r *documentRepository) PutExtraction(ctx context.Context, record *core.ExtractionRecord) error {
	data, err := storage.Marshal(record)
	if err != nil {
		return err
	}
	return r.backend.WithTx(ctx, true, func(txn *badgerdb.Txn) error {
		if record.ProjectName != "" {
			if err := txn.Set(projectIndexKey(record.ProjectName, record.DocumentID), nil); err != nil {
				return err
			}
		}
		return txn.Set(extractionKey(record.DocumentID), data)
	})
}

func (r *documentRepository) GetExtraction(ctx context.Context, documentID core.ID) (*core.ExtractionRecord, error) {
	var record core.ExtractionRecord
	err := r.backend.WithTx(ctx, false, func(txn *badgerdb.Txn) error {
		return readRecord(txn, extractionKey(documentID), &record)
	})
	if err != nil {
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: document %d", storage.ErrExtractionNotFound, documentID)
		}
		return nil, err
	}
	return &record, nil
}

func (r *documentRepository) Close() error {
	return r.seq.Release()
}

// nextID skips zero so that the zero ID stays available as "no
// document" in owner filters.
func (r *documentRepository) nextID() (core.ID, error) {
	for {
		n, err := r.seq.Next()
		if err != nil {
			return 0, fmt.Errorf("allocating document id: %w", err)
		}
		if n != 0 {
			return core.ID(n), nil
		}
	}
}

func readRecord(txn *badgerdb.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return storage.Unmarshal(val, v)
	})
}
