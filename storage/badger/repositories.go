package badger

import (
	"log/slog"

	"github.com/meetlens/meetlens/storage"
)

// Repositories bundles the three repositories sharing one backend.
type Repositories struct {
	Documents storage.DocumentRepository
	Chunks    storage.ChunkRepository
	History   storage.HistoryRepository

	backend *Backend
}

// NewRepositories opens an on-disk backend at path and builds the
// repositories on it.
func NewRepositories(path string, logger *slog.Logger) (*Repositories, error) {
	backend, err := Open(path, logger)
	if err != nil {
		return nil, err
	}
	return buildRepositories(backend)
}

// NewMemoryRepositories builds the repositories on an in-memory
// backend. Intended for tests.
func NewMemoryRepositories(logger *slog.Logger) (*Repositories, error) {
	backend, err := OpenInMemory(logger)
	if err != nil {
		return nil, err
	}
	return buildRepositories(backend)
}

func buildRepositories(backend *Backend) (*Repositories, error) {
	docs, err := NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	history, err := NewHistoryRepository(backend)
	if err != nil {
		docs.Close()
		backend.Close()
		return nil, err
	}
	return &Repositories{
		Documents: docs,
		Chunks:    NewChunkRepository(backend),
		History:   history,
		backend:   backend,
	}, nil
}

// DropAll removes every stored record.
func (r *Repositories) DropAll() error {
	return r.backend.DropAll()
}

// Close releases the repositories and the shared backend.
func (r *Repositories) Close() error {
	r.Documents.Close()
	r.Chunks.Close()
	r.History.Close()
	return r.backend.Close()
}
