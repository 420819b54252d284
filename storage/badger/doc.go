// Package badger implements the storage repositories on an embedded
// badger key/value database.
//
// All repositories share one Backend. Chunk embeddings are keyed by a
// binary (owner, index) composite so a document's chunks occupy a
// contiguous key range; owner-restricted similarity search is a prefix
// scan over that range scored by dot product.
package badger
