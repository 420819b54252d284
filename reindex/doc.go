// Package reindex rebuilds the vector index from stored documents,
// re-chunking and re-embedding the whole corpus with retry and progress
// reporting. It is the recovery path after an embedding-model change or
// a damaged index.
package reindex
