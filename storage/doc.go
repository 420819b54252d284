// Package storage defines the persistence contracts for meeting
// documents, chunk embeddings, extraction records and question history.
//
// Implementations live in subpackages; the badger subpackage provides
// the embedded default. Records are encoded as JSON so that stored
// extraction results keep the shape the language model produced them in.
package storage
