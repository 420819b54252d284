// Package index turns document text into overlapping chunks and serves
// similarity searches over their embeddings.
//
// The chunker prefers sentence boundaries and guarantees forward
// progress even when none is found. The index pushes single-owner
// restrictions down to the store's key layout; set restrictions are
// applied client-side by over-fetching candidates.
package index
