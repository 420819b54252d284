// Package pipeline ties the subsystems together: it takes a raw
// transcript through normalization, duplicate replacement, storage,
// extraction and indexing as one sequential flow, and owns the
// cascading delete paths.
package pipeline
