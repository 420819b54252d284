package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/meetlens/meetlens/core"
)

// Key layout. Documents live under "doc:", with secondary indexes for
// recency ("docd:"), project name ("docp:") and content fingerprint
// ("docf:"). Chunk embeddings use a binary composite key of owner and
// index so that one owner's chunks form a contiguous range.
const (
	documentPrefix    = "doc:"
	documentSeqKey    = "doc-seq"
	dateIndexPrefix   = "docd:"
	projectPrefix     = "docp:"
	fingerprintPrefix = "docf:"
	extractionPrefix  = "ext:"
	chunkPrefix       = "chk:"
	historyPrefix     = "his:"
	historySeqKey     = "his-seq"
)

func documentKey(id core.ID) []byte {
	return appendID([]byte(documentPrefix), id)
}

func extractionKey(id core.ID) []byte {
	return appendID([]byte(extractionPrefix), id)
}

// dateIndexKey orders documents by creation time. Timestamps are stored
// big-endian so lexical iteration is chronological; the identifier
// disambiguates equal timestamps.
func dateIndexKey(createdAt int64, id core.ID) []byte {
	key := make([]byte, 0, len(dateIndexPrefix)+16)
	key = append(key, dateIndexPrefix...)
	key = binary.BigEndian.AppendUint64(key, uint64(createdAt))
	return appendID(key, id)
}

// projectIndexKey maps a project name to a document. A NUL separates
// the name from the identifier so one name can never be a key-prefix of
// another.
func projectIndexKey(project string, id core.ID) []byte {
	key := make([]byte, 0, len(projectPrefix)+len(project)+9)
	key = append(key, projectPrefix...)
	key = append(key, project...)
	key = append(key, 0)
	return appendID(key, id)
}

func projectIndexScanPrefix(project string) []byte {
	key := make([]byte, 0, len(projectPrefix)+len(project)+1)
	key = append(key, projectPrefix...)
	key = append(key, project...)
	return append(key, 0)
}

func fingerprintKey(fingerprint core.ID) []byte {
	return appendID([]byte(fingerprintPrefix), fingerprint)
}

// chunkKey is "chk:" + owner (8 bytes) + index (4 bytes). All chunks of
// one document share the owner prefix, so owner-scoped similarity
// search and deletion are plain prefix scans.
func chunkKey(ownerID core.ID, index int) []byte {
	key := appendID([]byte(chunkPrefix), ownerID)
	return binary.BigEndian.AppendUint32(key, uint32(index))
}

func chunkScanPrefix(ownerID core.ID) []byte {
	if ownerID == 0 {
		return []byte(chunkPrefix)
	}
	return appendID([]byte(chunkPrefix), ownerID)
}

func historyKey(id core.ID) []byte {
	return appendID([]byte(historyPrefix), id)
}

func appendID(key []byte, id core.ID) []byte {
	return binary.BigEndian.AppendUint64(key, uint64(id))
}

func idFromKeySuffix(key []byte) (core.ID, error) {
	if len(key) < 8 {
		return 0, fmt.Errorf("key too short for identifier: %q", key)
	}
	return core.ID(binary.BigEndian.Uint64(key[len(key)-8:])), nil
}
