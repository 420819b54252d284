package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Document IDs come from database sequences; fingerprints are content-based.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// TranscriptFormat tags the input shape a transcript was normalized from.
type TranscriptFormat string

const (
	// FormatPlainText is unstructured prose with no speaker tags.
	FormatPlainText TranscriptFormat = "plain"
	// FormatSpeakerTagged is "Speaker: utterance" prose or structured segments.
	FormatSpeakerTagged TranscriptFormat = "speaker_tagged"
	// FormatStructured is a bare dict carrying a single text field.
	FormatStructured TranscriptFormat = "structured"
)

// Segment is one speaker-attributed span of a transcript.
// Timestamp fields are retained only when the source provided them.
type Segment struct {
	Speaker   string `json:"speaker"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp,omitempty"`
	Start     string `json:"start,omitempty"`
	End       string `json:"end,omitempty"`
}

// Transcript is the canonical form every ingested input is normalized to.
// Text is always derivable by joining segments in order; empty segments
// yield empty text.
type Transcript struct {
	Format       TranscriptFormat `json:"format"`
	Text         string           `json:"text"`
	Segments     []Segment        `json:"segments"`
	Speakers     []string         `json:"speakers"`
	Title        string           `json:"title,omitempty"`
	ExternalID   string           `json:"external_id,omitempty"`
	LanguageHint string           `json:"language_hint"`
}

// JoinSegments rebuilds the canonical text from ordered segments.
// A lone "Unknown" segment is plain prose and carries no speaker label.
func JoinSegments(segments []Segment) string {
	if len(segments) == 1 && segments[0].Speaker == "Unknown" {
		return segments[0].Text
	}
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, seg.Speaker+": "+seg.Text)
	}
	return strings.Join(parts, "\n")
}

// Document is one ingested transcript with its identity metadata.
// A document is immutable after creation; reprocessing replaces it wholesale.
type Document struct {
	ID          ID          `json:"id"`
	Title       string      `json:"title,omitempty"`
	ProjectName string      `json:"project_name,omitempty"`
	Text        string      `json:"text"`
	Transcript  *Transcript `json:"transcript,omitempty"`
	Fingerprint ID          `json:"fingerprint"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ChunkEmbedding is one embedded span of a document's text, the unit of
// retrieval. Chunks are keyed by (OwnerID, Index) and deleted together
// with their owning document.
type ChunkEmbedding struct {
	OwnerID ID        `json:"owner_id"`
	Index   int       `json:"index"`
	Text    string    `json:"text"`
	Preview string    `json:"preview"`
	Vector  []float32 `json:"vector"`
}

// PreviewLength bounds ChunkEmbedding.Preview.
const PreviewLength = 200

// Preview returns a bounded-length prefix of text for cheap inspection
// without re-embedding.
func Preview(text string) string {
	if len(text) <= PreviewLength {
		return text
	}
	return text[:PreviewLength]
}

// RetrievedChunk is one vector-search hit. Result slices are ordered
// best-similarity-first.
type RetrievedChunk struct {
	OwnerID ID      `json:"owner_id"`
	Index   int     `json:"index"`
	Text    string  `json:"text"`
	Score   float64 `json:"score"`
}

// HistoryRecord is one answered question, appended after generation
// completes. DocumentID is zero for corpus-wide questions.
type HistoryRecord struct {
	ID         ID        `json:"id"`
	DocumentID ID        `json:"document_id,omitempty"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Timestamp  time.Time `json:"timestamp"`
}
