package core

import "fmt"

// ValidateTranscript validates a canonical transcript.
//
// Validation rules:
//   - Text must equal the join of segments in order
//   - every segment must have non-empty text
//   - Speakers must contain every distinct segment speaker
//
// An empty transcript (no segments, empty text) is valid.
func ValidateTranscript(t *Transcript) error {
	if t == nil {
		return fmt.Errorf("%w: transcript is nil", ErrUnsupportedInput)
	}

	if joined := JoinSegments(t.Segments); joined != t.Text {
		return fmt.Errorf("%w: text does not match segments", ErrUnsupportedInput)
	}

	seen := make(map[string]bool, len(t.Speakers))
	for _, s := range t.Speakers {
		seen[s] = true
	}
	for i, seg := range t.Segments {
		if seg.Text == "" {
			return fmt.Errorf("%w: segment %d has empty text", ErrUnsupportedInput, i)
		}
		if seg.Speaker != "Unknown" && !seen[seg.Speaker] {
			return fmt.Errorf("%w: speaker %q missing from speaker set", ErrUnsupportedInput, seg.Speaker)
		}
	}

	return nil
}

// ValidateDocument validates a document before storage.
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrStorage)
	}
	if doc.Text == "" && doc.Transcript == nil {
		return fmt.Errorf("%w: document has no text and no transcript", ErrUnsupportedInput)
	}
	return nil
}
