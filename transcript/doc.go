// Package transcript normalizes heterogeneous meeting transcript inputs
// into the canonical document model.
//
// Three input shapes are accepted: a JSON-shaped structured value, a string
// that parses as JSON (treated as the structured value), and freeform prose.
// Prose is scanned line by line for the "Speaker: utterance" pattern; once
// any line matches, the whole document is treated as speaker-tagged and
// non-matching lines continue the prior utterance. The first few lines may
// carry "Title:" or "Meeting ID:" labels, or a short untagged first line
// treated as an inferred title.
//
// All segment text and titles pass through CleanText, which is idempotent.
package transcript
