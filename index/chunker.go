package index

import (
	"strings"
	"unicode/utf8"
)

// Chunking defaults, in characters.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

// sentenceDelimiters mark preferred cut points, searched backward from
// the window end.
var sentenceDelimiters = []string{". ", ".\n", "! ", "?\n"}

// Chunk splits text into overlapping spans of at most size characters,
// preferring sentence boundaries over hard cuts. Non-positive size or
// overlap fall back to the defaults; an overlap at or above size is
// reduced so the window always moves forward. Empty spans are dropped.
func Chunk(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}
	if overlap >= size {
		overlap = size / 10
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + size
		if end >= len(text) {
			if piece := strings.TrimSpace(text[start:]); piece != "" {
				chunks = append(chunks, piece)
			}
			break
		}

		// Cut at the last sentence boundary in the window, unless that
		// boundary sits so close to the window start that the next
		// window would not advance. Then the hard cut keeps progress at
		// size-overlap per iteration. A hard cut may land inside a
		// multi-byte rune, so back it off to the rune start.
		cut := runeFloor(text, end)
		if b := lastSentenceEnd(text[start:end]); b > overlap {
			cut = start + b
		}

		if piece := strings.TrimSpace(text[start:cut]); piece != "" {
			chunks = append(chunks, piece)
		}
		next := runeFloor(text, cut-overlap)
		if next <= start {
			// Tiny windows over wide runes could stall; step one rune.
			_, w := utf8.DecodeRuneInString(text[start:])
			next = start + w
		}
		start = next
	}
	return chunks
}

// runeFloor backs i off to the start of the rune it points into, so a
// slice at i never splits a multi-byte encoding.
func runeFloor(text string, i int) int {
	for i > 0 && i < len(text) && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}

// lastSentenceEnd returns the position just past the last sentence
// delimiter in window, or -1 when none occurs.
func lastSentenceEnd(window string) int {
	best := -1
	for _, delim := range sentenceDelimiters {
		if i := strings.LastIndex(window, delim); i >= 0 && i+len(delim) > best {
			best = i + len(delim)
		}
	}
	return best
}
