package index

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk(t *testing.T) {
	t.Run("short text is one chunk", func(t *testing.T) {
		got := Chunk("We ship Friday.", 500, 50)
		assert.Equal(t, []string{"We ship Friday."}, got)
	})

	t.Run("empty text yields nothing", func(t *testing.T) {
		assert.Empty(t, Chunk("", 500, 50))
		assert.Empty(t, Chunk("   \n  ", 500, 50))
	})

	t.Run("defaults applied for non-positive parameters", func(t *testing.T) {
		text := strings.Repeat("word ", 80) // 400 chars, under default size
		got := Chunk(text, 0, -1)
		require.Len(t, got, 1)
	})

	t.Run("cuts at sentence boundaries", func(t *testing.T) {
		first := strings.Repeat("a", 60) + ". "
		second := strings.Repeat("b", 80) + "."
		got := Chunk(first+second, 100, 10)

		require.GreaterOrEqual(t, len(got), 2)
		assert.Equal(t, strings.Repeat("a", 60)+".", got[0])
		assert.True(t, strings.HasSuffix(got[len(got)-1], strings.Repeat("b", 10)+"."))
	})

	t.Run("hard cut when no delimiter", func(t *testing.T) {
		text := strings.Repeat("x", 1000)
		got := Chunk(text, 100, 10)

		require.NotEmpty(t, got)
		for i, chunk := range got[:len(got)-1] {
			assert.Len(t, chunk, 100, "chunk %d", i)
		}
		// Each window starts overlap characters before the previous end.
		assert.Len(t, got, 11)
	})

	t.Run("neighbors overlap", func(t *testing.T) {
		text := strings.Repeat("y", 300)
		got := Chunk(text, 100, 20)
		require.Greater(t, len(got), 1)
		for i := 1; i < len(got); i++ {
			tail := got[i-1][len(got[i-1])-20:]
			assert.True(t, strings.HasPrefix(got[i], tail), "chunk %d must overlap its predecessor", i)
		}
	})

	t.Run("covers all text", func(t *testing.T) {
		sentences := []string{
			"The roadmap slipped by two weeks.",
			"Infra is blocked on the security review.",
			"Hiring closed two offers this sprint.",
			"Budget review moved to Thursday.",
		}
		text := strings.Join(sentences, " ")
		text = strings.Repeat(text+" ", 5)
		got := Chunk(text, 120, 20)

		joined := strings.Join(got, " ")
		for _, sentence := range sentences {
			assert.Contains(t, joined, sentence)
		}
	})

	t.Run("terminates when boundary sits at window start", func(t *testing.T) {
		// A delimiter right at the start of the window must not stall
		// the scan.
		text := ". " + strings.Repeat("z", 500)
		got := Chunk(text, 100, 90)
		assert.NotEmpty(t, got)
	})

	t.Run("hard cut lands on rune boundaries", func(t *testing.T) {
		// Without sentence delimiters every cut is a hard cut; with
		// multi-byte runes the cut position must back off to a rune
		// start instead of splitting an encoding.
		text := strings.Repeat("ありがとう", 100) // 3-byte runes, no delimiters
		got := Chunk(text, 100, 10)

		require.Greater(t, len(got), 1)
		for i, chunk := range got {
			assert.True(t, utf8.ValidString(chunk), "chunk %d holds invalid UTF-8", i)
		}
	})

	t.Run("overlap at or above size is reduced", func(t *testing.T) {
		text := strings.Repeat("q", 300)
		got := Chunk(text, 100, 100)
		assert.NotEmpty(t, got)
		assert.Less(t, len(got), 50)
	})
}
