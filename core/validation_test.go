package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTranscript(t *testing.T) {
	valid := &Transcript{
		Format: FormatSpeakerTagged,
		Text:   "Alice: We ship Friday.\nBob: Blocked on infra.",
		Segments: []Segment{
			{Speaker: "Alice", Text: "We ship Friday."},
			{Speaker: "Bob", Text: "Blocked on infra."},
		},
		Speakers:     []string{"Alice", "Bob"},
		LanguageHint: "auto",
	}

	t.Run("valid transcript", func(t *testing.T) {
		assert.NoError(t, ValidateTranscript(valid))
	})

	t.Run("empty transcript is valid", func(t *testing.T) {
		assert.NoError(t, ValidateTranscript(&Transcript{LanguageHint: "auto"}))
	})

	t.Run("nil transcript", func(t *testing.T) {
		err := ValidateTranscript(nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedInput)
	})

	t.Run("text diverging from segments", func(t *testing.T) {
		bad := *valid
		bad.Text = "something else entirely"
		err := ValidateTranscript(&bad)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedInput)
	})

	t.Run("segment with empty text", func(t *testing.T) {
		bad := &Transcript{
			Text:     "Alice: ",
			Segments: []Segment{{Speaker: "Alice", Text: ""}},
			Speakers: []string{"Alice"},
		}
		err := ValidateTranscript(bad)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedInput)
	})

	t.Run("speaker missing from speaker set", func(t *testing.T) {
		bad := &Transcript{
			Text:     "Alice: hi",
			Segments: []Segment{{Speaker: "Alice", Text: "hi"}},
			Speakers: []string{"Bob"},
		}
		err := ValidateTranscript(bad)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedInput)
	})
}

func TestValidateDocument(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		assert.NoError(t, ValidateDocument(&Document{Text: "notes"}))
	})

	t.Run("nil document", func(t *testing.T) {
		assert.ErrorIs(t, ValidateDocument(nil), ErrStorage)
	})

	t.Run("no text and no transcript", func(t *testing.T) {
		assert.ErrorIs(t, ValidateDocument(&Document{}), ErrUnsupportedInput)
	})
}
