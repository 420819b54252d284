package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	t.Run("clean object", func(t *testing.T) {
		value, err := ExtractJSON(`{"summary": "short"}`)
		require.NoError(t, err)

		m, ok := value.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "short", m["summary"])
	})

	t.Run("clean array", func(t *testing.T) {
		value, err := ExtractJSON(`[{"name": "Apollo"}]`)
		require.NoError(t, err)

		list, ok := value.([]any)
		require.True(t, ok)
		assert.Len(t, list, 1)
	})

	t.Run("json code fence", func(t *testing.T) {
		value, err := ExtractJSON("```json\n{\"ideas\": []}\n```")
		require.NoError(t, err)

		m, ok := value.(map[string]any)
		require.True(t, ok)
		assert.Contains(t, m, "ideas")
	})

	t.Run("bare code fence", func(t *testing.T) {
		value, err := ExtractJSON("```\n{\"owners\": [\"Priya\"]}\n```")
		require.NoError(t, err)
		assert.IsType(t, map[string]any{}, value)
	})

	t.Run("surrounding prose", func(t *testing.T) {
		value, err := ExtractJSON(`Here is the analysis you asked for: {"overall_sentiment": "positive"} Hope that helps!`)
		require.NoError(t, err)

		m, ok := value.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "positive", m["overall_sentiment"])
	})

	t.Run("braces inside string values", func(t *testing.T) {
		value, err := ExtractJSON(`The result: {"text": "use {curly} braces"} done`)
		require.NoError(t, err)

		m, ok := value.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "use {curly} braces", m["text"])
	})

	t.Run("missing opening quote on key", func(t *testing.T) {
		value, err := ExtractJSON(`{"a": 1, b": 2}`)
		require.NoError(t, err)

		m, ok := value.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(2), m["b"])
	})

	t.Run("no json at all", func(t *testing.T) {
		_, err := ExtractJSON("I could not produce an answer.")
		assert.Error(t, err)
	})
}

func TestFirstBalancedSpan(t *testing.T) {
	assert.Equal(t, `{"a":1}`, firstBalancedSpan(`x {"a":1} y`))
	assert.Equal(t, `[1,2]`, firstBalancedSpan(`list: [1,2] end`))
	assert.Equal(t, "", firstBalancedSpan("no braces here"))
	assert.Equal(t, "", firstBalancedSpan("{unclosed"))
}
