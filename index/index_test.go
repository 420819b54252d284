package index

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetlens/meetlens/ai/mock"
	"github.com/meetlens/meetlens/core"
	"github.com/meetlens/meetlens/storage/badger"
)

// axisEmbedder maps known texts onto fixed unit vectors so similarity
// ordering in tests is exact.
func axisEmbedder(vectors map[string][]float32) *mock.MockEmbedder {
	embedder := mock.NewMockEmbedder()
	lookup := func(text string) []float32 {
		if v, ok := vectors[text]; ok {
			return v
		}
		return []float32{0, 0, 0, 1}
	}
	embedder.EmbedTextFunc = func(_ context.Context, text string) ([]float32, error) {
		return lookup(text), nil
	}
	embedder.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i, text := range texts {
			out[i] = lookup(text)
		}
		return out, nil
	}
	return embedder
}

func newTestIndex(t *testing.T, embedder *mock.MockEmbedder) *Index {
	t.Helper()
	repos, err := badger.NewMemoryRepositories(nil)
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })
	return New(repos.Chunks, embedder, nil)
}

func TestIndexUpsertAndSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		ix := newTestIndex(t, axisEmbedder(map[string][]float32{
			"budget":          {1, 0, 0, 0},
			"budget planning": {0.9, 0.1, 0, 0},
			"hiring":          {0, 1, 0, 0},
		}))

		require.NoError(t, ix.Upsert(ctx, 1, []string{"budget planning", "hiring"}))

		got := ix.Search(ctx, "budget", 1, FilterNone())
		require.Len(t, got, 1)
		assert.Equal(t, "budget planning", got[0].Text)
		assert.Equal(t, core.ID(1), got[0].OwnerID)
		assert.Zero(t, got[0].Index)
	})

	t.Run("upsert nothing is a no-op", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		ix := newTestIndex(t, embedder)
		require.NoError(t, ix.Upsert(ctx, 1, nil))
		assert.Zero(t, embedder.CallCount())
	})

	t.Run("embedding failure aborts upsert", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) {
			return nil, errors.New("model offline")
		}
		ix := newTestIndex(t, embedder)

		err := ix.Upsert(ctx, 1, []string{"some text"})
		require.Error(t, err)

		embedder.Reset()
		got := ix.Search(ctx, "some text", 5, FilterNone())
		assert.Empty(t, got, "nothing may be stored after a failed upsert")
	})

	t.Run("vector count mismatch aborts upsert", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) {
			return [][]float32{{1}}, nil
		}
		ix := newTestIndex(t, embedder)

		err := ix.Upsert(ctx, 1, []string{"a", "b"})
		assert.ErrorIs(t, err, ErrEmbeddingMismatch)
	})

	t.Run("reingest replaces positions", func(t *testing.T) {
		ix := newTestIndex(t, axisEmbedder(map[string][]float32{
			"old": {1, 0, 0, 0},
			"new": {1, 0, 0, 0},
			"q":   {1, 0, 0, 0},
		}))

		require.NoError(t, ix.Upsert(ctx, 1, []string{"old"}))
		ix.Delete(ctx, 1)
		require.NoError(t, ix.Upsert(ctx, 1, []string{"new"}))

		got := ix.Search(ctx, "q", 10, FilterNone())
		require.Len(t, got, 1)
		assert.Equal(t, "new", got[0].Text)
	})
}

func TestIndexSearchFilters(t *testing.T) {
	ctx := context.Background()

	// An index with 10 chunks for owner 7, 1 for owner 9 and 50 for
	// owner 3, where owner 3's chunks score best.
	seedCrowded := func(t *testing.T) *Index {
		t.Helper()
		vectors := make(map[string][]float32)
		var sevens, threes []string
		for i := 0; i < 10; i++ {
			text := fmt.Sprintf("seven-%d", i)
			vectors[text] = []float32{0.5, 0.5, 0, 0}
			sevens = append(sevens, text)
		}
		for i := 0; i < 50; i++ {
			text := fmt.Sprintf("three-%d", i)
			vectors[text] = []float32{0.99, 0.01, 0, 0}
			threes = append(threes, text)
		}
		vectors["nine-0"] = []float32{0.4, 0.6, 0, 0}
		vectors["query"] = []float32{1, 0, 0, 0}

		ix := newTestIndex(t, axisEmbedder(vectors))
		require.NoError(t, ix.Upsert(ctx, 7, sevens))
		require.NoError(t, ix.Upsert(ctx, 9, []string{"nine-0"}))
		require.NoError(t, ix.Upsert(ctx, 3, threes))
		return ix
	}

	t.Run("set filter over-fetches past foreign owners", func(t *testing.T) {
		ix := seedCrowded(t)

		got := ix.Search(ctx, "query", 3, FilterOwners(7, 9))
		require.Len(t, got, 3)
		for _, match := range got {
			assert.Contains(t, []core.ID{7, 9}, match.OwnerID)
		}
		// Owner 7 scores above owner 9 against this query.
		assert.Equal(t, core.ID(7), got[0].OwnerID)
	})

	t.Run("set filter exhausts index when matches are scarce", func(t *testing.T) {
		ix := seedCrowded(t)

		got := ix.Search(ctx, "query", 5, FilterOwners(9, 999))
		require.Len(t, got, 1)
		assert.Equal(t, core.ID(9), got[0].OwnerID)
	})

	t.Run("single owner filter", func(t *testing.T) {
		ix := seedCrowded(t)

		got := ix.Search(ctx, "query", 100, FilterOwner(9))
		require.Len(t, got, 1)
		assert.Equal(t, "nine-0", got[0].Text)
	})

	t.Run("deleted owner never resurfaces", func(t *testing.T) {
		ix := seedCrowded(t)

		ix.Delete(ctx, 3)
		got := ix.Search(ctx, "query", 100, FilterNone())
		assert.NotEmpty(t, got)
		for _, match := range got {
			assert.NotEqual(t, core.ID(3), match.OwnerID)
		}
	})

	t.Run("delete absent owner is a no-op", func(t *testing.T) {
		ix := newTestIndex(t, mock.NewMockEmbedder())
		ix.Delete(ctx, 12345)
	})

	t.Run("query embedding failure degrades to empty", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
			return nil, errors.New("model offline")
		}
		ix := newTestIndex(t, embedder)
		assert.Empty(t, ix.Search(ctx, "anything", 5, FilterNone()))
	})
}

func TestOwnerFilter(t *testing.T) {
	assert.False(t, FilterNone().IsRestricted())
	assert.True(t, FilterOwner(3).IsRestricted())
	assert.Equal(t, core.ID(3), FilterOwner(3).Primary())
	assert.Zero(t, FilterOwners(3, 4).Primary())
	assert.Zero(t, FilterNone().Primary())
}
