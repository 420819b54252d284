package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetlens/meetlens/ai"
	"github.com/meetlens/meetlens/ai/mock"
	"github.com/meetlens/meetlens/core"
	"github.com/meetlens/meetlens/extract"
	"github.com/meetlens/meetlens/index"
	"github.com/meetlens/meetlens/storage"
	"github.com/meetlens/meetlens/storage/badger"
)

type fixture struct {
	pipeline  *Pipeline
	repos     *badger.Repositories
	generator *mock.MockGenerator
	embedder  *mock.MockEmbedder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repos, err := badger.NewMemoryRepositories(nil)
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })

	generator := mock.NewMockGenerator()
	embedder := mock.NewMockEmbedder()
	ix := index.New(repos.Chunks, embedder, nil)

	orchestrator, err := extract.New(generator)
	require.NoError(t, err)
	t.Cleanup(orchestrator.Close)

	return &fixture{
		pipeline:  New(repos.Documents, repos.History, ix, orchestrator, WithChunking(100, 10)),
		repos:     repos,
		generator: generator,
		embedder:  embedder,
	}
}

const sampleTranscript = `{"title": "Sprint Review", "segments": [
	{"speaker": "A", "text": "We ship Friday."},
	{"speaker": "B", "text": "Blocked on infra."}
]}`

func TestIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("full flow", func(t *testing.T) {
		f := newFixture(t)
		f.generator.GenerateFunc = func(_ context.Context, req ai.GenerateRequest) (string, error) {
			if strings.Contains(req.SystemPrompt, "identifying the main project") {
				return "Release Train", nil
			}
			return "Shipping Friday, infra is blocked.", nil
		}

		result, err := f.pipeline.Ingest(ctx, IngestRequest{Input: sampleTranscript})
		require.NoError(t, err)
		assert.False(t, result.Replaced)
		assert.Equal(t, "Sprint Review", result.Document.Title)
		assert.Equal(t, "A: We ship Friday.\nB: Blocked on infra.", result.Document.Text)
		assert.NotZero(t, result.Document.Fingerprint)
		assert.Equal(t, "Release Train", result.Extraction.ProjectName)
		assert.Equal(t, result.Document.ID, result.Extraction.DocumentID)

		// Derived state is queryable.
		doc, record, err := f.pipeline.Get(ctx, result.Document.ID)
		require.NoError(t, err)
		assert.Equal(t, "Sprint Review", doc.Title)
		assert.Equal(t, "Release Train", record.ProjectName)

		ids, err := f.repos.Documents.FindByProject(ctx, "Release Train")
		require.NoError(t, err)
		assert.Equal(t, []core.ID{result.Document.ID}, ids)

		matches, err := f.repos.Chunks.FindSimilar(ctx, mustEmbed(t, f.embedder, doc.Text), 5, result.Document.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, matches)
	})

	t.Run("explicit title and project name win", func(t *testing.T) {
		f := newFixture(t)

		result, err := f.pipeline.Ingest(ctx, IngestRequest{
			Input:       sampleTranscript,
			Title:       "Override Title",
			ProjectName: "Apollo",
		})
		require.NoError(t, err)
		assert.Equal(t, "Override Title", result.Document.Title)
		assert.Equal(t, "Apollo", result.Extraction.ProjectName)
	})

	t.Run("identical transcript is replaced not duplicated", func(t *testing.T) {
		f := newFixture(t)

		first, err := f.pipeline.Ingest(ctx, IngestRequest{Input: sampleTranscript})
		require.NoError(t, err)

		second, err := f.pipeline.Ingest(ctx, IngestRequest{Input: sampleTranscript})
		require.NoError(t, err)
		assert.True(t, second.Replaced)
		assert.NotEqual(t, first.Document.ID, second.Document.ID)

		docs, err := f.pipeline.List(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, second.Document.ID, docs[0].ID)

		_, err = f.repos.Documents.GetDocument(ctx, first.Document.ID)
		assert.ErrorIs(t, err, storage.ErrDocumentNotFound)
	})

	t.Run("unsupported input", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.pipeline.Ingest(ctx, IngestRequest{Input: 3.14})
		assert.ErrorIs(t, err, core.ErrUnsupportedInput)
	})

	t.Run("empty transcript", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.pipeline.Ingest(ctx, IngestRequest{Input: `{"segments": []}`})
		assert.ErrorIs(t, err, ErrEmptyTranscript)
	})

	t.Run("embedding failure rolls the document back", func(t *testing.T) {
		f := newFixture(t)
		f.embedder.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) {
			return nil, errors.New("model offline")
		}

		_, err := f.pipeline.Ingest(ctx, IngestRequest{Input: sampleTranscript})
		require.Error(t, err)

		docs, err := f.pipeline.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, docs, "no partially ingested document may survive")
	})

	t.Run("failed capability still ingests", func(t *testing.T) {
		f := newFixture(t)
		f.generator.GenerateJSONFunc = func(context.Context, ai.GenerateRequest) (any, error) {
			return nil, errors.New("model offline")
		}

		result, err := f.pipeline.Ingest(ctx, IngestRequest{Input: sampleTranscript})
		require.NoError(t, err)
		assert.Equal(t, "neutral", result.Extraction.Pulse.OverallSentiment)
	})
}

func TestDeleteAll(t *testing.T) {
	ctx := context.Background()

	t.Run("requires confirmation", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.pipeline.DeleteAll(ctx, false)
		assert.ErrorIs(t, err, ErrNotConfirmed)
	})

	t.Run("cascades documents chunks and history", func(t *testing.T) {
		f := newFixture(t)

		result, err := f.pipeline.Ingest(ctx, IngestRequest{Input: sampleTranscript})
		require.NoError(t, err)
		_, err = f.repos.History.AppendHistory(ctx, &core.HistoryRecord{Question: "q", Answer: "a"})
		require.NoError(t, err)

		removed, err := f.pipeline.DeleteAll(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, 1, removed)

		docs, err := f.pipeline.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, docs)

		matches, err := f.repos.Chunks.FindSimilar(ctx, mustEmbed(t, f.embedder, "anything"), 10, 0)
		require.NoError(t, err)
		assert.Empty(t, matches)

		history, err := f.repos.History.ListHistory(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, history)

		_, _, err = f.pipeline.Get(ctx, result.Document.ID)
		assert.ErrorIs(t, err, storage.ErrDocumentNotFound)
	})
}

func mustEmbed(t *testing.T, embedder *mock.MockEmbedder, text string) []float32 {
	t.Helper()
	vector, err := embedder.EmbedText(context.Background(), text)
	require.NoError(t, err)
	return vector
}
