package chat

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetlens/meetlens/ai"
	"github.com/meetlens/meetlens/ai/mock"
	"github.com/meetlens/meetlens/core"
	"github.com/meetlens/meetlens/index"
	"github.com/meetlens/meetlens/storage/badger"
)

type fixture struct {
	composer  *Composer
	generator *mock.MockGenerator
	repos     *badger.Repositories
	index     *index.Index
}

// newFixture builds a composer over in-memory repositories with two
// indexed meetings under project "Apollo" and one under "Artemis".
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	repos, err := badger.NewMemoryRepositories(nil)
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, text string) ([]float32, error) {
		if strings.Contains(text, "infra") {
			return []float32{1, 0}, nil
		}
		return []float32{0, 1}, nil
	}
	embedder.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i, text := range texts {
			if strings.Contains(text, "infra") {
				out[i] = []float32{1, 0}
			} else {
				out[i] = []float32{0, 1}
			}
		}
		return out, nil
	}

	ix := index.New(repos.Chunks, embedder, nil)

	seed := func(title, project, text string) core.ID {
		doc, err := repos.Documents.AddDocument(ctx, &core.Document{Title: title, Text: text})
		require.NoError(t, err)
		record := core.EmptyExtractionRecord(doc.ID)
		record.ProjectName = project
		require.NoError(t, repos.Documents.PutExtraction(ctx, record))
		require.NoError(t, ix.Upsert(ctx, doc.ID, []string{text}))
		return doc.ID
	}
	seed("kickoff", "Apollo", "infra capacity is the main blocker")
	seed("followup", "Apollo", "infra migration is on track")
	seed("hiring", "Artemis", "two offers went out this week")

	generator := mock.NewMockGenerator()
	return &fixture{
		composer:  New(ix, repos.Documents, repos.History, generator, nil),
		generator: generator,
		repos:     repos,
		index:     ix,
	}
}

func TestAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("grounded answer with history", func(t *testing.T) {
		f := newFixture(t)
		f.generator.GenerateFunc = func(_ context.Context, req ai.GenerateRequest) (string, error) {
			assert.Contains(t, req.Prompt, "[Meeting ")
			assert.Contains(t, req.Prompt, "Question: what blocks infra?")
			return "Infra capacity is the blocker.", nil
		}

		answer, err := f.composer.Ask(ctx, "what blocks infra?", Scope{}, 5)
		require.NoError(t, err)
		assert.Equal(t, "Infra capacity is the blocker.", answer)

		records, err := f.repos.History.ListHistory(ctx, 0)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "what blocks infra?", records[0].Question)
		assert.Equal(t, answer, records[0].Answer)
		assert.Zero(t, records[0].DocumentID)
	})

	t.Run("project scope restricts retrieval and templates", func(t *testing.T) {
		f := newFixture(t)
		f.generator.GenerateFunc = func(_ context.Context, req ai.GenerateRequest) (string, error) {
			assert.Contains(t, req.Prompt, "related to project 'Apollo'")
			return "answer", nil
		}

		_, err := f.composer.Ask(ctx, "infra status?", Scope{Project: "Apollo"}, 5)
		require.NoError(t, err)

		records, err := f.repos.History.ListHistory(ctx, 0)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.NotZero(t, records[0].DocumentID, "history is filed under the project's first meeting")
	})

	t.Run("single-meeting project uses the single meeting template", func(t *testing.T) {
		f := newFixture(t)
		f.generator.GenerateFunc = func(_ context.Context, req ai.GenerateRequest) (string, error) {
			assert.Contains(t, req.Prompt, "Context from Meeting ")
			assert.NotContains(t, req.Prompt, "related to project")
			return "answer", nil
		}

		_, err := f.composer.Ask(ctx, "hiring delivery status", Scope{Project: "Artemis"}, 5)
		require.NoError(t, err)
		assert.Equal(t, 1, f.generator.CallCount())
	})

	t.Run("document scope", func(t *testing.T) {
		f := newFixture(t)
		var prompt string
		f.generator.GenerateFunc = func(_ context.Context, req ai.GenerateRequest) (string, error) {
			prompt = req.Prompt
			return "answer", nil
		}

		_, err := f.composer.Ask(ctx, "infra status?", Scope{DocumentID: 1}, 5)
		require.NoError(t, err)
		assert.Contains(t, prompt, "Context from Meeting 1:")
		assert.NotContains(t, prompt, "Meeting 2,")

		records, err := f.repos.History.ListHistory(ctx, 0)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, core.ID(1), records[0].DocumentID)
	})

	t.Run("unknown project answers without generating", func(t *testing.T) {
		f := newFixture(t)

		answer, err := f.composer.Ask(ctx, "anything", Scope{Project: "Zephyr"}, 5)
		require.NoError(t, err)
		assert.Equal(t, "I couldn't find any meetings for the project 'Zephyr'.", answer)
		assert.Zero(t, f.generator.CallCount())

		records, err := f.repos.History.ListHistory(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, records, "fixed answers are not recorded")
	})

	t.Run("empty retrieval answers without generating", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.repos.Chunks.DeleteChunks(ctx, 1)
		require.NoError(t, err)
		_, err = f.repos.Chunks.DeleteChunks(ctx, 2)
		require.NoError(t, err)
		_, err = f.repos.Chunks.DeleteChunks(ctx, 3)
		require.NoError(t, err)

		answer, err := f.composer.Ask(ctx, "anything", Scope{}, 5)
		require.NoError(t, err)
		assert.Equal(t, noContextAnswer, answer)
		assert.Zero(t, f.generator.CallCount())
	})

	t.Run("generation failure propagates without history", func(t *testing.T) {
		f := newFixture(t)
		f.generator.GenerateFunc = func(context.Context, ai.GenerateRequest) (string, error) {
			return "", fmt.Errorf("model offline")
		}

		_, err := f.composer.Ask(ctx, "infra status?", Scope{}, 5)
		require.Error(t, err)

		records, err := f.repos.History.ListHistory(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestAskStream(t *testing.T) {
	ctx := context.Background()

	t.Run("fragments concatenate to the full answer", func(t *testing.T) {
		f := newFixture(t)
		f.generator.GenerateFunc = func(context.Context, ai.GenerateRequest) (string, error) {
			return "infra is the blocker", nil
		}

		stream, err := f.composer.AskStream(ctx, "infra status?", Scope{}, 5)
		require.NoError(t, err)

		var got strings.Builder
		for fragment, err := range stream {
			require.NoError(t, err)
			got.WriteString(fragment)
		}
		assert.Equal(t, "infra is the blocker", got.String())

		records, err := f.repos.History.ListHistory(ctx, 0)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "infra is the blocker", records[0].Answer)
	})

	t.Run("abandoned stream records no history", func(t *testing.T) {
		f := newFixture(t)
		f.generator.GenerateFunc = func(context.Context, ai.GenerateRequest) (string, error) {
			return "a long answer with several words", nil
		}

		stream, err := f.composer.AskStream(ctx, "infra status?", Scope{}, 5)
		require.NoError(t, err)

		for range stream {
			break
		}

		records, err := f.repos.History.ListHistory(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("mid-stream failure surfaces and records no history", func(t *testing.T) {
		f := newFixture(t)
		f.generator.GenerateStreamFunc = func(context.Context, ai.GenerateRequest) (iter.Seq2[string, error], error) {
			return func(yield func(string, error) bool) {
				if !yield("infra is ", nil) {
					return
				}
				yield("", fmt.Errorf("model connection lost"))
			}, nil
		}

		stream, err := f.composer.AskStream(ctx, "infra status?", Scope{}, 5)
		require.NoError(t, err)

		var got strings.Builder
		var streamErr error
		for fragment, err := range stream {
			if err != nil {
				streamErr = err
				break
			}
			got.WriteString(fragment)
		}
		require.ErrorContains(t, streamErr, "model connection lost")
		assert.Equal(t, "infra is ", got.String())

		records, err := f.repos.History.ListHistory(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, records, "truncated answers are not recorded")
	})

	t.Run("fixed answers stream as one fragment", func(t *testing.T) {
		f := newFixture(t)

		stream, err := f.composer.AskStream(ctx, "anything", Scope{Project: "Zephyr"}, 5)
		require.NoError(t, err)

		var fragments []string
		for fragment, err := range stream {
			require.NoError(t, err)
			fragments = append(fragments, fragment)
		}
		require.Len(t, fragments, 1)
		assert.Equal(t, "I couldn't find any meetings for the project 'Zephyr'.", fragments[0])
		assert.Zero(t, f.generator.CallCount())
	})
}
