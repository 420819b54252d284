// Copyright 2025 The Meetlens Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package chat

import (
	"context"
	"iter"
	"log/slog"

	"github.com/meetlens/meetlens/ai"
	"github.com/meetlens/meetlens/core"
	"github.com/meetlens/meetlens/index"
	"github.com/meetlens/meetlens/storage"
)

// Scope restricts a question to part of the corpus. The zero value
// addresses the whole corpus. DocumentID pins a single meeting; Project
// resolves to every meeting filed under that project name. DocumentID
// wins when both are set.
type Scope struct {
	DocumentID core.ID
	Project    string
}

// Composer answers questions over the indexed corpus: it retrieves the
// most relevant chunks for the resolved scope, grounds a prompt in
// them and delegates to the generation capability.
type Composer struct {
	index     *index.Index
	documents storage.DocumentRepository
	history   storage.HistoryRepository
	generator ai.Generator
	logger    *slog.Logger
}

// New builds a composer.
func New(ix *index.Index, documents storage.DocumentRepository, history storage.HistoryRepository, generator ai.Generator, logger *slog.Logger) *Composer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{
		index:     ix,
		documents: documents,
		history:   history,
		generator: generator,
		logger:    logger.With("component", "chat"),
	}
}

// grounding is the resolved state shared by Ask and AskStream: either a
// fixed answer that short-circuits generation, or a prompt plus the
// document id under which the exchange is filed.
type grounding struct {
	fixed     string
	prompt    string
	historyID core.ID
}

// Ask answers the question within the scope. topK bounds retrieval; a
// non-positive value uses the default. When retrieval finds nothing the
// fixed no-information answer is returned without calling the
// generator.
func (c *Composer) Ask(ctx context.Context, question string, scope Scope, topK int) (string, error) {
	g := c.ground(ctx, question, scope, topK)
	if g.fixed != "" {
		return g.fixed, nil
	}

	answer, err := c.generator.Generate(ctx, ai.GenerateRequest{
		Prompt:       g.prompt,
		SystemPrompt: systemPrompt,
		Temperature:  answerTemperature,
	})
	if err != nil {
		return "", err
	}

	c.recordExchange(ctx, question, answer, g.historyID)
	return answer, nil
}

// AskStream answers the question as a lazy sequence of fragment/error
// pairs whose concatenated fragments equal the Ask answer. Retrieval
// happens once, before the first fragment. A mid-generation failure is
// delivered as a final pair with a non-nil error. The exchange is
// recorded exactly once, after the consumer has drained the stream
// without error; an abandoned or failed stream leaves no history
// record.
func (c *Composer) AskStream(ctx context.Context, question string, scope Scope, topK int) (iter.Seq2[string, error], error) {
	g := c.ground(ctx, question, scope, topK)
	if g.fixed != "" {
		fixed := g.fixed
		return func(yield func(string, error) bool) {
			yield(fixed, nil)
		}, nil
	}

	stream, err := c.generator.GenerateStream(ctx, ai.GenerateRequest{
		Prompt:       g.prompt,
		SystemPrompt: systemPrompt,
		Temperature:  answerTemperature,
	})
	if err != nil {
		return nil, err
	}

	return func(yield func(string, error) bool) {
		var answer []byte
		for fragment, err := range stream {
			if err != nil {
				// A truncated answer must not be filed as complete.
				yield("", err)
				return
			}
			if !yield(fragment, nil) {
				return
			}
			answer = append(answer, fragment...)
		}
		c.recordExchange(ctx, question, string(answer), g.historyID)
	}, nil
}

// ground resolves the scope, retrieves context and assembles the
// prompt.
func (c *Composer) ground(ctx context.Context, question string, scope Scope, topK int) grounding {
	var projectIDs []core.ID
	if scope.DocumentID == 0 && scope.Project != "" {
		ids, err := c.documents.FindByProject(ctx, scope.Project)
		if err != nil {
			// Best effort: an unreadable project index widens the scope
			// instead of failing the question.
			c.logger.Error("failed to resolve project scope", "project", scope.Project, "error", err)
		} else if len(ids) == 0 {
			return grounding{fixed: unknownProjectAnswer(scope.Project)}
		}
		projectIDs = ids
	}

	filter := index.FilterNone()
	switch {
	case scope.DocumentID != 0:
		filter = index.FilterOwner(scope.DocumentID)
	case len(projectIDs) > 0:
		filter = index.FilterOwners(projectIDs...)
	}

	chunks := c.index.Search(ctx, question, topK, filter)
	if len(chunks) == 0 {
		return grounding{fixed: noContextAnswer}
	}

	contextBlock := buildContext(chunks)

	g := grounding{historyID: scope.DocumentID}
	if g.historyID == 0 && len(projectIDs) > 0 {
		g.historyID = projectIDs[0]
	}

	switch {
	case len(projectIDs) == 1:
		g.prompt = singleMeetingPrompt(projectIDs[0], contextBlock, question)
	case len(projectIDs) > 1:
		g.prompt = projectPrompt(scope.Project, contextBlock, question)
	case scope.DocumentID != 0:
		g.prompt = singleMeetingPrompt(scope.DocumentID, contextBlock, question)
	default:
		g.prompt = unrestrictedPrompt(contextBlock, question)
	}
	return g
}

// recordExchange files the question/answer pair with the history
// collaborator. Failures are logged, never surfaced: answer delivery
// must not depend on history.
func (c *Composer) recordExchange(ctx context.Context, question, answer string, documentID core.ID) {
	_, err := c.history.AppendHistory(ctx, &core.HistoryRecord{
		DocumentID: documentID,
		Question:   question,
		Answer:     answer,
	})
	if err != nil {
		c.logger.Error("failed to record chat history", "error", err)
	}
}
