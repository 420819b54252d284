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

package extract

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/meetlens/meetlens/ai"
	"github.com/meetlens/meetlens/core"
)

// defaultPoolSize matches the number of capabilities that run
// concurrently after identity resolution.
const defaultPoolSize = 6

// Request carries one document through extraction.
type Request struct {
	DocumentID core.ID
	Text       string

	// Title is the fallback when project-name extraction is unsure.
	Title string

	// ProjectName, when set by the caller, takes precedence over
	// extraction: the identity capability is skipped entirely.
	ProjectName string

	// Speakers give the pulse capability per-speaker context.
	Speakers []string
}

// Orchestrator fans a document out to the seven extraction capabilities
// and folds their results into one record. Capabilities fail
// independently: a failed capability contributes its neutral default
// and never aborts the others.
type Orchestrator struct {
	generator ai.Generator
	pool      *ants.Pool
	logger    *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithPoolSize sets the worker pool size for concurrent capability
// calls. Default is one worker per concurrent capability.
func WithPoolSize(size int) Option {
	return func(o *Orchestrator) error {
		if size < 1 {
			size = 1
		}
		if o.pool != nil {
			o.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		o.pool = pool
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		o.logger = logger.With("component", "extract")
		return nil
	}
}

// New builds an orchestrator over the generation capability.
func New(generator ai.Generator, opts ...Option) (*Orchestrator, error) {
	pool, err := ants.NewPool(defaultPoolSize)
	if err != nil {
		return nil, err
	}
	o := &Orchestrator{
		generator: generator,
		pool:      pool,
		logger:    slog.Default().With("component", "extract"),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			o.pool.Release()
			return nil, err
		}
	}
	return o, nil
}

// Close releases the worker pool.
func (o *Orchestrator) Close() {
	o.pool.Release()
}

// Extract runs the full capability set over the request and returns the
// union of their records. It never fails: each capability degrades to
// its neutral default on error.
func (o *Orchestrator) Extract(ctx context.Context, req Request) *core.ExtractionRecord {
	record := core.EmptyExtractionRecord(req.DocumentID)

	// Identity first: the remaining capabilities and the summary prefix
	// reference the resolved name.
	record.ProjectName = o.resolveProjectName(ctx, req)

	// The six remaining capabilities are independent and each writes a
	// distinct field, so they run concurrently without shared state.
	var wg sync.WaitGroup
	o.run(&wg, "summary", func() {
		record.Summary = o.extractSummary(ctx, req.Text, record.ProjectName)
	})
	o.run(&wg, "projects", func() {
		record.Projects = o.extractProjects(ctx, req.Text)
	})
	o.run(&wg, "health", func() {
		record.Health = o.extractHealth(ctx, req.Text)
	})
	o.run(&wg, "pulse", func() {
		record.Pulse = o.extractPulse(ctx, req.Text, req.Speakers)
	})
	o.run(&wg, "pain_points", func() {
		record.PainPoints = o.extractPainPoints(ctx, req.Text)
	})
	o.run(&wg, "ideas", func() {
		record.Ideas = o.extractIdeas(ctx, req.Text)
	})
	wg.Wait()

	record.OverallSentiment = record.Pulse.OverallSentiment
	return record
}

// run submits a capability to the pool, falling back to inline
// execution if the pool cannot take it.
func (o *Orchestrator) run(wg *sync.WaitGroup, capability string, fn func()) {
	wg.Add(1)
	task := func() {
		defer wg.Done()
		fn()
	}
	if err := o.pool.Submit(task); err != nil {
		o.logger.Warn("worker pool rejected capability, running inline",
			"capability", capability, "error", err)
		task()
	}
}

func (o *Orchestrator) resolveProjectName(ctx context.Context, req Request) string {
	if name := strings.TrimSpace(req.ProjectName); name != "" {
		if len(name) > maxProjectNameLength {
			name = name[:maxProjectNameLength]
		}
		return name
	}

	answer, err := o.generator.Generate(ctx, ai.GenerateRequest{
		Prompt:       identityPrompt(req.Text, req.Title),
		SystemPrompt: identitySystemPrompt,
		Temperature:  identityTemperature,
		MaxTokens:    identityMaxTokens,
	})
	if err != nil {
		o.logger.Warn("project name extraction failed", "error", err)
		answer = ""
	}
	return ResolveProjectName(answer, req.Title)
}

func (o *Orchestrator) extractSummary(ctx context.Context, text, projectName string) string {
	summary, err := o.generator.Generate(ctx, ai.GenerateRequest{
		Prompt:       summaryPrompt(text),
		SystemPrompt: summarySystemPrompt,
		Temperature:  summaryTemperature,
	})
	if err != nil {
		o.logger.Warn("summary extraction failed", "error", err)
		return ""
	}
	summary = strings.TrimSpace(summary)

	if projectName != "" && projectName != "Unnamed Project" {
		summary = "**Project: " + projectName + "**\n\n" + summary
	}
	return summary
}

func (o *Orchestrator) extractProjects(ctx context.Context, text string) []core.Project {
	raw, err := o.generator.GenerateJSON(ctx, ai.GenerateRequest{
		Prompt:       projectsPrompt(text),
		SystemPrompt: projectsSystemPrompt,
		Temperature:  projectsTemperature,
	})
	if err != nil {
		o.logger.Warn("project detail extraction failed", "error", err)
		return []core.Project{}
	}
	return NormalizeProjects(raw)
}

func (o *Orchestrator) extractHealth(ctx context.Context, text string) core.HealthSignals {
	raw, err := o.generator.GenerateJSON(ctx, ai.GenerateRequest{
		Prompt:       healthPrompt(text),
		SystemPrompt: healthSystemPrompt,
		Temperature:  healthTemperature,
	})
	if err != nil {
		o.logger.Warn("health signal extraction failed", "error", err)
		return core.EmptyHealthSignals()
	}
	return NormalizeHealth(raw)
}

func (o *Orchestrator) extractPulse(ctx context.Context, text string, speakers []string) core.Pulse {
	raw, err := o.generator.GenerateJSON(ctx, ai.GenerateRequest{
		Prompt:       pulsePrompt(text, speakers),
		SystemPrompt: pulseSystemPrompt,
		Temperature:  pulseTemperature,
	})
	if err != nil {
		o.logger.Warn("pulse extraction failed", "error", err)
		return core.NeutralPulse()
	}
	return NormalizePulse(raw)
}

func (o *Orchestrator) extractPainPoints(ctx context.Context, text string) core.PainPoints {
	raw, err := o.generator.GenerateJSON(ctx, ai.GenerateRequest{
		Prompt:       painPointsPrompt(text),
		SystemPrompt: painPointsSystemPrompt,
		Temperature:  painPointsTemperature,
	})
	if err != nil {
		o.logger.Warn("pain point extraction failed", "error", err)
		return core.EmptyPainPoints()
	}
	return NormalizePainPoints(raw)
}

func (o *Orchestrator) extractIdeas(ctx context.Context, text string) []core.Idea {
	raw, err := o.generator.GenerateJSON(ctx, ai.GenerateRequest{
		Prompt:       ideasPrompt(text),
		SystemPrompt: ideasSystemPrompt,
		Temperature:  ideasTemperature,
	})
	if err != nil {
		o.logger.Warn("idea extraction failed", "error", err)
		return []core.Idea{}
	}
	return NormalizeIdeas(raw)
}
