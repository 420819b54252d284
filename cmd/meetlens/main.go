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


package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/meetlens/meetlens"
	"github.com/meetlens/meetlens/ai"
	"github.com/meetlens/meetlens/chat"
	"github.com/meetlens/meetlens/core"
	"github.com/meetlens/meetlens/index"
	"github.com/meetlens/meetlens/pipeline"
	"github.com/meetlens/meetlens/reindex"
)

func main() {
	app := &cli.App{
		Name:  "meetlens",
		Usage: "Meeting intelligence over your transcripts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file (default ~/.meetlens/config.yaml)",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "OpenAI-compatible service host URL",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name",
			},
			&cli.StringFlag{
				Name:  "generator-model",
				Usage: "Generation model name",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest a meeting transcript file ('-' reads stdin)",
				ArgsUsage: "<file>",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "title",
						Aliases: []string{"t"},
						Usage:   "Meeting title (overrides anything found in the transcript)",
					},
					&cli.StringFlag{
						Name:    "project",
						Aliases: []string{"p"},
						Usage:   "Project name (skips automatic project identification)",
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List ingested meetings, most recent first",
				Action: listCommand,
			},
			{
				Name:      "show",
				Usage:     "Show a meeting and its extracted intelligence",
				ArgsUsage: "<id>",
				Action:    showCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "text",
						Usage: "Include the full transcript text",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Ask a question over the indexed meetings",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.Uint64Flag{
						Name:    "doc",
						Aliases: []string{"m"},
						Usage:   "Restrict retrieval to one meeting by ID",
					},
					&cli.StringFlag{
						Name:    "project",
						Aliases: []string{"p"},
						Usage:   "Restrict retrieval to one project's meetings",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of chunks to retrieve",
						Value: index.DefaultTopK,
					},
					&cli.BoolFlag{
						Name:  "no-stream",
						Usage: "Wait for the complete answer instead of streaming",
					},
				},
			},
			{
				Name:   "history",
				Usage:  "Show recent question/answer exchanges",
				Action: historyCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of exchanges to show (0 shows all)",
						Value:   20,
					},
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a meeting and its derived data",
				ArgsUsage: "<id>",
				Action:    deleteCommand,
			},
			{
				Name:   "reindex",
				Usage:  "Rebuild every meeting's chunk embeddings",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Chunk size in characters",
						Value: index.DefaultChunkSize,
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Chunk overlap in characters",
						Value: index.DefaultChunkOverlap,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 10,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:   "clear",
				Usage:  "Delete all meetings, embeddings, and chat history",
				Action: clearCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openStore resolves configuration (file, then flags) and opens the store.
func openStore(c *cli.Context) (*meetlens.Store, *cliConfig, error) {
	cfg, err := loadCLIConfig(c.String("config"))
	if err != nil {
		return nil, nil, err
	}

	if v := c.String("db"); v != "" {
		cfg.DBPath = v
	}
	if v := c.String("host"); v != "" {
		cfg.Host = v
	}
	if v := c.String("embedding-model"); v != "" {
		cfg.EmbeddingModel = v
	}
	if v := c.String("generator-model"); v != "" {
		cfg.GeneratorModel = v
	}

	var aiOpts []ai.ConfigOption
	if cfg.Host != "" {
		aiOpts = append(aiOpts, ai.WithHost(cfg.Host))
	}
	if cfg.EmbeddingHost != "" {
		aiOpts = append(aiOpts, ai.WithEmbeddingHost(cfg.EmbeddingHost))
	}
	if cfg.GeneratorHost != "" {
		aiOpts = append(aiOpts, ai.WithGeneratorHost(cfg.GeneratorHost))
	}
	if cfg.EmbeddingModel != "" {
		aiOpts = append(aiOpts, ai.WithEmbeddingModel(cfg.EmbeddingModel))
	}
	if cfg.GeneratorModel != "" {
		aiOpts = append(aiOpts, ai.WithGeneratorModel(cfg.GeneratorModel))
	}
	aiConfig := ai.NewConfig(aiOpts...)

	if err := aiConfig.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	store, err := meetlens.Open(
		expandPath(cfg.DBPath),
		meetlens.WithAIConfig(aiConfig),
		meetlens.WithLogger(slog.Default()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, cfg, nil
}

func newPipeline(store *meetlens.Store, cfg *cliConfig) *pipeline.Pipeline {
	var opts []pipeline.Option
	if cfg.ChunkSize > 0 || cfg.ChunkOverlap > 0 {
		opts = append(opts, pipeline.WithChunking(cfg.ChunkSize, cfg.ChunkOverlap))
	}
	return store.NewPipeline(opts...)
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one transcript file argument")
	}

	var (
		data []byte
		err  error
	)
	if name := c.Args().First(); name == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return fmt.Errorf("reading transcript: %w", err)
	}

	store, cfg, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := newPipeline(store, cfg).Ingest(context.Background(), pipeline.IngestRequest{
		Input:       string(data),
		Title:       c.String("title"),
		ProjectName: c.String("project"),
	})
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if result.Replaced {
		fmt.Fprintln(os.Stderr, "Replaced an earlier copy of the same transcript")
	}
	fmt.Printf("Ingested meeting %d: %s\n", result.Document.ID, result.Document.Title)
	fmt.Printf("Project: %s\n", result.Extraction.ProjectName)
	if result.Extraction.Summary != "" {
		fmt.Printf("\n%s\n", result.Extraction.Summary)
	}
	return nil
}

func listCommand(c *cli.Context) error {
	store, cfg, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	p := newPipeline(store, cfg)
	docs, err := p.List(context.Background())
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Println("No meetings ingested yet")
		return nil
	}

	fmt.Printf("%-6s %-17s %-24s %s\n", "ID", "CREATED", "PROJECT", "TITLE")
	for _, doc := range docs {
		_, record, err := p.Get(context.Background(), doc.ID)
		project := doc.ProjectName
		if err == nil && record.ProjectName != "" {
			project = record.ProjectName
		}
		fmt.Printf("%-6d %-17s %-24s %s\n",
			doc.ID,
			doc.CreatedAt.Local().Format("2006-01-02 15:04"),
			truncate(project, 24),
			doc.Title,
		)
	}
	return nil
}

func showCommand(c *cli.Context) error {
	id, err := parseDocumentID(c)
	if err != nil {
		return err
	}

	store, cfg, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	doc, record, err := newPipeline(store, cfg).Get(context.Background(), id)
	if err != nil {
		return err
	}

	fmt.Printf("Meeting %d: %s\n", doc.ID, doc.Title)
	fmt.Printf("Created: %s\n", doc.CreatedAt.Local().Format(time.RFC1123))
	fmt.Printf("Project: %s\n", record.ProjectName)
	fmt.Printf("Sentiment: %s (%.2f)\n", record.Pulse.OverallSentiment, record.Pulse.SentimentScore)
	if doc.Transcript != nil && len(doc.Transcript.Speakers) > 0 {
		fmt.Printf("Speakers: %s\n", strings.Join(doc.Transcript.Speakers, ", "))
	}

	if record.Summary != "" {
		fmt.Printf("\n%s\n", record.Summary)
	}
	for _, p := range record.Projects {
		fmt.Printf("\nProject %s [%s]", p.Name, p.Status)
		if p.Owner != "" {
			fmt.Printf(" owned by %s", p.Owner)
		}
		fmt.Println()
		if p.Description != "" {
			fmt.Printf("  %s\n", p.Description)
		}
	}
	printRisks("Blockers", record.Health.Blockers)
	printRisks("Risks", record.Health.Risks)
	if n := len(record.PainPoints.ProjectSpecific) + len(record.PainPoints.General); n > 0 {
		fmt.Printf("\nPain points:\n")
		for _, pp := range record.PainPoints.ProjectSpecific {
			fmt.Printf("  - [%s] %s (%s)\n", pp.Project, pp.PainPoint, pp.Severity)
		}
		for _, pp := range record.PainPoints.General {
			fmt.Printf("  - [%s] %s (%s)\n", pp.Category, pp.PainPoint, pp.Severity)
		}
	}
	if len(record.Ideas) > 0 {
		fmt.Printf("\nIdeas:\n")
		for _, idea := range record.Ideas {
			fmt.Printf("  - %s (%s feasibility)\n", idea.Idea, idea.Feasibility)
		}
	}

	if c.Bool("text") {
		fmt.Printf("\nTranscript:\n%s\n", doc.Text)
	}
	return nil
}

func printRisks(label string, items []core.RiskItem) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", label)
	for _, item := range items {
		fmt.Printf("  - %s (%s)\n", item.Description, item.Severity)
	}
}

func askCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("expected a question")
	}
	question := strings.Join(c.Args().Slice(), " ")

	store, _, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	composer := store.NewComposer()
	scope := chat.Scope{
		DocumentID: core.ID(c.Uint64("doc")),
		Project:    c.String("project"),
	}
	ctx := context.Background()

	if c.Bool("no-stream") {
		answer, err := composer.Ask(ctx, question, scope, c.Int("top-k"))
		if err != nil {
			return fmt.Errorf("answering failed: %w", err)
		}
		fmt.Println(answer)
		return nil
	}

	stream, err := composer.AskStream(ctx, question, scope, c.Int("top-k"))
	if err != nil {
		return fmt.Errorf("answering failed: %w", err)
	}
	for fragment, err := range stream {
		if err != nil {
			fmt.Println()
			return fmt.Errorf("answering failed: %w", err)
		}
		fmt.Print(fragment)
	}
	fmt.Println()
	return nil
}

func historyCommand(c *cli.Context) error {
	store, _, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.History().ListHistory(context.Background(), c.Int("limit"))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No chat history yet")
		return nil
	}

	for _, record := range records {
		fmt.Printf("[%s]", record.Timestamp.Local().Format("2006-01-02 15:04"))
		if record.DocumentID != 0 {
			fmt.Printf(" (meeting %d)", record.DocumentID)
		}
		fmt.Printf("\nQ: %s\nA: %s\n\n", record.Question, record.Answer)
	}
	return nil
}

func deleteCommand(c *cli.Context) error {
	id, err := parseDocumentID(c)
	if err != nil {
		return err
	}

	store, cfg, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := newPipeline(store, cfg).Delete(context.Background(), id); err != nil {
		return err
	}
	fmt.Printf("Deleted meeting %d\n", id)
	return nil
}

func reindexCommand(c *cli.Context) error {
	store, _, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	config := &reindex.Config{
		ChunkSize:      c.Int("chunk-size"),
		ChunkOverlap:   c.Int("chunk-overlap"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.ChunkSize <= 0 {
		return fmt.Errorf("chunk-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reindexer := store.NewReindexer(config, os.Stderr)
	if err := reindexer.Run(context.Background()); err != nil {
		return fmt.Errorf("reindexing failed: %w", err)
	}
	return nil
}

func clearCommand(c *cli.Context) error {
	if !c.Bool("yes") {
		fmt.Print("This will permanently delete all meetings, embeddings, and chat history.\nType 'yes' to confirm: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		if strings.TrimSpace(line) != "yes" {
			fmt.Println("Aborted")
			return nil
		}
	}

	store, cfg, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	removed, err := newPipeline(store, cfg).DeleteAll(context.Background(), true)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %d meetings and all chat history\n", removed)
	return nil
}

func parseDocumentID(c *cli.Context) (core.ID, error) {
	if c.NArg() != 1 {
		return 0, fmt.Errorf("expected exactly one meeting ID argument")
	}
	raw, err := strconv.ParseUint(c.Args().First(), 10, 64)
	if err != nil || raw == 0 {
		return 0, fmt.Errorf("invalid meeting ID %q", c.Args().First())
	}
	return core.ID(raw), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
