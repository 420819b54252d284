package openai

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/meetlens/meetlens/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// errStreamStopped aborts generation when the consumer stops pulling
// fragments from a stream.
var errStreamStopped = errors.New("stream consumer stopped")

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
type Generator struct {
	client llms.Model
	logger *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.GeneratorHost),
		openai.WithToken("none"),
		openai.WithModel(config.GeneratorModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client: client,
		logger: slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

func buildContent(req ai.GenerateRequest) []llms.MessageContent {
	content := make([]llms.MessageContent, 0, 2)
	if req.SystemPrompt != "" {
		content = append(content, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(req.SystemPrompt)},
		})
	}
	content = append(content, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(req.Prompt)},
	})
	return content
}

func callOptions(req ai.GenerateRequest) []llms.CallOption {
	opts := []llms.CallOption{llms.WithTemperature(req.Temperature)}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	return opts
}

// Generate returns the complete text answer for the request.
func (g *Generator) Generate(ctx context.Context, req ai.GenerateRequest) (string, error) {
	response, err := g.client.GenerateContent(ctx, buildContent(req), callOptions(req)...)
	if err != nil {
		g.logger.Error("failed to generate content", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		g.logger.Debug("no choices returned from model")
		return "", nil
	}

	return response.Choices[0].Content, nil
}

// GenerateJSON returns a structured value parsed from the model's answer.
// The model is asked for JSON mode, but the response is still run through
// the tolerant extraction path since local models routinely wrap payloads
// in code fences or prose.
func (g *Generator) GenerateJSON(ctx context.Context, req ai.GenerateRequest) (any, error) {
	opts := append(callOptions(req), llms.WithJSONMode())
	response, err := g.client.GenerateContent(ctx, buildContent(req), opts...)
	if err != nil {
		g.logger.Error("failed to generate content", "err", err)
		return nil, err
	}

	if len(response.Choices) < 1 {
		g.logger.Debug("no choices returned from model")
		return nil, fmt.Errorf("no response from model")
	}

	value, err := ExtractJSON(response.Choices[0].Content)
	if err != nil {
		g.logger.Warn("error parsing model response as JSON",
			"response", response.Choices[0].Content,
			"err", err)
		return nil, err
	}

	return value, nil
}

// GenerateStream returns a lazy sequence of fragment/error pairs.
// The underlying request is aborted when the consumer stops iterating;
// a mid-stream failure arrives as the final pair with a non-nil error.
func (g *Generator) GenerateStream(ctx context.Context, req ai.GenerateRequest) (iter.Seq2[string, error], error) {
	if req.Prompt == "" {
		return nil, fmt.Errorf("empty prompt")
	}

	seq := func(yield func(string, error) bool) {
		opts := append(callOptions(req),
			llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
				if len(chunk) == 0 {
					return nil
				}
				if !yield(string(chunk), nil) {
					return errStreamStopped
				}
				return nil
			}),
		)

		_, err := g.client.GenerateContent(ctx, buildContent(req), opts...)
		if err != nil && !errors.Is(err, errStreamStopped) {
			g.logger.Error("streaming generation failed", "err", err)
			yield("", err)
		}
	}

	return seq, nil
}
