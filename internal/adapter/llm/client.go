// Package llm generates search-result templates through an
// OpenAI-compatible chat completion endpoint.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/quarryhq/fieldsmith/internal/core/port"
	openai "github.com/sashabaranov/go-openai"
)

// Config holds the chat endpoint settings. Endpoint may point at any
// OpenAI-compatible server (hosted or local).
type Config struct {
	Endpoint string
	Model    string
	APIKey   string
}

// Generator produces Twig/Liquid templates via chat completion.
type Generator struct {
	client *openai.Client
	model  string
	logger *slog.Logger
	inst   port.Instrumentation
}

func NewGenerator(cfg Config, logger *slog.Logger, inst port.Instrumentation) (*Generator, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm model is required")
	}
	if inst == nil {
		inst = port.NoopInstrumentation{}
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")
	}

	return &Generator{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
		logger: logger,
		inst:   inst,
	}, nil
}

func (g *Generator) Generate(ctx context.Context, req port.TemplateRequest) (port.Artifact, error) {
	if !req.Format.Valid() {
		return port.Artifact{}, fmt.Errorf("unknown template format %q", req.Format)
	}

	prompt, err := buildPrompt(req)
	if err != nil {
		return port.Artifact{}, err
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage(req.Format)},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
	})
	if err != nil {
		g.logger.ErrorContext(ctx, "template generation failed",
			slog.String("model", g.model),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error.message", err.Error()),
		)
		return port.Artifact{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return port.Artifact{}, fmt.Errorf("chat completion returned no choices")
	}

	g.inst.AddLLMTokens(ctx, int64(resp.Usage.TotalTokens))
	g.logger.InfoContext(ctx, "template generated",
		slog.String("model", g.model),
		slog.Int("prompt_tokens", resp.Usage.PromptTokens),
		slog.Int("completion_tokens", resp.Usage.CompletionTokens),
		slog.Duration("elapsed", time.Since(start)),
	)

	return port.Artifact{
		Kind:     port.ArtifactTemplate,
		Filename: templateFilename(req.Classification.Dataset, req.Format),
		Content:  stripCodeFence(resp.Choices[0].Message.Content),
	}, nil
}

// stripCodeFence removes a surrounding markdown code fence if the model
// wrapped its answer in one.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:] // drop the language tag line
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed) + "\n"
}

func templateFilename(dataset string, format port.TemplateFormat) string {
	base := strings.ToLower(dataset)
	if format == port.FormatTwig {
		return base + ".result.html.twig"
	}
	return base + ".result.liquid"
}
