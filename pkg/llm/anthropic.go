package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const digestToolName = "create_digest"

// AnthropicGenerator produces the digest through the Anthropic API with a
// forced tool call, so the response is contractually schema-shaped and
// needs no free-text repair.
type AnthropicGenerator struct {
	client     *anthropic.Client
	model      anthropic.Model
	maxTokens  int64
	maxRetries int
	categories []string
}

func NewAnthropicGenerator(apiKey, model string, maxTokens, maxRetries int, categories []string) *AnthropicGenerator {
	if maxRetries < 1 {
		maxRetries = 1
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicGenerator{
		client:     &client,
		model:      anthropic.Model(model),
		maxTokens:  int64(maxTokens),
		maxRetries: maxRetries,
		categories: categories,
	}
}

func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string) (*Digest, error) {
	params := anthropic.MessageNewParams{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		Tools: []anthropic.ToolUnionParam{{
			OfTool: &anthropic.ToolParam{
				Name:        digestToolName,
				InputSchema: g.digestSchema(),
			},
		}},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: digestToolName},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	var lastErr error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		digest, err := g.call(ctx, params)
		if err == nil {
			return digest, nil
		}
		lastErr = err
		if attempt < g.maxRetries {
			slog.Warn("anthropic attempt failed, retrying", "attempt", attempt, "error", err)
		}
	}

	return nil, &GenerationError{Attempts: g.maxRetries, LastErr: lastErr}
}

func (g *AnthropicGenerator) call(ctx context.Context, params anthropic.MessageNewParams) (*Digest, error) {
	resp, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic API error: %w", err)
	}

	for _, block := range resp.Content {
		if block.Type != "tool_use" || block.Name != digestToolName {
			continue
		}
		var digest Digest
		if err := json.Unmarshal([]byte(block.Input), &digest); err != nil {
			return nil, fmt.Errorf("decoding tool input: %w", err)
		}
		if digest.Sections == nil {
			return nil, fmt.Errorf("tool input has no sections array")
		}
		return &digest, nil
	}

	return nil, fmt.Errorf("model did not invoke %s", digestToolName)
}

// digestSchema is the tool input schema the API enforces on the response.
func (g *AnthropicGenerator) digestSchema() anthropic.ToolInputSchemaParam {
	return anthropic.ToolInputSchemaParam{
		Properties: map[string]any{
			"sections": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"category": map[string]any{
							"type": "string",
							"enum": g.categories,
						},
						"items": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"ref": map[string]any{
										"type":        "string",
										"description": "Article number from the input, e.g. \"3\"",
									},
									"title_zh":       map[string]any{"type": "string"},
									"summary_zh":     map[string]any{"type": "string"},
									"price":          map[string]any{"type": "string"},
									"original_price": map[string]any{"type": "string"},
									"discount":       map[string]any{"type": "string"},
									"store":          map[string]any{"type": "string"},
								},
								"required": []string{"ref", "title_zh", "summary_zh"},
							},
						},
					},
					"required": []string{"category", "items"},
				},
			},
		},
		Required: []string{"sections"},
	}
}
