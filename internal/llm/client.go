// Package llm wraps the completion providers behind a single Complete
// call. Providers are configured, not discovered: the CLI constructs one
// client per process and passes it to every component that needs text
// generation.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	aoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go"
	ooption "github.com/openai/openai-go/option"
)

const defaultMaxOutputTokens = 8192

// Config selects and authenticates one provider.
type Config struct {
	// Type is one of: "openai" | "anthropic" | "openai_compatible".
	Type        string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float64
}

// Client produces one completion per call.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// New builds the provider adapter for cfg.
func New(cfg Config) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("missing provider api key")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("missing model")
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "openai", "openai_compatible":
		opts := []ooption.RequestOption{ooption.WithAPIKey(strings.TrimSpace(cfg.APIKey))}
		if strings.TrimSpace(cfg.BaseURL) != "" {
			opts = append(opts, ooption.WithBaseURL(strings.TrimSpace(cfg.BaseURL)))
		}
		return &openAIClient{
			client:      openai.NewClient(opts...),
			model:       cfg.Model,
			temperature: cfg.Temperature,
		}, nil
	case "anthropic":
		opts := []aoption.RequestOption{aoption.WithAPIKey(strings.TrimSpace(cfg.APIKey))}
		if strings.TrimSpace(cfg.BaseURL) != "" {
			opts = append(opts, aoption.WithBaseURL(strings.TrimSpace(cfg.BaseURL)))
		}
		return &anthropicClient{
			client:      anthropic.NewClient(opts...),
			model:       cfg.Model,
			temperature: cfg.Temperature,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported provider type %q", cfg.Type)
	}
}

type openAIClient struct {
	client      openai.Client
	model       string
	temperature float64
}

func (c *openAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("openai completion: empty response")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

type anthropicClient struct {
	client      anthropic.Client
	model       string
	temperature float64
}

func (c *anthropicClient) Complete(ctx context.Context, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   defaultMaxOutputTokens,
		Temperature: anthropic.Float(c.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic completion: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("anthropic completion: empty response")
	}
	return strings.TrimSpace(b.String()), nil
}
