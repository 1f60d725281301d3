package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/fentz26/crewmux/internal/models"
)

// defaultAnthropicModel is used when the config does not pick one.
const defaultAnthropicModel = "claude-sonnet-4-5"

const anthropicMaxTokens = 8192

// AnthropicProvider implements CompletionProvider via the Messages API.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
}

// NewAnthropicProvider creates a provider. An empty apiKey defers to the
// SDK's environment handling; an empty model uses the default.
func NewAnthropicProvider(apiKey, model string) *AnthropicProvider {
	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if model == "" {
		model = defaultAnthropicModel
	}
	return &AnthropicProvider{client: anthropic.NewClient(opts...), model: model}
}

// Complete sends the conversation (or bare prompt) and returns the
// concatenated text blocks of the reply.
func (p *AnthropicProvider) Complete(ctx context.Context, prompt string, opts *CompleteOptions) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: anthropicMaxTokens,
	}
	if opts != nil && opts.Temperature != nil {
		params.Temperature = anthropic.Float(*opts.Temperature)
	}

	if opts != nil && len(opts.Messages) > 0 {
		for _, turn := range opts.Messages {
			switch turn.Role {
			case models.RoleSystem:
				params.System = append(params.System, anthropic.TextBlockParam{Text: turn.Content})
			case models.RoleAssistant:
				params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(turn.Content)))
			default:
				params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(turn.Content)))
			}
		}
	} else {
		params.Messages = []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic completion: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}
