package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/fentz26/crewmux/internal/models"
)

// defaultOpenAIModel is used when the config does not pick one.
const defaultOpenAIModel = "gpt-4o"

// OpenAIProvider implements CompletionProvider via the Chat Completions API.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider creates a provider. An empty apiKey defers to the SDK's
// environment handling; an empty model uses the default.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIProvider{client: openai.NewClient(opts...), model: model}
}

// Complete sends the conversation (or bare prompt) and returns the first
// choice's content.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string, opts *CompleteOptions) (string, error) {
	params := openai.ChatCompletionNewParams{Model: p.model}
	if opts != nil && opts.Temperature != nil {
		params.Temperature = openai.Float(*opts.Temperature)
	}

	if opts != nil && len(opts.Messages) > 0 {
		for _, turn := range opts.Messages {
			switch turn.Role {
			case models.RoleSystem:
				params.Messages = append(params.Messages, openai.SystemMessage(turn.Content))
			case models.RoleAssistant:
				params.Messages = append(params.Messages, openai.AssistantMessage(turn.Content))
			default:
				params.Messages = append(params.Messages, openai.UserMessage(turn.Content))
			}
		}
	} else {
		params.Messages = []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)}
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
