package llm

import (
	"fmt"
	"os"
)

// NewProvider builds a provider by name. "auto" detects from available
// environment keys, preferring Anthropic.
func NewProvider(name, model string) (CompletionProvider, error) {
	switch name {
	case "anthropic":
		return NewAnthropicProvider("", model), nil
	case "openai":
		return NewOpenAIProvider("", model), nil
	case "auto", "":
		return detectProvider(model)
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}

func detectProvider(model string) (CompletionProvider, error) {
	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		return NewAnthropicProvider("", model), nil
	}
	if os.Getenv("OPENAI_API_KEY") != "" {
		return NewOpenAIProvider("", model), nil
	}
	return nil, fmt.Errorf("no provider credentials found; set ANTHROPIC_API_KEY or OPENAI_API_KEY")
}
