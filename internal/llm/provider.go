// Package llm provides the completion contract consumed by the grouping
// orchestrator, plus thin provider implementations.
package llm

import (
	"context"

	"github.com/fentz26/crewmux/internal/models"
)

// CompleteOptions carries optional parameters for a completion call.
type CompleteOptions struct {
	// Messages is the full conversation so far. When set, providers send
	// it instead of wrapping the bare prompt.
	Messages []models.ConversationTurn
	// Temperature overrides the provider default when non-nil.
	Temperature *float64
	// ResponseSchema is a JSON schema hint for providers that support
	// structured output. Advisory; replies are validated regardless.
	ResponseSchema map[string]any
}

// CompletionProvider is the single-method contract the orchestrator relies
// on. It never inspects provider identity.
type CompletionProvider interface {
	Complete(ctx context.Context, prompt string, opts *CompleteOptions) (string, error)
}
