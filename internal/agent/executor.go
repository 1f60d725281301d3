package agent

import (
	"context"
	"fmt"

	"github.com/fentz26/crewmux/internal/llm"
	"github.com/fentz26/crewmux/internal/models"
)

// Executor runs a request against a resolved sub-agent. The full LLM
// tool-use loop lives behind this seam; the adapter only depends on the
// request/response contract.
type Executor interface {
	Execute(ctx context.Context, sa *SubAgent, req models.AgentRequest) models.AgentResponse
}

// CompletionExecutor answers with a single completion under the sub-agent's
// system prompt. It does not drive the agent's tools itself; the system
// prompt carries the tool inventory so the model can reason about them.
type CompletionExecutor struct {
	provider llm.CompletionProvider
}

// NewCompletionExecutor creates an executor backed by a completion provider.
func NewCompletionExecutor(provider llm.CompletionProvider) *CompletionExecutor {
	return &CompletionExecutor{provider: provider}
}

// Execute runs one request. The returned response always carries exactly one
// of result or error.
func (e *CompletionExecutor) Execute(ctx context.Context, sa *SubAgent, req models.AgentRequest) models.AgentResponse {
	if err := models.ValidateRequest(req); err != nil {
		return models.Failure(req.RequestID, fmt.Sprintf("invalid request: %v", err))
	}

	conv := []models.ConversationTurn{
		{Role: models.RoleSystem, Content: sa.SystemPrompt},
		{Role: models.RoleUser, Content: req.Prompt},
	}
	result, err := e.provider.Complete(ctx, req.Prompt, &llm.CompleteOptions{Messages: conv})
	if err != nil {
		return models.Failure(req.RequestID, fmt.Sprintf("completion failed: %v", err))
	}
	return models.Success(req.RequestID, result, nil)
}
