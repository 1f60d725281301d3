package mcpserver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fentz26/crewmux/internal/agent"
	"github.com/fentz26/crewmux/internal/models"
)

// agentToolPrefix prefixes every synthetic tool name.
const agentToolPrefix = "agent_"

// CallSchema selects which tools/call argument shape the adapter advertises
// and accepts. Two deployed variants exist; this is an explicit
// compatibility mode, not something the adapter infers.
type CallSchema string

const (
	// CallSchemaPrompt requires only a "prompt" argument; the target agent
	// comes from the invoked tool name.
	CallSchemaPrompt CallSchema = "prompt"
	// CallSchemaPromptAgent additionally requires an explicit "agentId"
	// argument, which takes precedence over the tool name.
	CallSchemaPromptAgent CallSchema = "prompt-agent"
)

// Adapter translates the generic MCP tool operations onto the sub-agent
// registry and executor.
type Adapter struct {
	registry *agent.Registry
	router   *agent.Router
	executor agent.Executor
	schema   CallSchema
	logger   *zap.Logger
}

// NewAdapter creates an adapter over a registry and executor. An empty
// schema defaults to CallSchemaPrompt; a nil logger is replaced with a no-op
// one.
func NewAdapter(reg *agent.Registry, exec agent.Executor, schema CallSchema, logger *zap.Logger) *Adapter {
	if schema == "" {
		schema = CallSchemaPrompt
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		registry: reg,
		router:   agent.NewRouter(reg),
		executor: exec,
		schema:   schema,
		logger:   logger,
	}
}

// ListTools returns one synthetic tool per registered sub-agent, in registry
// order.
func (a *Adapter) ListTools() []ToolDescriptor {
	agents := a.registry.List()
	tools := make([]ToolDescriptor, 0, len(agents))
	for _, sa := range agents {
		tools = append(tools, ToolDescriptor{
			Name:        agentToolPrefix + sa.ID,
			Description: fmt.Sprintf("Sub-agent for %s: %s", sa.Name, sa.Description),
			InputSchema: a.inputSchema(),
		})
	}
	return tools
}

// CallTool dispatches one tools/call invocation. Protocol-level failures
// (unknown agent, missing prompt) come back as error envelopes, never as Go
// errors; the transport layers treat any return as a valid result.
func (a *Adapter) CallTool(ctx context.Context, name string, args map[string]any) CallResult {
	prompt, _ := args["prompt"].(string)
	req := models.AgentRequest{
		RequestID: uuid.New().String(),
		AgentID:   a.resolveAgentID(name, args),
		Prompt:    prompt,
		Timestamp: time.Now().UTC(),
	}

	sa := a.router.Route(req)
	if sa == nil {
		return textResult(fmt.Sprintf("sub-agent %q not found", req.AgentID), true)
	}
	if err := models.ValidateRequest(req); err != nil {
		return textResult(fmt.Sprintf("invalid call: %v", err), true)
	}

	a.logger.Debug("dispatching to sub-agent",
		zap.String("agent_id", sa.ID),
		zap.String("request_id", req.RequestID))

	resp := a.executor.Execute(ctx, sa, req)
	if resp.IsError() {
		return textResult(resp.Err, true)
	}
	return textResult(resp.Result, false)
}

// resolveAgentID derives the target agent id from the explicit argument when
// the prompt-agent schema is active, falling back to stripping the tool name
// prefix.
func (a *Adapter) resolveAgentID(name string, args map[string]any) string {
	if a.schema == CallSchemaPromptAgent {
		if id, ok := args["agentId"].(string); ok && id != "" {
			return id
		}
	}
	return strings.TrimPrefix(name, agentToolPrefix)
}

func (a *Adapter) inputSchema() map[string]any {
	props := map[string]any{
		"prompt": map[string]any{
			"type":        "string",
			"description": "The task or question for this sub-agent",
		},
	}
	required := []string{"prompt"}
	if a.schema == CallSchemaPromptAgent {
		props["agentId"] = map[string]any{
			"type":        "string",
			"description": "Identifier of the sub-agent to invoke",
		}
		required = append(required, "agentId")
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}
