// Package models defines the core domain types for crewmux.
package models

import (
	"fmt"
	"time"
)

// Tool is a single tool discovered from an upstream MCP server.
// Identity is the ServerName:Name pair; bare names may collide across servers.
type Tool struct {
	ServerName  string         `json:"server_name"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema,omitempty"`
}

// Key returns the identity key used to reference this tool in group
// assignments. Case-sensitive.
func (t Tool) Key() string {
	return t.ServerName + ":" + t.Name
}

// GroupingConstraints bounds the shape of a tool partition.
type GroupingConstraints struct {
	MinToolsPerGroup int `json:"min_tools_per_group" yaml:"min_tools_per_group"`
	MaxToolsPerGroup int `json:"max_tools_per_group" yaml:"max_tools_per_group"`
	MinGroups        int `json:"min_groups" yaml:"min_groups"`
	MaxGroups        int `json:"max_groups" yaml:"max_groups"`
}

// ToolGroup is a named, coherent subset of the tool catalog. The same tool
// may appear in more than one group; a group never has zero tools.
type ToolGroup struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	Description          string         `json:"description"`
	Tools                []Tool         `json:"tools"`
	SystemPrompt         string         `json:"system_prompt"`
	ComplementarityScore float64        `json:"complementarity_score"`
	Metadata             map[string]any `json:"metadata,omitempty"`
}

// ToolKeys returns the identity keys of every tool in the group, in order.
func (g ToolGroup) ToolKeys() []string {
	keys := make([]string, len(g.Tools))
	for i, t := range g.Tools {
		keys[i] = t.Key()
	}
	return keys
}

// ProjectContext carries optional hints handed to the grouping run.
type ProjectContext struct {
	Domain string `json:"domain,omitempty"`
	Hints  string `json:"hints,omitempty"`
	// Docs is merged project documentation; the orchestrator truncates it
	// before prompting.
	Docs string `json:"docs,omitempty"`
}

// AgentRequest is one prompt dispatched to a sub-agent.
type AgentRequest struct {
	RequestID string         `json:"request_id"`
	AgentID   string         `json:"agent_id"`
	Prompt    string         `json:"prompt"`
	Context   map[string]any `json:"context,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// AgentResponse is the outcome of executing an AgentRequest. Exactly one of
// Result or Err is set; use Success or Failure to construct.
type AgentResponse struct {
	RequestID string   `json:"request_id"`
	Result    string   `json:"result,omitempty"`
	ToolsUsed []string `json:"tools_used,omitempty"`
	Err       string   `json:"error,omitempty"`
}

// Success builds a result-carrying response.
func Success(requestID, result string, toolsUsed []string) AgentResponse {
	return AgentResponse{RequestID: requestID, Result: result, ToolsUsed: toolsUsed}
}

// Failure builds an error-carrying response.
func Failure(requestID, errText string) AgentResponse {
	if errText == "" {
		errText = "unknown error"
	}
	return AgentResponse{RequestID: requestID, Err: errText}
}

// IsError reports whether the response carries an error.
func (r AgentResponse) IsError() bool {
	return r.Err != ""
}

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one message in a grouping conversation. Turn lists are
// append-only within an attempt and copied between attempts, never shared.
type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ValidateRequest checks that an AgentRequest is well-formed. Routing is a
// separate concern; this only inspects the request itself.
func ValidateRequest(req AgentRequest) error {
	if req.RequestID == "" {
		return fmt.Errorf("request id cannot be empty")
	}
	if req.AgentID == "" {
		return fmt.Errorf("agent id cannot be empty")
	}
	if isBlank(req.Prompt) {
		return fmt.Errorf("prompt cannot be empty")
	}
	return nil
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
