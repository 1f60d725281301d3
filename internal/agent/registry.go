// Package agent holds the sub-agent registry, routing, and execution seam.
package agent

import (
	"fmt"
	"sort"

	"github.com/fentz26/crewmux/internal/models"
)

// SubAgent is one tool group exposed as an addressable agent. Built once at
// registry construction and never mutated afterwards.
type SubAgent struct {
	ID                   string
	Name                 string
	Description          string
	SystemPrompt         string
	Tools                []models.Tool
	ComplementarityScore float64
}

// Registry is the immutable id-keyed set of sub-agents. Safe for concurrent
// reads; there are no writes after construction.
type Registry struct {
	byID  map[string]*SubAgent
	order []*SubAgent
}

// NewRegistry builds a registry from persisted tool groups. It fails fast on
// an empty group list or a duplicate id; a server with no sub-agents is not
// useful and duplicate ids would make routing ambiguous.
func NewRegistry(groups []models.ToolGroup) (*Registry, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("no tool groups supplied")
	}

	byID := make(map[string]*SubAgent, len(groups))
	order := make([]*SubAgent, 0, len(groups))
	for _, g := range groups {
		if g.ID == "" {
			return nil, fmt.Errorf("tool group with empty id")
		}
		if _, exists := byID[g.ID]; exists {
			return nil, fmt.Errorf("duplicate tool group id %q", g.ID)
		}
		sa := &SubAgent{
			ID:                   g.ID,
			Name:                 g.Name,
			Description:          g.Description,
			SystemPrompt:         g.SystemPrompt,
			Tools:                append([]models.Tool(nil), g.Tools...),
			ComplementarityScore: g.ComplementarityScore,
		}
		byID[g.ID] = sa
		order = append(order, sa)
	}

	// Deterministic order keeps tools/list stable across restarts.
	sort.Slice(order, func(i, j int) bool { return order[i].ID < order[j].ID })

	return &Registry{byID: byID, order: order}, nil
}

// Get returns the sub-agent with the given id, or nil.
func (r *Registry) Get(id string) *SubAgent {
	return r.byID[id]
}

// List returns all sub-agents sorted by id.
func (r *Registry) List() []*SubAgent {
	return append([]*SubAgent(nil), r.order...)
}

// Count returns the number of registered sub-agents.
func (r *Registry) Count() int {
	return len(r.order)
}
