package agent

import "github.com/fentz26/crewmux/internal/models"

// Router resolves agent requests against a registry. Stateless; safe for
// concurrent use.
type Router struct {
	registry *Registry
}

// NewRouter creates a router over the given registry.
func NewRouter(reg *Registry) *Router {
	return &Router{registry: reg}
}

// Route resolves the request's target by exact id match. A nil return means
// "unknown agent"; Route never fails in any other way, and callers are
// responsible for turning nil into a protocol-level error.
func (r *Router) Route(req models.AgentRequest) *SubAgent {
	if r.registry == nil {
		return nil
	}
	return r.registry.Get(req.AgentID)
}
