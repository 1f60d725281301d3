package discovery

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fentz26/crewmux/internal/models"
)

// ServerSpec describes how to reach one upstream MCP server.
type ServerSpec struct {
	Name    string            `yaml:"name" json:"name"`
	Command string            `yaml:"command" json:"command"`
	Args    []string          `yaml:"args,omitempty" json:"args,omitempty"`
	Env     map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
}

// Manager discovers tools across all configured upstream servers.
type Manager struct {
	specs  []ServerSpec
	logger *zap.Logger
}

// NewManager creates a discovery manager.
func NewManager(specs []ServerSpec, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{specs: specs, logger: logger}
}

// DiscoverAll connects to every configured server in turn and merges their
// tool lists. A server that cannot be reached is skipped with a warning;
// discovery only fails when no server yields any tools.
func (m *Manager) DiscoverAll(ctx context.Context) ([]models.Tool, error) {
	var all []models.Tool
	for _, spec := range m.specs {
		tools, err := m.discoverOne(ctx, spec)
		if err != nil {
			m.logger.Warn("skipping upstream server",
				zap.String("server", spec.Name),
				zap.Error(err))
			continue
		}
		m.logger.Info("discovered tools",
			zap.String("server", spec.Name),
			zap.Int("count", len(tools)))
		all = append(all, tools...)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("no tools discovered from %d configured servers", len(m.specs))
	}
	return all, nil
}

func (m *Manager) discoverOne(ctx context.Context, spec ServerSpec) ([]models.Tool, error) {
	client, err := NewClient(spec.Name, spec.Command, spec.Args, spec.Env)
	if err != nil {
		return nil, err
	}
	defer client.Close()
	return client.ListTools(ctx)
}
