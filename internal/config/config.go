// Package config loads and validates the crewmux YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fentz26/crewmux/internal/discovery"
	"github.com/fentz26/crewmux/internal/models"
)

// Config is the full crewmux configuration.
type Config struct {
	// Servers lists the upstream MCP servers to discover tools from.
	Servers []discovery.ServerSpec `yaml:"servers"`
	// Provider selects the completion provider for grouping and serving.
	Provider ProviderConfig `yaml:"provider"`
	// Grouping tunes the grouping orchestrator.
	Grouping GroupingConfig `yaml:"grouping"`
	// Serve tunes the MCP server surface.
	Serve ServeConfig `yaml:"serve"`
	// GroupsPath is where persisted groups live: a .json file for the
	// array layout, anything else is treated as a directory layout.
	GroupsPath string `yaml:"groups_path"`
	// DBPath is the sqlite run-audit database location.
	DBPath string `yaml:"db_path"`
	// Context carries optional project hints into the grouping run.
	Context models.ProjectContext `yaml:"context"`
}

// ProviderConfig selects and tunes a completion provider.
type ProviderConfig struct {
	// Name is "anthropic", "openai", or "auto" to pick from available
	// environment keys.
	Name  string `yaml:"name"`
	Model string `yaml:"model,omitempty"`
}

// GroupingConfig tunes the orchestrator.
type GroupingConfig struct {
	Constraints models.GroupingConstraints `yaml:"constraints"`
	// Enforcement is "strict" or "advisory" for the numeric bounds.
	Enforcement string `yaml:"enforcement"`
	// CallTimeoutSec bounds each completion call.
	CallTimeoutSec int `yaml:"call_timeout_sec"`
}

// ServeConfig tunes the MCP adapter.
type ServeConfig struct {
	// CallSchema is "prompt" or "prompt-agent".
	CallSchema string `yaml:"call_schema"`
	// HTTPAddr, when set, additionally serves MCP over HTTP.
	HTTPAddr string `yaml:"http_addr,omitempty"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	base := filepath.Join(home, ".crewmux")
	return &Config{
		Provider: ProviderConfig{Name: "auto"},
		Grouping: GroupingConfig{
			Constraints: models.GroupingConstraints{
				MinToolsPerGroup: 2,
				MaxToolsPerGroup: 15,
				MinGroups:        2,
				MaxGroups:        10,
			},
			Enforcement:    "strict",
			CallTimeoutSec: 120,
		},
		Serve:      ServeConfig{CallSchema: "prompt"},
		GroupsPath: filepath.Join(base, "groups.json"),
		DBPath:     filepath.Join(base, "crewmux.db"),
	}
}

// Load reads configuration from a YAML file, falling back to defaults when
// the file does not exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromHome loads configuration from ~/.crewmux/config.yaml.
func LoadFromHome() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfig(), nil
	}
	return Load(filepath.Join(home, ".crewmux", "config.yaml"))
}

// Save writes configuration to a YAML file, creating parent directories if
// needed.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is coherent.
func (c *Config) Validate() error {
	validProviders := map[string]bool{"auto": true, "anthropic": true, "openai": true}
	if !validProviders[c.Provider.Name] {
		return fmt.Errorf("invalid provider %q, must be: auto, anthropic, or openai", c.Provider.Name)
	}

	validEnforcement := map[string]bool{"strict": true, "advisory": true}
	if !validEnforcement[c.Grouping.Enforcement] {
		return fmt.Errorf("invalid enforcement %q, must be: strict or advisory", c.Grouping.Enforcement)
	}

	validSchemas := map[string]bool{"prompt": true, "prompt-agent": true}
	if !validSchemas[c.Serve.CallSchema] {
		return fmt.Errorf("invalid call_schema %q, must be: prompt or prompt-agent", c.Serve.CallSchema)
	}

	if c.Grouping.CallTimeoutSec < 1 {
		return fmt.Errorf("call_timeout_sec must be at least 1")
	}

	for i, s := range c.Servers {
		if s.Name == "" {
			return fmt.Errorf("server %d: name is required", i)
		}
		if s.Command == "" {
			return fmt.Errorf("server %q: command is required", s.Name)
		}
	}
	return nil
}
