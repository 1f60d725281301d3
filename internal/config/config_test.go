package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fentz26/crewmux/internal/discovery"
)

func serverSpec(name, command string) discovery.ServerSpec {
	return discovery.ServerSpec{Name: name, Command: command}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Provider.Name != "auto" {
		t.Errorf("default provider = %q", cfg.Provider.Name)
	}
	if cfg.Grouping.Enforcement != "strict" {
		t.Errorf("default enforcement = %q", cfg.Grouping.Enforcement)
	}
	if cfg.Serve.CallSchema != "prompt" {
		t.Errorf("default call schema = %q", cfg.Serve.CallSchema)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
provider:
  name: openai
  model: gpt-4o
grouping:
  enforcement: advisory
  constraints:
    min_tools_per_group: 3
    max_tools_per_group: 5
    min_groups: 3
    max_groups: 20
serve:
  call_schema: prompt-agent
servers:
  - name: git
    command: mcp-git
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Provider.Name != "openai" || cfg.Provider.Model != "gpt-4o" {
		t.Errorf("provider = %+v", cfg.Provider)
	}
	if cfg.Grouping.Enforcement != "advisory" {
		t.Errorf("enforcement = %q", cfg.Grouping.Enforcement)
	}
	if cfg.Grouping.Constraints.MaxGroups != 20 {
		t.Errorf("constraints = %+v", cfg.Grouping.Constraints)
	}
	if cfg.Serve.CallSchema != "prompt-agent" {
		t.Errorf("call schema = %q", cfg.Serve.CallSchema)
	}
	if len(cfg.Servers) != 1 || cfg.Servers[0].Command != "mcp-git" {
		t.Errorf("servers = %+v", cfg.Servers)
	}
	// CallTimeoutSec keeps its default when the file omits it.
	if cfg.Grouping.CallTimeoutSec != 120 {
		t.Errorf("call timeout = %d", cfg.Grouping.CallTimeoutSec)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"bad provider", func(c *Config) { c.Provider.Name = "grok" }, true},
		{"bad enforcement", func(c *Config) { c.Grouping.Enforcement = "maybe" }, true},
		{"bad call schema", func(c *Config) { c.Serve.CallSchema = "both" }, true},
		{"zero timeout", func(c *Config) { c.Grouping.CallTimeoutSec = 0 }, true},
		{"server without name", func(c *Config) { c.Servers = append(c.Servers, serverSpec("", "cmd")) }, true},
		{"server without command", func(c *Config) { c.Servers = append(c.Servers, serverSpec("git", "")) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Provider.Name = "anthropic"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Provider.Name != "anthropic" {
		t.Errorf("provider = %q", loaded.Provider.Name)
	}
}
