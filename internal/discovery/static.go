package discovery

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fentz26/crewmux/internal/models"
)

// LoadCatalog reads a pre-discovered tool catalog from a JSON array file.
// Useful for offline grouping runs and tests.
func LoadCatalog(path string) ([]models.Tool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var tools []models.Tool
	if err := json.Unmarshal(data, &tools); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	for i, t := range tools {
		if t.ServerName == "" || t.Name == "" {
			return nil, fmt.Errorf("catalog entry %d is missing server_name or name", i)
		}
	}
	return tools, nil
}

// SaveCatalog writes a tool catalog as a JSON array file.
func SaveCatalog(path string, tools []models.Tool) error {
	data, err := json.MarshalIndent(tools, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	return nil
}
