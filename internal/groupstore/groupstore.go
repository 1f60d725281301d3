// Package groupstore persists tool groups between the build run and server
// start. Two equivalent layouts are supported: a single JSON array file and
// a directory per group.
package groupstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fentz26/crewmux/internal/models"
)

// groupRecord is the directory-layout group.json payload. Description and
// system prompt live in sibling markdown files.
type groupRecord struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	Tools                []models.Tool  `json:"tools"`
	ComplementarityScore float64        `json:"complementarity_score"`
	Metadata             map[string]any `json:"metadata,omitempty"`
}

// Load reads groups from either layout, detected by whether path is a
// directory. Results are sorted by id so tools/list ordering is stable.
func Load(path string) ([]models.ToolGroup, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat group store: %w", err)
	}
	var groups []models.ToolGroup
	if info.IsDir() {
		groups, err = loadDir(path)
	} else {
		groups, err = loadFile(path)
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	return groups, nil
}

func loadFile(path string) ([]models.ToolGroup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading group file: %w", err)
	}
	var groups []models.ToolGroup
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("parsing group file: %w", err)
	}
	return groups, nil
}

func loadDir(path string) ([]models.ToolGroup, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading group dir: %w", err)
	}

	var groups []models.ToolGroup
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(path, entry.Name())

		data, err := os.ReadFile(filepath.Join(dir, "group.json"))
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", entry.Name(), err)
		}
		var rec groupRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("group %q: parsing group.json: %w", entry.Name(), err)
		}

		desc, err := os.ReadFile(filepath.Join(dir, "description.md"))
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", entry.Name(), err)
		}
		prompt, err := os.ReadFile(filepath.Join(dir, "prompt.md"))
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", entry.Name(), err)
		}

		groups = append(groups, models.ToolGroup{
			ID:                   rec.ID,
			Name:                 rec.Name,
			Description:          strings.TrimSpace(string(desc)),
			Tools:                rec.Tools,
			SystemPrompt:         strings.TrimSpace(string(prompt)),
			ComplementarityScore: rec.ComplementarityScore,
			Metadata:             rec.Metadata,
		})
	}
	return groups, nil
}

// SaveFile writes groups as a single JSON array file.
func SaveFile(path string, groups []models.ToolGroup) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating group dir: %w", err)
	}
	data, err := json.MarshalIndent(groups, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling groups: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing group file: %w", err)
	}
	return nil
}

// SaveDir writes groups in the directory-per-group layout.
func SaveDir(path string, groups []models.ToolGroup) error {
	for _, g := range groups {
		dir := filepath.Join(path, g.ID)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating dir for %q: %w", g.ID, err)
		}

		rec := groupRecord{
			ID:                   g.ID,
			Name:                 g.Name,
			Tools:                g.Tools,
			ComplementarityScore: g.ComplementarityScore,
			Metadata:             g.Metadata,
		}
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling %q: %w", g.ID, err)
		}
		if err := os.WriteFile(filepath.Join(dir, "group.json"), data, 0o644); err != nil {
			return fmt.Errorf("writing group.json for %q: %w", g.ID, err)
		}
		if err := os.WriteFile(filepath.Join(dir, "description.md"), []byte(g.Description+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing description for %q: %w", g.ID, err)
		}
		if err := os.WriteFile(filepath.Join(dir, "prompt.md"), []byte(g.SystemPrompt+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing prompt for %q: %w", g.ID, err)
		}
	}
	return nil
}
