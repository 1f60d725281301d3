package groupstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fentz26/crewmux/internal/models"
)

func testGroups() []models.ToolGroup {
	return []models.ToolGroup{
		{
			ID:                   "vcs",
			Name:                 "Version Control",
			Description:          "git operations",
			Tools:                []models.Tool{{ServerName: "git", Name: "commit", Description: "create a commit"}},
			SystemPrompt:         "You handle git.",
			ComplementarityScore: 0.8,
		},
		{
			ID:                   "files",
			Name:                 "Files",
			Description:          "file access",
			Tools:                []models.Tool{{ServerName: "fs", Name: "read", Description: "read a file"}},
			SystemPrompt:         "You handle files.",
			ComplementarityScore: 0.6,
		},
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.json")

	if err := SaveFile(path, testGroups()); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(loaded) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(loaded))
	}
	// Loading sorts by id regardless of stored order.
	if loaded[0].ID != "files" || loaded[1].ID != "vcs" {
		t.Errorf("groups not sorted by id: %s, %s", loaded[0].ID, loaded[1].ID)
	}
	if loaded[1].SystemPrompt != "You handle git." {
		t.Errorf("system prompt lost: %q", loaded[1].SystemPrompt)
	}
	if loaded[1].Tools[0].Key() != "git:commit" {
		t.Errorf("tools lost: %+v", loaded[1].Tools)
	}
}

func TestDirRoundTrip(t *testing.T) {
	dir := t.TempDir()

	if err := SaveDir(dir, testGroups()); err != nil {
		t.Fatalf("SaveDir() error = %v", err)
	}
	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(loaded) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(loaded))
	}
	if loaded[0].ID != "files" || loaded[1].ID != "vcs" {
		t.Errorf("groups not sorted by id: %s, %s", loaded[0].ID, loaded[1].ID)
	}
	if loaded[1].Description != "git operations" {
		t.Errorf("description lost: %q", loaded[1].Description)
	}
	if loaded[1].SystemPrompt != "You handle git." {
		t.Errorf("system prompt lost: %q", loaded[1].SystemPrompt)
	}
	if loaded[1].ComplementarityScore != 0.8 {
		t.Errorf("score lost: %v", loaded[1].ComplementarityScore)
	}
}

func TestLoad_MissingPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestLoadDir_MissingPromptFile(t *testing.T) {
	dir := t.TempDir()
	if err := SaveDir(dir, testGroups()[:1]); err != nil {
		t.Fatalf("SaveDir() error = %v", err)
	}
	// Remove prompt.md to simulate a corrupt layout.
	if err := os.Remove(filepath.Join(dir, "vcs", "prompt.md")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("expected error for missing prompt.md")
	}
}
