package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fentz26/crewmux/internal/models"
)

func TestCatalogRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.json")
	tools := []models.Tool{
		{ServerName: "git", Name: "commit", Description: "create a commit"},
		{ServerName: "fs", Name: "read", Description: "read a file", InputSchema: map[string]any{"type": "object"}},
	}

	if err := SaveCatalog(path, tools); err != nil {
		t.Fatalf("SaveCatalog() error = %v", err)
	}
	loaded, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}

	if len(loaded) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(loaded))
	}
	if loaded[0].Key() != "git:commit" {
		t.Errorf("unexpected key %q", loaded[0].Key())
	}
	if loaded[1].InputSchema["type"] != "object" {
		t.Errorf("input schema lost: %+v", loaded[1].InputSchema)
	}
}

func TestLoadCatalog_RejectsIncompleteEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.json")
	if err := os.WriteFile(path, []byte(`[{"name": "orphan"}]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := LoadCatalog(path); err == nil {
		t.Error("expected error for entry without server_name")
	}
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
