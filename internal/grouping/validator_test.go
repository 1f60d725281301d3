package grouping

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/fentz26/crewmux/internal/models"
)

func makeTools(n int) []models.Tool {
	tools := make([]models.Tool, n)
	for i := range tools {
		tools[i] = models.Tool{
			ServerName:  "srv",
			Name:        fmt.Sprintf("tool-%d", i),
			Description: fmt.Sprintf("tool %d", i),
		}
	}
	return tools
}

func makeGroup(id string, toolCount int) models.ToolGroup {
	return models.ToolGroup{
		ID:                   id,
		Name:                 "Group " + id,
		Description:          "group " + id,
		Tools:                makeTools(toolCount),
		SystemPrompt:         "act as " + id,
		ComplementarityScore: 0.5,
	}
}

func validConstraints() models.GroupingConstraints {
	return models.GroupingConstraints{
		MinToolsPerGroup: 1,
		MaxToolsPerGroup: 10,
		MinGroups:        1,
		MaxGroups:        10,
	}
}

func TestValidateGroups_Valid(t *testing.T) {
	groups := []models.ToolGroup{makeGroup("alpha", 3), makeGroup("beta", 2)}
	result := ValidateGroups(groups, validConstraints(), EnforcementStrict)
	if !result.Valid {
		t.Fatalf("expected valid, got errors: %v", result.Errors)
	}
}

func TestValidateGroups_StructuralErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.ToolGroup)
		wantSub string
	}{
		{"empty id", func(g *models.ToolGroup) { g.ID = "" }, "id is empty"},
		{"empty name", func(g *models.ToolGroup) { g.Name = "" }, "name is empty"},
		{"empty description", func(g *models.ToolGroup) { g.Description = "" }, "description is empty"},
		{"no tools", func(g *models.ToolGroup) { g.Tools = nil }, "contains no tools"},
		{"score below range", func(g *models.ToolGroup) { g.ComplementarityScore = -0.1 }, "outside [0,1]"},
		{"score above range", func(g *models.ToolGroup) { g.ComplementarityScore = 1.5 }, "outside [0,1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := makeGroup("alpha", 2)
			tt.mutate(&g)
			result := ValidateGroups([]models.ToolGroup{g}, validConstraints(), EnforcementStrict)
			if result.Valid {
				t.Fatal("expected invalid")
			}
			if !containsSub(result.Errors, tt.wantSub) {
				t.Errorf("errors %v missing %q", result.Errors, tt.wantSub)
			}
		})
	}
}

func TestValidateGroups_ErrorsAccumulate(t *testing.T) {
	bad := models.ToolGroup{ID: "", Name: "", Description: "", ComplementarityScore: 2}
	result := ValidateGroups([]models.ToolGroup{bad}, validConstraints(), EnforcementStrict)
	if result.Valid {
		t.Fatal("expected invalid")
	}
	// empty id, empty name, empty description, no tools, bad score,
	// and a strict tools-per-group violation all report together
	if len(result.Errors) < 5 {
		t.Errorf("expected accumulated errors, got %v", result.Errors)
	}
}

func TestValidateGroups_DuplicateIDsAndNames(t *testing.T) {
	a := makeGroup("alpha", 2)
	b := makeGroup("alpha", 3)
	result := ValidateGroups([]models.ToolGroup{a, b}, validConstraints(), EnforcementStrict)
	if result.Valid {
		t.Fatal("expected invalid")
	}
	if !containsSub(result.Errors, `duplicate group id "alpha"`) {
		t.Errorf("missing duplicate id error: %v", result.Errors)
	}
	if !containsSub(result.Errors, `duplicate group name "Group alpha"`) {
		t.Errorf("missing duplicate name error: %v", result.Errors)
	}
}

func TestValidateGroups_MalformedConstraintsSkipsNumericChecks(t *testing.T) {
	// 20 tools would violate any sane per-group cap, but with a malformed
	// constraint object the numeric checks cannot run.
	groups := []models.ToolGroup{makeGroup("alpha", 20)}
	bad := models.GroupingConstraints{MinToolsPerGroup: 0, MaxToolsPerGroup: 5, MinGroups: 1, MaxGroups: 2}

	result := ValidateGroups(groups, bad, EnforcementStrict)
	if result.Valid {
		t.Fatal("expected invalid")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected only the constraint error, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0], "min_tools_per_group") {
		t.Errorf("unexpected error: %v", result.Errors[0])
	}
}

func TestValidateGroups_NumericBounds(t *testing.T) {
	constraints := models.GroupingConstraints{
		MinToolsPerGroup: 3,
		MaxToolsPerGroup: 5,
		MinGroups:        3,
		MaxGroups:        20,
	}

	tests := []struct {
		name    string
		groups  []models.ToolGroup
		mode    Enforcement
		valid   bool
		wantSub string
	}{
		{
			name:    "too few groups strict",
			groups:  []models.ToolGroup{makeGroup("a", 3), makeGroup("b", 4)},
			mode:    EnforcementStrict,
			valid:   false,
			wantSub: "group count 2 outside [3,20]",
		},
		{
			name:    "oversized group strict",
			groups:  []models.ToolGroup{makeGroup("a", 3), makeGroup("b", 4), makeGroup("c", 9)},
			mode:    EnforcementStrict,
			valid:   false,
			wantSub: "outside [3,5]",
		},
		{
			name:   "same partitions advisory",
			groups: []models.ToolGroup{makeGroup("a", 3), makeGroup("b", 9)},
			mode:   EnforcementAdvisory,
			valid:  true,
		},
		{
			name:   "within bounds strict",
			groups: []models.ToolGroup{makeGroup("a", 3), makeGroup("b", 4), makeGroup("c", 5)},
			mode:   EnforcementStrict,
			valid:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateGroups(tt.groups, constraints, tt.mode)
			if result.Valid != tt.valid {
				t.Fatalf("valid = %v, want %v (errors %v)", result.Valid, tt.valid, result.Errors)
			}
			if tt.wantSub != "" && !containsSub(result.Errors, tt.wantSub) {
				t.Errorf("errors %v missing %q", result.Errors, tt.wantSub)
			}
		})
	}
}

func TestValidateGroups_Deterministic(t *testing.T) {
	groups := []models.ToolGroup{makeGroup("a", 20), makeGroup("a", 0)}
	first := ValidateGroups(groups, validConstraints(), EnforcementStrict)
	second := ValidateGroups(groups, validConstraints(), EnforcementStrict)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ between calls:\n%v\n%v", first, second)
	}
}

func TestValidateConstraints(t *testing.T) {
	tests := []struct {
		name    string
		c       models.GroupingConstraints
		wantErr bool
	}{
		{"valid", validConstraints(), false},
		{"zero min tools", models.GroupingConstraints{MinToolsPerGroup: 0, MaxToolsPerGroup: 5, MinGroups: 1, MaxGroups: 2}, true},
		{"max tools below min", models.GroupingConstraints{MinToolsPerGroup: 5, MaxToolsPerGroup: 3, MinGroups: 1, MaxGroups: 2}, true},
		{"zero min groups", models.GroupingConstraints{MinToolsPerGroup: 1, MaxToolsPerGroup: 5, MinGroups: 0, MaxGroups: 2}, true},
		{"max groups below min", models.GroupingConstraints{MinToolsPerGroup: 1, MaxToolsPerGroup: 5, MinGroups: 3, MaxGroups: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConstraints(tt.c)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConstraints() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func containsSub(errs []string, sub string) bool {
	for _, e := range errs {
		if strings.Contains(e, sub) {
			return true
		}
	}
	return false
}
