package grouping

import (
	"fmt"

	"github.com/fentz26/crewmux/internal/models"
)

// Enforcement selects how the numeric partition bounds are applied.
type Enforcement string

const (
	// EnforcementStrict treats group-count and tools-per-group bounds as
	// hard validation failures.
	EnforcementStrict Enforcement = "strict"
	// EnforcementAdvisory skips the numeric bounds entirely. Coverage and
	// uniqueness stay hard in both modes.
	EnforcementAdvisory Enforcement = "advisory"
)

// ValidationResult is the outcome of validating a partition.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// ValidateGroups checks a proposed partition against structural rules and,
// under strict enforcement, the numeric bounds in constraints. Errors
// accumulate; no check short-circuits another category. If the constraint
// object itself is malformed the numeric checks are skipped, since there is
// no meaningful policy to enforce against.
func ValidateGroups(groups []models.ToolGroup, constraints models.GroupingConstraints, mode Enforcement) ValidationResult {
	var errs []string

	for i, g := range groups {
		if g.ID == "" {
			errs = append(errs, fmt.Sprintf("group %d: id is empty", i))
		}
		if g.Name == "" {
			errs = append(errs, fmt.Sprintf("group %d: name is empty", i))
		}
		if g.Description == "" {
			errs = append(errs, fmt.Sprintf("group %q: description is empty", g.ID))
		}
		if len(g.Tools) == 0 {
			errs = append(errs, fmt.Sprintf("group %q: contains no tools", g.ID))
		}
		if g.ComplementarityScore < 0 || g.ComplementarityScore > 1 {
			errs = append(errs, fmt.Sprintf("group %q: complementarity score %.2f outside [0,1]", g.ID, g.ComplementarityScore))
		}
	}

	seenIDs := make(map[string]bool)
	seenNames := make(map[string]bool)
	for _, g := range groups {
		if g.ID != "" && seenIDs[g.ID] {
			errs = append(errs, fmt.Sprintf("duplicate group id %q", g.ID))
		}
		seenIDs[g.ID] = true
		if g.Name != "" && seenNames[g.Name] {
			errs = append(errs, fmt.Sprintf("duplicate group name %q", g.Name))
		}
		seenNames[g.Name] = true
	}

	if err := ValidateConstraints(constraints); err != nil {
		errs = append(errs, err.Error())
		return ValidationResult{Valid: false, Errors: errs}
	}

	if mode == EnforcementStrict {
		if len(groups) < constraints.MinGroups || len(groups) > constraints.MaxGroups {
			errs = append(errs, fmt.Sprintf("group count %d outside [%d,%d]", len(groups), constraints.MinGroups, constraints.MaxGroups))
		}
		for _, g := range groups {
			if len(g.Tools) < constraints.MinToolsPerGroup || len(g.Tools) > constraints.MaxToolsPerGroup {
				errs = append(errs, fmt.Sprintf("group %q has %d tools, outside [%d,%d]", g.ID, len(g.Tools), constraints.MinToolsPerGroup, constraints.MaxToolsPerGroup))
			}
		}
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// ValidateConstraints checks that the constraint object itself is coherent.
func ValidateConstraints(c models.GroupingConstraints) error {
	if c.MinToolsPerGroup < 1 {
		return fmt.Errorf("min_tools_per_group must be at least 1, got %d", c.MinToolsPerGroup)
	}
	if c.MaxToolsPerGroup < c.MinToolsPerGroup {
		return fmt.Errorf("max_tools_per_group %d is less than min_tools_per_group %d", c.MaxToolsPerGroup, c.MinToolsPerGroup)
	}
	if c.MinGroups < 1 {
		return fmt.Errorf("min_groups must be at least 1, got %d", c.MinGroups)
	}
	if c.MaxGroups < c.MinGroups {
		return fmt.Errorf("max_groups %d is less than min_groups %d", c.MaxGroups, c.MinGroups)
	}
	return nil
}
