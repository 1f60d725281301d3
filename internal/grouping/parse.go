package grouping

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fentz26/crewmux/internal/models"
)

// assignmentEnvelope mirrors the strict JSON object requested in Phase 3.
type assignmentEnvelope struct {
	Groups json.RawMessage `json:"groups"`
}

type assignmentGroup struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	ToolKeys             []string `json:"toolKeys"`
	SystemPrompt         string   `json:"systemPrompt"`
	ComplementarityScore *float64 `json:"complementarityScore"`
}

// defaultComplementarityScore is assumed when the collaborator omits one.
const defaultComplementarityScore = 0.5

// parseAssignment decodes and validates a Phase-3 reply against the known
// tool catalog. Checks run in a fixed order and the first failing category is
// reported, so the repair prompt stays focused on one problem at a time.
// Within a category every offender is listed.
func parseAssignment(reply string, catalog map[string]models.Tool) ([]models.ToolGroup, error) {
	raw := extractJSON(reply)

	var env assignmentEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, fmt.Errorf("the response is not valid JSON (%v)", err)
	}
	if len(env.Groups) == 0 {
		return nil, fmt.Errorf(`the response has no "groups" field`)
	}

	var records []assignmentGroup
	if err := json.Unmarshal(env.Groups, &records); err != nil {
		return nil, fmt.Errorf(`"groups" is not an array of group objects (%v)`, err)
	}

	var missing []string
	for i, rec := range records {
		for _, f := range []struct{ name, val string }{
			{"id", rec.ID},
			{"name", rec.Name},
			{"description", rec.Description},
		} {
			if f.val == "" {
				missing = append(missing, fmt.Sprintf("group %d is missing %q", i, f.name))
			}
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s", strings.Join(missing, "; "))
	}

	var unknown []string
	for _, rec := range records {
		for _, key := range rec.ToolKeys {
			if _, ok := catalog[key]; !ok {
				unknown = append(unknown, fmt.Sprintf("group %q references unknown tool key %q", rec.ID, key))
			}
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%s", strings.Join(unknown, "; "))
	}

	var dups []string
	for _, rec := range records {
		seen := make(map[string]bool, len(rec.ToolKeys))
		for _, key := range rec.ToolKeys {
			if seen[key] {
				dups = append(dups, fmt.Sprintf("group %q lists tool key %q more than once", rec.ID, key))
			}
			seen[key] = true
		}
	}
	if len(dups) > 0 {
		return nil, fmt.Errorf("%s", strings.Join(dups, "; "))
	}

	var empty []string
	for _, rec := range records {
		if len(rec.ToolKeys) == 0 {
			empty = append(empty, fmt.Sprintf("group %q has no tools", rec.ID))
		}
	}
	if len(empty) > 0 {
		return nil, fmt.Errorf("%s", strings.Join(empty, "; "))
	}

	var noPrompt []string
	for _, rec := range records {
		if rec.SystemPrompt == "" {
			noPrompt = append(noPrompt, fmt.Sprintf("group %q is missing its systemPrompt", rec.ID))
		}
	}
	if len(noPrompt) > 0 {
		return nil, fmt.Errorf("%s", strings.Join(noPrompt, "; "))
	}

	// Coverage is always hard: every catalog tool must land somewhere.
	covered := make(map[string]bool, len(catalog))
	for _, rec := range records {
		for _, key := range rec.ToolKeys {
			covered[key] = true
		}
	}
	var uncovered []string
	for key := range catalog {
		if !covered[key] {
			uncovered = append(uncovered, key)
		}
	}
	if len(uncovered) > 0 {
		return nil, fmt.Errorf("these tools are not assigned to any group: %s", strings.Join(uncovered, ", "))
	}

	groups := make([]models.ToolGroup, 0, len(records))
	for _, rec := range records {
		score := defaultComplementarityScore
		if rec.ComplementarityScore != nil {
			score = *rec.ComplementarityScore
		}
		tools := make([]models.Tool, 0, len(rec.ToolKeys))
		for _, key := range rec.ToolKeys {
			tools = append(tools, catalog[key])
		}
		groups = append(groups, models.ToolGroup{
			ID:                   sanitizeID(rec.ID),
			Name:                 rec.Name,
			Description:          rec.Description,
			Tools:                tools,
			SystemPrompt:         rec.SystemPrompt,
			ComplementarityScore: score,
		})
	}
	return groups, nil
}

// extractJSON peels a markdown code fence off a reply if one is present and
// otherwise trims to the outermost object braces. Collaborators frequently
// wrap JSON in prose despite instructions.
func extractJSON(reply string) string {
	s := strings.TrimSpace(reply)
	if start := strings.Index(s, "```"); start >= 0 {
		rest := s[start+3:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:]
		}
		if end := strings.Index(rest, "```"); end >= 0 {
			s = strings.TrimSpace(rest[:end])
		}
	}
	first := strings.IndexByte(s, '{')
	last := strings.LastIndexByte(s, '}')
	if first >= 0 && last > first {
		return s[first : last+1]
	}
	return s
}

// sanitizeID normalizes a group id to a lowercase kebab-case token: invalid
// runs become single dashes, repeats collapse, edges are trimmed.
func sanitizeID(id string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(id) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
