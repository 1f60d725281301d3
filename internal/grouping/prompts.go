package grouping

import (
	"fmt"
	"strings"

	"github.com/fentz26/crewmux/internal/models"
)

// maxDocChars caps how much merged project documentation is inlined into the
// analysis prompt.
const maxDocChars = 4000

const systemPrompt = `You are an expert at organizing developer tooling. You analyze catalogs of tools exposed by MCP servers and partition them into coherent groups, where each group serves a focused workflow and can be handled by a single specialized sub-agent.`

// buildAnalysisPrompt asks for a free-text characterization of the project
// and the natural tool clusters. The reply is kept verbatim, never parsed.
func buildAnalysisPrompt(tools []models.Tool, pctx *models.ProjectContext) string {
	var b strings.Builder

	b.WriteString("Here is the full catalog of tools discovered from the upstream MCP servers:\n\n")
	for _, t := range tools {
		fmt.Fprintf(&b, "- %s: %s\n", t.Key(), t.Description)
	}

	if pctx != nil {
		if pctx.Domain != "" {
			fmt.Fprintf(&b, "\nProject domain: %s\n", pctx.Domain)
		}
		if pctx.Hints != "" {
			fmt.Fprintf(&b, "\nOperator hints: %s\n", pctx.Hints)
		}
		if pctx.Docs != "" {
			docs := pctx.Docs
			if len(docs) > maxDocChars {
				docs = docs[:maxDocChars]
			}
			fmt.Fprintf(&b, "\nProject documentation (may be truncated):\n%s\n", docs)
		}
	}

	b.WriteString("\nDescribe what kind of project these tools serve and which natural clusters of related tools you see. Respond in plain prose; do not produce JSON yet.")
	return b.String()
}

// buildStrategyPrompt asks for a grouping strategy respecting the numeric
// constraints. Counts only; tool assignments come in the next phase.
func buildStrategyPrompt(c models.GroupingConstraints) string {
	var b strings.Builder
	b.WriteString("Based on your analysis, propose a grouping strategy. The partition must satisfy these constraints:\n")
	fmt.Fprintf(&b, "- between %d and %d groups\n", c.MinGroups, c.MaxGroups)
	fmt.Fprintf(&b, "- each group holds between %d and %d tools\n", c.MinToolsPerGroup, c.MaxToolsPerGroup)
	b.WriteString("- every tool must be placed in at least one group\n")
	b.WriteString("- a tool may appear in more than one group when it serves multiple workflows\n")
	b.WriteString("\nExplain how many groups you will create, what each is for, and roughly how the tools distribute. Plain prose, no JSON yet.")
	return b.String()
}

// buildAssignmentPrompt asks for the final strict-JSON assignment. When the
// outer attempt counter is above 1 the collaborator is told it is retrying.
func buildAssignmentPrompt(outerAttempt int) string {
	var b strings.Builder
	if outerAttempt > 1 {
		fmt.Fprintf(&b, "This is attempt %d; the previous partition failed validation. ", outerAttempt)
	}
	b.WriteString("Now produce the final assignment as a single JSON object with exactly this shape:\n\n")
	b.WriteString(`{"groups": [{"id": "...", "name": "...", "description": "...", "toolKeys": ["server:tool", ...], "systemPrompt": "...", "complementarityScore": 0.0}]}`)
	b.WriteString("\n\nRules:\n")
	b.WriteString("- every toolKey must exactly match one of the catalog keys (serverName:name, case-sensitive)\n")
	b.WriteString("- every catalog tool must appear in at least one group\n")
	b.WriteString("- no toolKey may repeat within a single group\n")
	b.WriteString("- every group needs a systemPrompt describing how its sub-agent should operate\n")
	b.WriteString("- respond with ONLY the JSON object, no surrounding prose\n")
	return b.String()
}

// buildRepairPrompt feeds a parse failure back into the same conversation so
// the collaborator can correct its reply in place.
func buildRepairPrompt(problem string) string {
	return fmt.Sprintf("Your previous response could not be used: %s.\nReply again with ONLY the corrected JSON object, keeping the same overall grouping.", problem)
}

// assignmentSchema is the structured-output hint for Phase-3 calls.
func assignmentSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"groups": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":                   map[string]any{"type": "string"},
						"name":                 map[string]any{"type": "string"},
						"description":          map[string]any{"type": "string"},
						"toolKeys":             map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"systemPrompt":         map[string]any{"type": "string"},
						"complementarityScore": map[string]any{"type": "number"},
					},
					"required": []string{"id", "name", "description", "toolKeys", "systemPrompt"},
				},
			},
		},
		"required": []string{"groups"},
	}
}
