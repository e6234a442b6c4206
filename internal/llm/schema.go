package llm

// BuildIssuesJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map describing the envelope the reasoning service must emit.
// Individual items are validated against IssueItemSchema so one malformed
// item does not condemn its well-formed siblings.
func BuildIssuesJSONSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"issues"},
		"properties": map[string]any{
			"issues": map[string]any{
				"type":  "array",
				"items": IssueItemSchema(),
			},
		},
	}
}

// IssueItemSchema constrains a single issue item: all four fields present
// and non-degenerate. issue_type and risk_level are kept loose here;
// parsing canonicalizes the former onto the closed set and grades the
// latter case-insensitively, dropping items with an unknown grade.
func IssueItemSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": true,
		"required":             []string{"issue_type", "quoted_text", "legal_relevance", "risk_level"},
		"properties": map[string]any{
			"issue_type":      map[string]any{"type": "string", "minLength": 1},
			"quoted_text":     map[string]any{"type": "string", "minLength": 1},
			"legal_relevance": map[string]any{"type": "string"},
			"risk_level":      map[string]any{"type": "string", "minLength": 1},
		},
	}
}
