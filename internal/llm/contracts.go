package llm

import "context"

// Issue is one structured extraction result as returned by the reasoning
// service: a verbatim quote plus its classification.
type Issue struct {
	IssueType      string `json:"issue_type"`
	QuotedText     string `json:"quoted_text"`
	LegalRelevance string `json:"legal_relevance"`
	RiskLevel      string `json:"risk_level"`
}

// IssueExtractor is the interface the extraction coordinator depends on.
// The raw response body is returned alongside the parsed issues for
// logging and audit.
type IssueExtractor interface {
	ExtractIssues(ctx context.Context, segmentText string) ([]Issue, []byte, error)
}
