package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depobrain/depobrain/internal/common"
)

func TestExtractJSON(t *testing.T) {
	payload, ok := ExtractJSON(`Here is the result: {"issues": []} Thanks.`)
	require.True(t, ok)
	assert.Equal(t, `{"issues": []}`, payload)

	_, ok = ExtractJSON("no structured output here")
	assert.False(t, ok)

	_, ok = ExtractJSON("} backwards {")
	assert.False(t, ok)
}

func TestParseResponse_ProseWrappedEmptyIssues(t *testing.T) {
	issues, dropped, err := ParseResponse(`Here is the result: {"issues": []} Thanks.`, nil)
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Zero(t, dropped)
}

func TestParseResponse_NoJSONIsMalformed(t *testing.T) {
	_, _, err := ParseResponse("I could not find any issues in this testimony.", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMalformedResponse))
}

func TestParseIssues_MalformedItemDroppedSiblingsKept(t *testing.T) {
	payload := []byte(`{"issues": [
		{"issue_type": "causation", "quoted_text": "the solvent caused it", "legal_relevance": "links exposure to injury", "risk_level": "high"},
		{"issue_type": "causation", "quoted_text": "missing risk field", "legal_relevance": "incomplete"},
		{"issue_type": "exposure_pathway", "quoted_text": "we handled it bare-handed", "legal_relevance": "direct dermal contact", "risk_level": "medium"}
	]}`)

	issues, dropped, err := ParseIssues(payload, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	require.Len(t, issues, 2)
	assert.Equal(t, "causation", issues[0].IssueType)
	assert.Equal(t, "exposure_pathway", issues[1].IssueType)
}

func TestParseIssues_UnknownTypeCanonicalizedToOther(t *testing.T) {
	payload := []byte(`{"issues": [
		{"issue_type": "Failure To Warn", "quoted_text": "nobody told us", "legal_relevance": "duty to warn", "risk_level": "high"},
		{"issue_type": "something novel", "quoted_text": "misc", "legal_relevance": "unclear", "risk_level": "low"}
	]}`)

	issues, dropped, err := ParseIssues(payload, nil)
	require.NoError(t, err)
	assert.Zero(t, dropped)
	require.Len(t, issues, 2)
	assert.Equal(t, "failure_to_warn", issues[0].IssueType)
	assert.Equal(t, "other", issues[1].IssueType)
}

func TestParseIssues_MissingIssuesKey(t *testing.T) {
	issues, dropped, err := ParseIssues([]byte(`{"summary": "nothing found"}`), nil)
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Zero(t, dropped)
}

func TestBuildIssuesJSONSchema_ValidatesEnvelope(t *testing.T) {
	schema := BuildIssuesJSONSchema()

	valid := []byte(`{"issues": [{"issue_type": "causation", "quoted_text": "q", "legal_relevance": "r", "risk_level": "low"}]}`)
	assert.NoError(t, ValidateJSONAgainstSchema(schema, valid))

	missingEnvelope := []byte(`{"results": []}`)
	assert.Error(t, ValidateJSONAgainstSchema(schema, missingEnvelope))

	emptyQuote := []byte(`{"issues": [{"issue_type": "causation", "quoted_text": "", "legal_relevance": "r", "risk_level": "low"}]}`)
	assert.Error(t, ValidateJSONAgainstSchema(schema, emptyQuote))
}

func TestParseIssues_RiskLevelGrading(t *testing.T) {
	payload := []byte(`{"issues": [
		{"issue_type": "causation", "quoted_text": "q1", "legal_relevance": "r", "risk_level": "High"},
		{"issue_type": "causation", "quoted_text": "q2", "legal_relevance": "r", "risk_level": "severe"}
	]}`)

	issues, dropped, err := ParseIssues(payload, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	require.Len(t, issues, 1)
	assert.Equal(t, "high", issues[0].RiskLevel)
}

func TestParseIssues_InvalidJSON(t *testing.T) {
	_, _, err := ParseIssues([]byte(`{"issues": [}`), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMalformedResponse))
}
