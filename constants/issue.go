package constants

import "strings"

// IssueType is the closed set of litigation issue classifications the
// extraction stage is allowed to emit.
type IssueType string

const (
	FailureToWarn         IssueType = "failure_to_warn"
	Causation             IssueType = "causation"
	ExposurePathway       IssueType = "exposure_pathway"
	CorporateKnowledge    IssueType = "corporate_knowledge"
	RegulatoryCompliance  IssueType = "regulatory_compliance"
	AlternativeCauses     IssueType = "alternative_causes"
	DamagesInjuryTimeline IssueType = "damages_injury_timeline"
	OtherIssue            IssueType = "other"
)

var allIssueTypes = []IssueType{
	FailureToWarn,
	Causation,
	ExposurePathway,
	CorporateKnowledge,
	RegulatoryCompliance,
	AlternativeCauses,
	DamagesInjuryTimeline,
	OtherIssue,
}

// IssueTypeStrings returns the closed set as plain strings, in stable order.
func IssueTypeStrings() []string {
	result := make([]string, len(allIssueTypes))
	for i, it := range allIssueTypes {
		result[i] = string(it)
	}
	return result
}

// CanonicalizeIssueType maps a model-provided label onto the closed set,
// tolerating case and whitespace noise. Unknown labels map to "other".
func CanonicalizeIssueType(input string) (IssueType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	if normalized == "" {
		return OtherIssue, false
	}
	for _, it := range allIssueTypes {
		if normalized == string(it) {
			return it, true
		}
	}
	return OtherIssue, false
}

// RiskLevel grades the evidentiary weight of a finding.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// ValidRiskLevel reports whether s is one of high | medium | low.
func ValidRiskLevel(s string) bool {
	switch RiskLevel(strings.ToLower(strings.TrimSpace(s))) {
	case RiskHigh, RiskMedium, RiskLow:
		return true
	}
	return false
}
