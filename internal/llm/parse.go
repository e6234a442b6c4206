package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/depobrain/depobrain/constants"
	"github.com/depobrain/depobrain/internal/common"
)

// ExtractJSON locates the first top-level JSON object in raw response
// text; reasoning services like to wrap their JSON in prose. It returns
// the slice from the first '{' through the last '}' and false when no
// object is present.
func ExtractJSON(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}

// ParseIssues decodes an issues envelope. Items that fail the per-item
// schema are dropped (and counted) while well-formed siblings survive; a
// payload that does not decode at all is a malformed-response error. A
// missing or empty issues array parses to zero issues.
func ParseIssues(payload []byte, logger *slog.Logger) ([]Issue, int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var envelope struct {
		Issues []json.RawMessage `json:"issues"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, 0, common.NewAppError("PARSE", "decode issues envelope", common.ErrMalformedResponse)
	}

	itemSchema := IssueItemSchema()
	issues := make([]Issue, 0, len(envelope.Issues))
	dropped := 0
	for i, raw := range envelope.Issues {
		if err := ValidateJSONAgainstSchema(itemSchema, raw); err != nil {
			dropped++
			logger.Warn("issue item failed validation; dropping",
				"index", i, "error", err)
			continue
		}
		var it Issue
		if err := json.Unmarshal(raw, &it); err != nil {
			dropped++
			logger.Warn("issue item failed decode; dropping", "index", i, "error", err)
			continue
		}
		canon, known := constants.CanonicalizeIssueType(it.IssueType)
		if !known {
			logger.Warn("unknown issue type; classifying as other", "issue_type", it.IssueType)
		}
		it.IssueType = string(canon)
		it.RiskLevel = strings.ToLower(strings.TrimSpace(it.RiskLevel))
		if !constants.ValidRiskLevel(it.RiskLevel) {
			dropped++
			logger.Warn("unknown risk level; dropping item", "index", i, "risk_level", it.RiskLevel)
			continue
		}
		issues = append(issues, it)
	}
	return issues, dropped, nil
}

// ParseResponse runs the full response-handling pipeline: JSON-in-prose
// extraction followed by per-item parsing.
func ParseResponse(raw string, logger *slog.Logger) ([]Issue, int, error) {
	payload, ok := ExtractJSON(raw)
	if !ok {
		return nil, 0, common.NewAppError("PARSE",
			fmt.Sprintf("no JSON object in response (%d bytes)", len(raw)),
			common.ErrMalformedResponse)
	}
	return ParseIssues([]byte(payload), logger)
}
