package llm

import (
	"fmt"
	"strings"

	"github.com/depobrain/depobrain/constants"
)

// instructionTemplate is the fixed analyst instruction prepended to every
// segment. The issue_type list is spliced in from constants.IssueType so
// prompt, parser and schema cannot drift apart.
const instructionTemplate = `You are a legal analyst for U.S. mass tort litigation. Review the deposition excerpt and extract only statements useful to plaintiffs.

Quote testimony verbatim. Do not paraphrase or infer. Extract only statements with evidentiary or impeachment value.

Classify each statement using exactly one issue type from this list: %s.

Focus on statements relevant to failure to warn, causation, exposure, corporate knowledge, or regulatory compliance, especially those impacting Daubert admissibility such as methodology, data gaps, uncertainty, or limitations.

If nothing relevant appears, return an empty issues array.

Respond with only valid JSON and nothing else, using this structure exactly:

{
    "issues": [
        {
        "issue_type": "%s",
        "quoted_text": "exact quote from the transcript",
        "legal_relevance": "brief legal relevance",
        "risk_level": "high | medium | low"
        }
    ]
}`

var instruction = fmt.Sprintf(instructionTemplate,
	strings.Join(constants.IssueTypeStrings(), ", "),
	strings.Join(constants.IssueTypeStrings(), " | "))

// BuildPrompt concatenates the instruction template with one segment.
func BuildPrompt(segmentText string) string {
	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString("\n\nTranscript:\n")
	b.WriteString(segmentText)
	return b.String()
}
