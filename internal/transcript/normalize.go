package transcript

import (
	"regexp"
	"strings"
)

var (
	rePageMarker = regexp.MustCompile(`(?i)^Page\s+\d+(\s+of\s+\d+)?$`)
	reSlashPage  = regexp.MustCompile(`^\d+\s*/\s*\d+$`)
	reLineNumber = regexp.MustCompile(`^\d+\s+`)
	reQuestion   = regexp.MustCompile(`(?i)^(q|question)\b\.?\s*`)
	reAnswer     = regexp.MustCompile(`(?i)^(a|answer)\b\.?\s*`)
	reSpeaker    = regexp.MustCompile(`(?i)^(MR|MS|MRS|DR)\.\s+([A-Z][A-Z\s\-]+):`)
	reDigitsOnly = regexp.MustCompile(`^\d+$`)
)

// Normalize cleans one page of raw transcript text. Court-reporter line
// numbers, page headers and footers are dropped, Q/A and speaker prefixes
// are rewritten to bracketed markers, and the surviving lines are rejoined
// with single spaces. Empty input yields empty output.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		l := strings.TrimSpace(ln)
		if l == "" {
			continue
		}

		// header / footer markers
		if rePageMarker.MatchString(l) {
			continue
		}
		if reSlashPage.MatchString(l) {
			continue
		}

		// "15 A. Text" -> "A. Text"
		l = reLineNumber.ReplaceAllString(l, "")

		switch {
		case reQuestion.MatchString(l):
			l = reQuestion.ReplaceAllString(l, "[Q] ")
		case reAnswer.MatchString(l):
			l = reAnswer.ReplaceAllString(l, "[A] ")
		default:
			if m := reSpeaker.FindStringSubmatchIndex(l); m != nil {
				name := titleCase(l[m[4]:m[5]])
				l = "[SPEAKER: " + name + "] " + strings.TrimSpace(l[m[1]:])
			}
		}

		l = strings.TrimSpace(l)
		if l == "" || reDigitsOnly.MatchString(l) {
			continue
		}

		lines = append(lines, l)
	}

	return strings.Join(lines, " ")
}

// titleCase capitalizes the first letter of each space- or hyphen-separated
// word and lowercases the rest, e.g. "VAN DER BERG" -> "Van Der Berg".
func titleCase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	up := true
	for _, r := range s {
		switch {
		case r == ' ' || r == '-':
			up = true
			b.WriteRune(r)
		case up && r >= 'a' && r <= 'z':
			b.WriteRune(r - ('a' - 'A'))
			up = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
