package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_QuestionAnswerLines(t *testing.T) {
	raw := "15   Q.   Did you review the report?\n16   A.   Yes, in March 2019."
	got := Normalize(raw)
	assert.Equal(t, "[Q] Did you review the report? [A] Yes, in March 2019.", got)
}

func TestNormalize_DropsPageFurniture(t *testing.T) {
	raw := "Page 12 of 300\nQ. Where were you employed?\n12 / 300\n47"
	got := Normalize(raw)
	assert.Equal(t, "[Q] Where were you employed?", got)
}

func TestNormalize_SpeakerPrefix(t *testing.T) {
	got := Normalize("MR. VAN DER BERG: Objection, form.")
	assert.Equal(t, "[SPEAKER: Van Der Berg] Objection, form.", got)

	got = Normalize("3  MS. CHEN: You may answer.")
	assert.Equal(t, "[SPEAKER: Chen] You may answer.", got)
}

func TestNormalize_LineNumbersStripped(t *testing.T) {
	raw := "1  The witness was sworn.\n2  Counsel appeared for the defendant."
	got := Normalize(raw)
	assert.Equal(t, "The witness was sworn. Counsel appeared for the defendant.", got)
}

func TestNormalize_EmptyAndWhitespace(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   \n\n  \t\n"))
	assert.Equal(t, "", Normalize("12\n345\nPage 7"))
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := "Page 3 of 12\n7  Q. Were you exposed to the solvent?\n8  A. Daily, for six years.\n9  MR. HALE: Objection.\n12 / 300"
	once := Normalize(raw)
	twice := Normalize(once)
	assert.Equal(t, once, twice)
}
