package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depobrain/depobrain/internal/common"
)

// fakeRunner stands in for the poppler/tesseract binaries. The pdftoppm
// branch writes a real PNG placeholder because the extractor globs the
// temp directory for rendered pages.
type fakeRunner struct {
	textOut string
	textErr error
	ppmErr  error
	tessOut string
	tessErr error

	calls []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, name)
	switch name {
	case "pdftotext":
		return []byte(f.textOut), nil, f.textErr
	case "pdftoppm":
		if f.ppmErr != nil {
			return nil, []byte("rasterization failed"), f.ppmErr
		}
		prefix := args[len(args)-1]
		if err := os.WriteFile(prefix+"-1.png", []byte("png"), 0644); err != nil {
			return nil, nil, err
		}
		return nil, nil, nil
	case "tesseract":
		return []byte(f.tessOut), nil, f.tessErr
	}
	return nil, nil, fmt.Errorf("unexpected command %q", name)
}

func newTestExtractor(r Runner) *Extractor {
	e := NewExtractor(Config{}, nil)
	e.runner = r
	return e
}

func TestExtractPages_TextLayer(t *testing.T) {
	runner := &fakeRunner{
		textOut: "1  Q. Did you attend the training?\n2  A. Yes.\f3  The exhibit was marked.\f",
	}
	e := newTestExtractor(runner)

	pages, err := e.ExtractPages(context.Background(), "/corpus/depo.pdf")
	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.Equal(t, 1, pages[0].Number)
	assert.Equal(t, "[Q] Did you attend the training? [A] Yes.", pages[0].Text)
	assert.False(t, pages[0].HasOCR)

	assert.Equal(t, 2, pages[1].Number)
	assert.Equal(t, "The exhibit was marked.", pages[1].Text)
	assert.False(t, pages[1].HasOCR)

	assert.Equal(t, []string{"pdftotext"}, runner.calls)
}

func TestExtractPages_BlankPageTakesOCRPath(t *testing.T) {
	runner := &fakeRunner{
		textOut: "1  Q. Who signed the memo?\f   \n  \f5  The deposition concluded.",
		tessOut: "7  A. It was the plant manager.\n",
	}
	e := newTestExtractor(runner)

	pages, err := e.ExtractPages(context.Background(), "/corpus/depo.pdf")
	require.NoError(t, err)
	require.Len(t, pages, 3)

	assert.False(t, pages[0].HasOCR)
	assert.Equal(t, 2, pages[1].Number)
	assert.Equal(t, "[A] It was the plant manager.", pages[1].Text)
	assert.True(t, pages[1].HasOCR)
	assert.False(t, pages[2].HasOCR)

	assert.Contains(t, runner.calls, "pdftoppm")
	assert.Contains(t, runner.calls, "tesseract")
}

func TestExtractPages_OCRFailureSkipsPage(t *testing.T) {
	runner := &fakeRunner{
		textOut: "1  Q. Who signed the memo?\f\f5  The deposition concluded.",
		ppmErr:  errors.New("exit status 1"),
	}
	e := newTestExtractor(runner)

	pages, err := e.ExtractPages(context.Background(), "/corpus/depo.pdf")
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, 1, pages[0].Number)
	assert.Equal(t, 3, pages[1].Number)
}

func TestExtractPages_PdftotextFailure(t *testing.T) {
	runner := &fakeRunner{textErr: errors.New("exit status 99")}
	e := newTestExtractor(runner)

	_, err := e.ExtractPages(context.Background(), "/corpus/broken.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrExtractionInput))
}
