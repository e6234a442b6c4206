package pdf

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/depobrain/depobrain/internal/common"
	"github.com/depobrain/depobrain/internal/transcript"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned pages, default 200
	Workers       int    // OCR fallback concurrency, default 4
}

// Page is one physical page of a source document after normalization.
// HasOCR is true only for pages whose text layer was empty and that took
// the rasterization path.
type Page struct {
	Number int
	Text   string
	HasOCR bool
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 200
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// ExtractPages pulls the embedded text layer of every page, rasterizes and
// OCRs pages whose layer is blank, normalizes the result, and returns the
// surviving pages in page order. A failed page is logged and skipped; it
// never aborts the rest of the document.
func (e *Extractor) ExtractPages(ctx context.Context, path string) ([]Page, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		e.logger.Error("pdftotext failed", "path", path, "stderr", string(errb), "error", err)
		return nil, common.NewAppError("PDF_TEXT", fmt.Sprintf("pdftotext %s", path), common.ErrExtractionInput)
	}

	// form feeds separate pages; a trailing \f leaves one empty element
	raw := strings.Split(string(out), "\f")
	if n := len(raw); n > 1 && raw[n-1] == "" {
		raw = raw[:n-1]
	}

	texts := make([]string, len(raw))
	ocred := make([]bool, len(raw))
	copy(texts, raw)

	// rasterize blank pages concurrently, bounded
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i := range texts {
		if strings.TrimSpace(texts[i]) != "" {
			continue
		}
		i := i
		g.Go(func() error {
			txt, err := e.ocrPage(gctx, path, i+1)
			if err != nil {
				e.logger.Warn("page ocr failed; skipping page",
					"path", path, "page", i+1, "error", err)
				texts[i] = ""
				return nil
			}
			texts[i] = txt
			ocred[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pages := make([]Page, 0, len(texts))
	for i, t := range texts {
		clean := transcript.Normalize(t)
		if clean == "" {
			continue
		}
		pages = append(pages, Page{Number: i + 1, Text: clean, HasOCR: ocred[i]})
	}
	return pages, nil
}

// ocrPage renders a single page to PNG and routes it through tesseract.
func (e *Extractor) ocrPage(ctx context.Context, path string, page int) (string, error) {
	tmpDir, err := os.MkdirTemp("", "db-ocr-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", rmErr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -f N -l N -r <dpi> -png <in.pdf> <tmp/page>
	pageArg := fmt.Sprintf("%d", page)
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-f", pageArg, "-l", pageArg, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm: %s: %w", strings.TrimSpace(string(errb)), err)
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm produced no image for page %d", page)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, matches[0], "stdout", "-l", e.cfg.TesseractLang)
	if err != nil {
		return "", fmt.Errorf("tesseract: %s: %w", strings.TrimSpace(string(errb)), err)
	}
	return string(out), nil
}
