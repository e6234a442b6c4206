package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/depobrain/depobrain/internal/common"
	"github.com/depobrain/depobrain/internal/llm"
	"github.com/depobrain/depobrain/internal/repository"
)

// Result reports one extraction run over a document.
type Result struct {
	Total    int // segments considered (pending at run start)
	Findings int // findings persisted
	Failed   int // segments left pending for the next run
}

// Coordinator walks a document's unextracted segments, sends each through
// the reasoning service, and commits findings plus the checkpoint in one
// atomic unit per segment. Service and parse failures are contained to the
// segment; persistence failures abort the run.
type Coordinator struct {
	logger    *slog.Logger
	segments  repository.SegmentRepository
	findings  repository.FindingRepository
	extractor llm.IssueExtractor
}

func NewCoordinator(
	logger *slog.Logger,
	segments repository.SegmentRepository,
	findings repository.FindingRepository,
	extractor llm.IssueExtractor,
) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		logger:    logger,
		segments:  segments,
		findings:  findings,
		extractor: extractor,
	}
}

// ExtractIssues processes every pending segment of the named document in
// ascending (page, segment_index) order. A failed segment gets no progress
// row, so the next invocation naturally retries it.
func (c *Coordinator) ExtractIssues(ctx context.Context, documentName string) (Result, error) {
	pending, err := c.segments.ListPending(ctx, documentName)
	if err != nil {
		return Result{}, common.WrapError(err, "load pending segments")
	}

	res := Result{Total: len(pending)}
	c.logger.Info("extraction started",
		"document", documentName, "pending_segments", len(pending))

	for _, seg := range pending {
		if err := ctx.Err(); err != nil {
			// interrupted between segments: committed work stays committed,
			// the rest stays pending
			return res, err
		}

		start := time.Now()
		issues, _, err := c.extractor.ExtractIssues(ctx, seg.Text)
		if err != nil {
			res.Failed++
			c.logger.Warn("segment extraction failed; left pending",
				"segment_id", seg.ID, "page", seg.Page, "error", err)
			continue
		}

		batch := make([]repository.Finding, 0, len(issues))
		for _, it := range issues {
			batch = append(batch, repository.Finding{
				ID:             uuid.New().String(),
				SegmentID:      seg.ID,
				Filename:       seg.Filename,
				Page:           seg.Page,
				IssueType:      it.IssueType,
				QuotedText:     it.QuotedText,
				LegalRelevance: it.LegalRelevance,
				RiskLevel:      it.RiskLevel,
				PDFLink:        seg.PDFLink,
			})
		}

		if err := c.findings.SaveExtraction(ctx, seg, batch); err != nil {
			// checkpoint integrity is gone; abort rather than guess
			return res, common.WrapError(err, "commit segment "+seg.ID)
		}
		res.Findings += len(batch)

		c.logger.Debug("segment extracted",
			"segment_id", seg.ID,
			"page", seg.Page,
			"findings", len(batch),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}

	c.logger.Info("extraction finished",
		"document", documentName,
		"segments", res.Total,
		"findings", res.Findings,
		"failed", res.Failed,
	)
	return res, nil
}
