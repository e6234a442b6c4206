package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/depobrain/depobrain/internal/common"
)

// Finding is one persisted extraction result.
type Finding struct {
	ID             string
	SegmentID      string
	Filename       string
	Page           int
	IssueType      string
	QuotedText     string
	LegalRelevance string
	RiskLevel      string
	PDFLink        string
}

type FindingRepository interface {
	// SaveExtraction commits a segment's findings and its extraction
	// checkpoint in one transaction. Interruption leaves the segment
	// fully pending or fully done, never in between.
	SaveExtraction(ctx context.Context, seg Segment, findings []Finding) error
	// ListByDocuments returns findings for the named documents ordered
	// by (filename, page).
	ListByDocuments(ctx context.Context, filenames []string) ([]Finding, error)
}

type findingRepo struct {
	db  *sql.DB
	log *slog.Logger
}

func NewFindingRepository(db *sql.DB, log *slog.Logger) FindingRepository {
	if log == nil {
		log = slog.Default()
	}
	return &findingRepo{db: db, log: log}
}

func (r *findingRepo) SaveExtraction(ctx context.Context, seg Segment, findings []Finding) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return common.NewAppError("DB", "begin extraction commit", common.ErrPersistence)
	}
	defer func() { _ = tx.Rollback() }()

	const insertFinding = `INSERT INTO findings
		(finding_id, segment_id, filename, page, issue_type, quoted_text, legal_relevance, risk_level, pdf_link)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for _, f := range findings {
		if _, err := tx.ExecContext(ctx, insertFinding,
			f.ID, f.SegmentID, f.Filename, f.Page, f.IssueType,
			f.QuotedText, f.LegalRelevance, f.RiskLevel, f.PDFLink); err != nil {
			r.log.Error("finding insert failed", "finding_id", f.ID, "segment_id", f.SegmentID, "error", err)
			return common.NewAppError("DB", "insert finding", common.ErrPersistence)
		}
	}

	// findings first, then the checkpoint, inside the same transaction
	const upsertProgress = `INSERT INTO extraction_progress (segment_id, filename, extracted)
		VALUES ($1, $2, 1)
		ON CONFLICT (segment_id) DO UPDATE SET extracted = 1`
	if _, err := tx.ExecContext(ctx, upsertProgress, seg.ID, seg.Filename); err != nil {
		r.log.Error("progress upsert failed", "segment_id", seg.ID, "error", err)
		return common.NewAppError("DB", "checkpoint segment", common.ErrPersistence)
	}

	if err := tx.Commit(); err != nil {
		return common.NewAppError("DB", "commit extraction", common.ErrPersistence)
	}
	r.log.Debug("extraction committed", "segment_id", seg.ID, "findings", len(findings))
	return nil
}

func (r *findingRepo) ListByDocuments(ctx context.Context, filenames []string) ([]Finding, error) {
	if len(filenames) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(filenames))
	args := make([]any, len(filenames))
	for i, n := range filenames {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = n
	}
	q := fmt.Sprintf(`SELECT finding_id, segment_id, filename, page, issue_type,
			quoted_text, legal_relevance, risk_level, pdf_link
		FROM findings
		WHERE filename IN (%s)
		ORDER BY filename, page`, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, common.NewAppError("DB", "query findings", common.ErrPersistence)
	}
	defer rows.Close()

	var out []Finding
	for rows.Next() {
		var f Finding
		if err := rows.Scan(&f.ID, &f.SegmentID, &f.Filename, &f.Page, &f.IssueType,
			&f.QuotedText, &f.LegalRelevance, &f.RiskLevel, &f.PDFLink); err != nil {
			return nil, common.NewAppError("DB", "scan finding", common.ErrPersistence)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewAppError("DB", "iterate findings", common.ErrPersistence)
	}
	return out, nil
}
