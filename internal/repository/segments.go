package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/depobrain/depobrain/internal/common"
)

// Segment is one stored chunk of normalized transcript text.
type Segment struct {
	ID           string
	DocUID       string
	Filename     string
	Path         string
	Page         int
	SegmentIndex int
	CharCount    int
	HasOCR       bool
	CollectionID string
	Text         string
	PDFLink      string
}

// DocStats summarizes one ingested document.
type DocStats struct {
	Pages    int
	Segments int
}

type SegmentRepository interface {
	// InsertBatch stores segments, silently skipping identifiers that
	// already exist, and returns the number actually written.
	InsertBatch(ctx context.Context, segs []Segment) (int, error)
	// ExistingIDs returns the set of segment identifiers already stored
	// for a document.
	ExistingIDs(ctx context.Context, filename string) (map[string]struct{}, error)
	// ListPending returns a document's segments with no committed
	// extraction checkpoint, in (page, segment_index) order.
	ListPending(ctx context.Context, filename string) ([]Segment, error)
	// ListDocuments returns the distinct ingested document names.
	ListDocuments(ctx context.Context) ([]string, error)
	// DocumentStats returns page and segment counts per document.
	DocumentStats(ctx context.Context) (map[string]DocStats, error)
}

type segmentRepo struct {
	db  *sql.DB
	log *slog.Logger
}

func NewSegmentRepository(db *sql.DB, log *slog.Logger) SegmentRepository {
	if log == nil {
		log = slog.Default()
	}
	return &segmentRepo{db: db, log: log}
}

func (r *segmentRepo) InsertBatch(ctx context.Context, segs []Segment) (int, error) {
	if len(segs) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, common.NewAppError("DB", "begin insert batch", common.ErrPersistence)
	}
	defer func() { _ = tx.Rollback() }()

	const q = `INSERT INTO segments
		(segment_id, doc_uid, filename, path, page, segment_index, char_count, has_ocr, collection_id, content, pdf_link)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (segment_id) DO NOTHING`

	inserted := 0
	for _, s := range segs {
		res, err := tx.ExecContext(ctx, q,
			s.ID, s.DocUID, s.Filename, s.Path, s.Page, s.SegmentIndex,
			s.CharCount, boolToInt(s.HasOCR), s.CollectionID, s.Text, s.PDFLink)
		if err != nil {
			r.log.Error("segment insert failed", "segment_id", s.ID, "error", err)
			return 0, common.NewAppError("DB", "insert segment "+s.ID, common.ErrPersistence)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, common.NewAppError("DB", "commit insert batch", common.ErrPersistence)
	}
	r.log.Info("segments stored", "requested", len(segs), "inserted", inserted)
	return inserted, nil
}

func (r *segmentRepo) ExistingIDs(ctx context.Context, filename string) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT segment_id FROM segments WHERE filename = $1`, filename)
	if err != nil {
		return nil, common.NewAppError("DB", "query existing ids", common.ErrPersistence)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, common.NewAppError("DB", "scan existing id", common.ErrPersistence)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewAppError("DB", "iterate existing ids", common.ErrPersistence)
	}
	return ids, nil
}

func (r *segmentRepo) ListPending(ctx context.Context, filename string) ([]Segment, error) {
	const q = `SELECT s.segment_id, s.doc_uid, s.filename, s.path, s.page, s.segment_index,
			s.char_count, s.has_ocr, s.collection_id, s.content, s.pdf_link
		FROM segments s
		LEFT JOIN extraction_progress p ON s.segment_id = p.segment_id
		WHERE s.filename = $1 AND (p.extracted IS NULL OR p.extracted = 0)
		ORDER BY s.page, s.segment_index`

	rows, err := r.db.QueryContext(ctx, q, filename)
	if err != nil {
		return nil, common.NewAppError("DB", "query pending segments", common.ErrPersistence)
	}
	defer rows.Close()

	var segs []Segment
	for rows.Next() {
		var s Segment
		var hasOCR int
		if err := rows.Scan(&s.ID, &s.DocUID, &s.Filename, &s.Path, &s.Page, &s.SegmentIndex,
			&s.CharCount, &hasOCR, &s.CollectionID, &s.Text, &s.PDFLink); err != nil {
			return nil, common.NewAppError("DB", "scan pending segment", common.ErrPersistence)
		}
		s.HasOCR = hasOCR != 0
		segs = append(segs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewAppError("DB", "iterate pending segments", common.ErrPersistence)
	}
	return segs, nil
}

func (r *segmentRepo) ListDocuments(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT filename FROM segments ORDER BY filename ASC`)
	if err != nil {
		return nil, common.NewAppError("DB", "query documents", common.ErrPersistence)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, common.NewAppError("DB", "scan document name", common.ErrPersistence)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewAppError("DB", "iterate documents", common.ErrPersistence)
	}
	return names, nil
}

func (r *segmentRepo) DocumentStats(ctx context.Context) (map[string]DocStats, error) {
	const q = `SELECT filename, COUNT(DISTINCT page) AS page_count, COUNT(*) AS segment_count
		FROM segments GROUP BY filename ORDER BY filename ASC`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, common.NewAppError("DB", "query document stats", common.ErrPersistence)
	}
	defer rows.Close()

	stats := make(map[string]DocStats)
	for rows.Next() {
		var name string
		var ds DocStats
		if err := rows.Scan(&name, &ds.Pages, &ds.Segments); err != nil {
			return nil, common.NewAppError("DB", "scan document stats", common.ErrPersistence)
		}
		stats[name] = ds
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewAppError("DB", "iterate document stats", common.ErrPersistence)
	}
	return stats, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
