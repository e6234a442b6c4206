package repository

import (
	"context"
	"database/sql"

	"github.com/depobrain/depobrain/internal/common"
)

// DDL kept portable between postgres and sqlite: TEXT/INTEGER columns only,
// has_ocr and extracted stored as 0/1.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS segments (
		segment_id    TEXT PRIMARY KEY,
		doc_uid       TEXT NOT NULL,
		filename      TEXT NOT NULL,
		path          TEXT NOT NULL,
		page          INTEGER NOT NULL,
		segment_index INTEGER NOT NULL,
		char_count    INTEGER NOT NULL,
		has_ocr       INTEGER NOT NULL DEFAULT 0,
		collection_id TEXT NOT NULL,
		content       TEXT NOT NULL,
		pdf_link      TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS extraction_progress (
		segment_id TEXT PRIMARY KEY,
		filename   TEXT NOT NULL,
		extracted  INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS findings (
		finding_id      TEXT PRIMARY KEY,
		segment_id      TEXT NOT NULL,
		filename        TEXT NOT NULL,
		page            INTEGER NOT NULL,
		issue_type      TEXT NOT NULL,
		quoted_text     TEXT NOT NULL,
		legal_relevance TEXT NOT NULL,
		risk_level      TEXT NOT NULL,
		pdf_link        TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_segments_filename ON segments (filename, page, segment_index)`,
	`CREATE INDEX IF NOT EXISTS idx_findings_filename ON findings (filename, page)`,
}

// InitSchema creates the segment, progress and finding tables if missing.
func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return common.NewAppError("SCHEMA", "create tables", err)
		}
	}
	return nil
}
