package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/depobrain/depobrain/internal/repository"
)

// Service produces XLSX bytes from persisted findings.
type Service struct {
	findings repository.FindingRepository
	logger   *slog.Logger
}

func NewService(findings repository.FindingRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{findings: findings, logger: logger}
}

// FindingsXLSX returns an XLSX workbook (as bytes) with every finding for
// the named documents, ordered by (document, page).
func (s *Service) FindingsXLSX(ctx context.Context, documentNames []string) ([]byte, error) {
	start := time.Now()

	rows, err := s.findings.ListByDocuments(ctx, documentNames)
	if err != nil {
		return nil, fmt.Errorf("query findings: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Findings"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Document",
		"Page",
		"Issue Type",
		"Risk",
		"Quoted Testimony",
		"Legal Relevance",
		"Source Link",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, fd := range rows {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, fd.Filename)
		write(2, fd.Page)
		write(3, fd.IssueType)
		write(4, fd.RiskLevel)
		write(5, truncate(fd.QuotedText, 400))
		write(6, truncate(fd.LegalRelevance, 200))
		write(7, fd.PDFLink)
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 32) // document
	_ = f.SetColWidth(sheet, "B", "B", 8)  // page
	_ = f.SetColWidth(sheet, "C", "C", 24) // issue type
	_ = f.SetColWidth(sheet, "D", "D", 10) // risk
	_ = f.SetColWidth(sheet, "E", "E", 72) // quote
	_ = f.SetColWidth(sheet, "F", "F", 48) // relevance
	_ = f.SetColWidth(sheet, "G", "G", 60) // link

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"documents", len(documentNames),
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
