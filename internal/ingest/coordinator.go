package ingest

import (
	"context"
	"log/slog"

	"github.com/depobrain/depobrain/constants"
	"github.com/depobrain/depobrain/internal/common"
	"github.com/depobrain/depobrain/internal/pdf"
	"github.com/depobrain/depobrain/internal/repository"
	"github.com/depobrain/depobrain/internal/source"
	"github.com/depobrain/depobrain/internal/transcript"
)

// PageExtractor is the slice of pdf.Extractor the coordinator depends on.
type PageExtractor interface {
	ExtractPages(ctx context.Context, path string) ([]pdf.Page, error)
}

// Stats summarizes a multi-document ingest pass.
type Stats struct {
	Documents   int
	Ingested    int
	NewSegments int
	Failed      int
}

// Coordinator turns source documents into deduplicated stored segments:
// page extraction, chunking, identifier derivation, set-difference dedup,
// batch persist.
type Coordinator struct {
	logger       *slog.Logger
	pages        PageExtractor
	segments     repository.SegmentRepository
	src          source.Source
	chunkSize    int
	chunkOverlap int
	collectionID string
}

func NewCoordinator(
	logger *slog.Logger,
	pages PageExtractor,
	segments repository.SegmentRepository,
	src source.Source,
	chunking common.ChunkingConfig,
	collectionID string,
) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	if chunking.Size <= 0 {
		chunking.Size = 800
	}
	if chunking.Overlap < 0 {
		chunking.Overlap = 0
	}
	if collectionID == "" {
		collectionID = constants.DefaultCollectionID
	}
	return &Coordinator{
		logger:       logger,
		pages:        pages,
		segments:     segments,
		src:          src,
		chunkSize:    chunking.Size,
		chunkOverlap: chunking.Overlap,
		collectionID: collectionID,
	}
}

// IngestDocument processes one document and returns the number of newly
// stored segments. Re-running on an unchanged document is a no-op.
func (c *Coordinator) IngestDocument(ctx context.Context, doc source.Document) (int, error) {
	pages, err := c.pages.ExtractPages(ctx, doc.Path)
	if err != nil {
		return 0, common.WrapError(err, "extract pages for "+doc.Name)
	}

	uid := transcript.FileUID(doc.Path)
	link := c.src.ShareLink(doc)

	existing, err := c.segments.ExistingIDs(ctx, doc.Name)
	if err != nil {
		return 0, common.WrapError(err, "load existing segment ids")
	}

	var batch []repository.Segment
	total := 0
	for _, p := range pages {
		chunks := transcript.Chunk(p.Text, c.chunkSize, c.chunkOverlap)
		for idx, chunk := range chunks {
			total++
			id := transcript.SegmentID(uid, p.Number, idx)
			if _, ok := existing[id]; ok {
				continue
			}
			batch = append(batch, repository.Segment{
				ID:           id,
				DocUID:       uid,
				Filename:     doc.Name,
				Path:         doc.Path,
				Page:         p.Number,
				SegmentIndex: idx,
				CharCount:    len(chunk),
				HasOCR:       p.HasOCR,
				CollectionID: c.collectionID,
				Text:         chunk,
				PDFLink:      link,
			})
		}
	}

	inserted, err := c.segments.InsertBatch(ctx, batch)
	if err != nil {
		return 0, common.WrapError(err, "persist segments for "+doc.Name)
	}

	c.logger.Info("document ingested",
		"document", doc.Name,
		"pages", len(pages),
		"segments", total,
		"new_segments", inserted,
	)
	return inserted, nil
}

// IngestAll lists the source and ingests every document, containing
// per-document failures so one unreadable transcript never aborts the
// corpus pass.
func (c *Coordinator) IngestAll(ctx context.Context) (Stats, error) {
	docs, err := c.src.List(ctx)
	if err != nil {
		return Stats{}, common.WrapError(err, "list source documents")
	}

	var stats Stats
	stats.Documents = len(docs)
	for _, doc := range docs {
		n, err := c.IngestDocument(ctx, doc)
		if err != nil {
			stats.Failed++
			c.logger.Error("document ingest failed", "document", doc.Name, "error", err)
			continue
		}
		stats.Ingested++
		stats.NewSegments += n
	}
	return stats, nil
}
