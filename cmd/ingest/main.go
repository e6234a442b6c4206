package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/depobrain/depobrain/internal/common"
	"github.com/depobrain/depobrain/internal/ingest"
	"github.com/depobrain/depobrain/internal/pdf"
	repo "github.com/depobrain/depobrain/internal/repository"
	"github.com/depobrain/depobrain/internal/source"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		inmem      = flag.Bool("inmem", false, "use in-memory SQLite database")
		dir        = flag.String("dir", "", "directory of transcript PDFs to ingest")
		file       = flag.String("file", "", "single transcript PDF to ingest")
		collection = flag.String("collection", "", "collection id to tag segments with (defaults to COLLECTION_ID)")
	)
	flag.Parse()

	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *dir == "" {
		*dir = cfg.Source.RootDir
	}
	if *dir == "" && *file == "" {
		printError("Error: --dir, --file, or SOURCE_DIR is required\n")
		os.Exit(1)
	}
	if *collection == "" {
		*collection = cfg.Source.CollectionID
	}
	if !*inmem && cfg.Database.DSN == "" && cfg.Database.SQLitePath == "" {
		printError("Error: DB_URL or SQLITE_PATH is required (or pass --inmem)\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, pool, err := repo.OpenFromConfig(ctx, cfg.Database, *inmem, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer repo.Close(db, pool, logger)

	if err := repo.InitSchema(ctx, db); err != nil {
		logger.Error("failed to initialize schema", "error", err)
		os.Exit(1)
	}

	segments := repo.NewSegmentRepository(db, logger)

	extractor := pdf.NewExtractor(pdf.Config{
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		DPI:           cfg.OCR.DPI,
		Workers:       cfg.OCR.Workers,
	}, logger)

	root := *dir
	if root == "" {
		root = filepath.Dir(*file)
	}
	src := source.NewFSSource(root, logger)

	coordinator := ingest.NewCoordinator(logger, extractor, segments, src, cfg.Chunking, *collection)

	if *file != "" {
		path, err := filepath.Abs(*file)
		if err != nil {
			logger.Error("failed to resolve path", "file", *file, "error", err)
			os.Exit(1)
		}
		doc := source.Document{Name: filepath.Base(path), Path: path}
		inserted, err := coordinator.IngestDocument(ctx, doc)
		if err != nil {
			logger.Error("ingestion failed", "file", doc.Name, "error", err)
			os.Exit(1)
		}
		fmt.Printf("Ingested %s: %d new segments\n", doc.Name, inserted)
		return
	}

	stats, err := coordinator.IngestAll(ctx)
	if err != nil {
		logger.Error("ingestion failed", "dir", root, "error", err)
		os.Exit(1)
	}

	fmt.Printf("Ingestion complete!\n")
	fmt.Printf("- Documents found: %d\n", stats.Documents)
	fmt.Printf("- Documents ingested: %d\n", stats.Ingested)
	fmt.Printf("- New segments: %d\n", stats.NewSegments)
	fmt.Printf("- Failures: %d\n", stats.Failed)
	if stats.Failed > 0 {
		os.Exit(1)
	}
}
