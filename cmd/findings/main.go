package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/depobrain/depobrain/internal/common"
	"github.com/depobrain/depobrain/internal/export"
	repo "github.com/depobrain/depobrain/internal/repository"
)

func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		inmem = flag.Bool("inmem", false, "use in-memory SQLite database")
		files = flag.String("files", "", "comma-separated document names (defaults to all ingested documents)")
		out   = flag.String("out", "", "write findings to this XLSX file instead of stdout")
	)
	flag.Parse()

	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if !*inmem && cfg.Database.DSN == "" && cfg.Database.SQLitePath == "" {
		printError("Error: DB_URL or SQLITE_PATH is required (or pass --inmem)\n")
		os.Exit(1)
	}

	ctx := context.Background()

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
	findings := repo.NewFindingRepository(db, logger)

	var names []string
	if *files != "" {
		for _, name := range strings.Split(*files, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	} else {
		names, err = segments.ListDocuments(ctx)
		if err != nil {
			logger.Error("failed to list documents", "error", err)
			os.Exit(1)
		}
	}
	if len(names) == 0 {
		fmt.Println("No documents ingested.")
		return
	}

	if *out != "" {
		svc := export.NewService(findings, logger)
		data, err := svc.FindingsXLSX(ctx, names)
		if err != nil {
			logger.Error("failed to export findings", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, data, 0644); err != nil {
			logger.Error("failed to write output file", "path", *out, "error", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote findings for %d document(s) to %s\n", len(names), *out)
		return
	}

	stats, err := segments.DocumentStats(ctx)
	if err != nil {
		logger.Error("failed to load document stats", "error", err)
		os.Exit(1)
	}
	rows, err := findings.ListByDocuments(ctx, names)
	if err != nil {
		logger.Error("failed to list findings", "error", err)
		os.Exit(1)
	}

	perDoc := make(map[string]int, len(names))
	for _, f := range rows {
		perDoc[f.Filename]++
	}
	for _, name := range names {
		st := stats[name]
		fmt.Printf("%s: %d pages, %d segments, %d findings\n", name, st.Pages, st.Segments, perDoc[name])
	}
	fmt.Println()

	for _, f := range rows {
		fmt.Printf("[%s] %s p.%d (%s)\n", strings.ToUpper(f.RiskLevel), f.Filename, f.Page, f.IssueType)
		fmt.Printf("  %q\n", f.QuotedText)
		fmt.Printf("  %s\n", f.LegalRelevance)
	}
	if len(rows) == 0 {
		fmt.Println("No findings recorded.")
	}
}
