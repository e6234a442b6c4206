package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"

	"github.com/joho/godotenv"

	"github.com/depobrain/depobrain/internal/common"
	"github.com/depobrain/depobrain/internal/extract"
	"github.com/depobrain/depobrain/internal/llm/anthropic"
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
		file  = flag.String("file", "", "document name to extract issues from (required)")
	)
	flag.Parse()

	_ = godotenv.Load()

	if *file == "" {
		printError("Error: --file is required\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if cfg.LLM.APIKey == "" {
		printError("Error: ANTHROPIC_API_KEY is required\n")
		os.Exit(1)
	}
	if !*inmem && cfg.Database.DSN == "" && cfg.Database.SQLitePath == "" {
		printError("Error: DB_URL or SQLITE_PATH is required (or pass --inmem)\n")
		os.Exit(1)
	}

	// An interrupt stops between segments; completed segments stay
	// checkpointed and the next run picks up the remainder.
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
	findings := repo.NewFindingRepository(db, logger)

	names, err := segments.ListDocuments(ctx)
	if err != nil {
		logger.Error("failed to list documents", "error", err)
		os.Exit(1)
	}
	if !slices.Contains(names, *file) {
		printError("Error: document %q has not been ingested; known documents: %s\n",
			*file, strings.Join(names, ", "))
		os.Exit(1)
	}

	client := anthropic.NewClient(anthropic.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	logger.Info("reasoning client initialized", "model", cfg.LLM.Model)

	coordinator := extract.NewCoordinator(logger, segments, findings, client)

	result, err := coordinator.ExtractIssues(ctx, *file)
	if err != nil {
		logger.Error("extraction failed", "file", *file, "error", err)
		os.Exit(1)
	}

	fmt.Printf("Extraction complete for %s!\n", *file)
	fmt.Printf("- Segments processed: %d\n", result.Total)
	fmt.Printf("- Findings stored: %d\n", result.Findings)
	fmt.Printf("- Segments failed: %d\n", result.Failed)
	if result.Failed > 0 {
		os.Exit(1)
	}
}
