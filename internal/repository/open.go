package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/depobrain/depobrain/internal/common"
)

// OpenFromConfig opens whichever store the configuration selects: the
// embedded sqlite store when inmem is forced or SQLITE_PATH is set,
// otherwise postgres. The pool is nil for sqlite.
func OpenFromConfig(ctx context.Context, cfg common.DatabaseConfig, inmem bool, logger *slog.Logger) (*sql.DB, *pgxpool.Pool, error) {
	if inmem {
		db, err := OpenSQLite(":memory:", logger)
		return db, nil, err
	}
	if cfg.SQLitePath != "" {
		db, err := OpenSQLite(cfg.SQLitePath, logger)
		return db, nil, err
	}
	return Open(ctx, Config{
		DSN:              cfg.DSN,
		MaxConns:         cfg.MaxConns,
		MinConns:         cfg.MinConns,
		MaxConnLifetime:  cfg.MaxConnLifetime,
		MaxConnIdleTime:  cfg.MaxConnIdleTime,
		DialTimeout:      cfg.DialTimeout,
		StatementTimeout: cfg.StatementTimeout,
	}, logger)
}
