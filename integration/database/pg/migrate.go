package pg

import (
	"context"
	"embed"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"

	"github.com/armonaut/armonaut/core/logger"
)

//go:embed migrations/*.sql
var embedded embed.FS

// Migrations returns the SQL migrations shipped with this package.
func Migrations() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// migrationsFS picks the directory from cfg, falling back to the embedded set.
func migrationsFS(cfg Config) (fs.FS, error) {
	if cfg.MigrationsPath == "" {
		return Migrations(), nil
	}
	info, err := os.Stat(cfg.MigrationsPath)
	if err != nil || !info.IsDir() {
		return nil, errors.Join(ErrMigrationsDirNotFound, err)
	}
	return os.DirFS(cfg.MigrationsPath), nil
}

// Migrate applies pending goose migrations through a database/sql handle
// borrowed from the pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg Config, log *slog.Logger) error {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	fsys, err := migrationsFS(cfg)
	if err != nil {
		return err
	}

	table := cfg.MigrationsTable
	if table == "" {
		table = "schema_migrations"
	}
	store, err := database.NewStore(database.DialectPostgres, table)
	if err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider("", db, fsys, goose.WithStore(store))
	if err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	results, err := provider.Up(ctx)
	for _, r := range results {
		if r.Error != nil {
			continue
		}
		log.InfoContext(ctx, "migration applied",
			logger.Component("pg"),
			slog.Int64("version", r.Source.Version),
			slog.String("file", r.Source.Path),
			logger.Latency(r.Duration),
		)
	}
	if err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	if len(results) == 0 {
		log.DebugContext(ctx, "no pending migrations", logger.Component("pg"))
	}
	return nil
}
