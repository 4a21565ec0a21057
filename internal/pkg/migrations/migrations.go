package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"storefront/pkg/logger"
)

//go:embed sql/*.sql
var embedMigrations embed.FS

// Up applies every pending migration embedded in the binary.
func Up(ctx context.Context, log logger.Logger, pool *pgxpool.Pool) error {
	fsys, err := fs.Sub(embedMigrations, "sql")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("failed to close migrations connection", logger.NewField("error", err))
		}
	}()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	for _, r := range results {
		log.With(
			logger.NewField("version", r.Source.Version),
			logger.NewField("path", r.Source.Path),
			logger.NewField("duration", r.Duration.String()),
		).Info("migration applied")
	}

	if len(results) == 0 {
		log.Info("database schema is up to date")
	}
	return nil
}
