package migration

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
)

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("Starting database migrations")

	for _, m := range migrations {
		if err := m.Up(ctx, pool); err != nil {
			slog.Error("Migration failed", "name", m.Name, "error", err)
			return err
		}
		slog.Info("Migration completed", "name", m.Name)
	}

	slog.Info("All migrations completed successfully")
	return nil
}

// Migration represents a database migration
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

var migrations = []Migration{
	{Name: "create_resumes", Up: execStatement(createResumes)},
	{Name: "add_cover_letter_to_resumes", Up: addColumn("cover_letter", `ALTER TABLE resumes ADD COLUMN IF NOT EXISTS cover_letter TEXT NOT NULL DEFAULT ''`)},
	{Name: "index_resumes_user", Up: execStatement(`CREATE INDEX IF NOT EXISTS resumes_user_updated_idx ON resumes (user_id, updated_at DESC)`)},
}

const createResumes = `
	CREATE TABLE IF NOT EXISTS resumes (
		id                UUID PRIMARY KEY,
		user_id           UUID NOT NULL,
		kind              TEXT NOT NULL CHECK (kind IN ('parsed', 'tailored')),
		record            JSONB NOT NULL,
		warnings          JSONB NOT NULL DEFAULT '[]'::jsonb,
		needs_review      BOOLEAN NOT NULL DEFAULT false,
		job_description   TEXT NOT NULL DEFAULT '',
		selected_keywords JSONB NOT NULL DEFAULT '[]'::jsonb,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	);
`

func execStatement(query string) func(ctx context.Context, pool *pgxpool.Pool) error {
	return func(ctx context.Context, pool *pgxpool.Pool) error {
		_, err := pool.Exec(ctx, query)
		return err
	}
}

// addColumn adds a column to resumes if it doesn't exist
func addColumn(column, query string) func(ctx context.Context, pool *pgxpool.Pool) error {
	return func(ctx context.Context, pool *pgxpool.Pool) error {
		if _, err := pool.Exec(ctx, query); err != nil {
			// Log the error but don't fail - the column may already exist
			slog.Warn("Error adding column (may already exist)", "column", column, "error", err)
			return nil
		}
		slog.Info("Successfully added column to resumes table", "column", column)
		return nil
	}
}
