package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// EnsureSchema aplica, en orden, los scripts embebidos. Son idempotentes (IF NOT EXISTS),
// así que se ejecutan en cada arranque antes del primer uso.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("listar migraciones: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlText, err := migrationsFS.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("leer %s: %w", f, err)
		}
		if _, err := pool.Exec(ctx, string(sqlText)); err != nil {
			return nil, fmt.Errorf("aplicar %s: %w", f, err)
		}
	}
	return files, nil
}
