package db

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"poorito-booking/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is the subset of *pgxpool.Pool the migration runner needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// MigrationFiles lists dir/*.sql in name order. Files named *_seed_* are
// skipped unless seed is set.
func MigrationFiles(dir string, seed bool) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, errs.Wrap(err, "failed to list migrations")
	}
	slices.Sort(files)

	files = slices.DeleteFunc(files, func(f string) bool {
		return !seed && isSeed(f)
	})
	if len(files) == 0 {
		return nil, errs.Newf("no migration files in %s", dir)
	}
	return files, nil
}

func isSeed(file string) bool {
	matched, _ := filepath.Match("*_seed_*", filepath.Base(file))
	return matched
}

// ApplyMigrations executes each file as one multi-statement batch, stopping
// at the first failure.
func ApplyMigrations(ctx context.Context, db Execer, files []string) error {
	for _, file := range files {
		sqlContent, err := os.ReadFile(file)
		if err != nil {
			return errs.Wrapf(err, "failed to read %s", file)
		}
		if _, err := db.Exec(ctx, string(sqlContent)); err != nil {
			return errs.Wrapf(err, "failed to execute %s", file)
		}
		slog.Info("Migration applied", "file", filepath.Base(file))
	}
	return nil
}

// FindMigrationsDir walks up from start until it finds a migrations
// directory. Tests run from their package directory and use it to locate
// the schema.
func FindMigrationsDir(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", errs.Wrap(err, "failed to resolve start directory")
	}
	for {
		candidate := filepath.Join(dir, "migrations")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errs.Newf("no migrations directory above %s", start)
		}
		dir = parent
	}
}
