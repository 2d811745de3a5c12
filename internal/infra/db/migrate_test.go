//go:build unit

package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMigrations(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT '"+name+"';"), 0o600))
	}
	return dir
}

func TestMigrationFiles(t *testing.T) {
	dir := writeMigrations(t, "002_seed_mountains.sql", "001_initial_schema.sql", "README.md")

	files, err := MigrationFiles(dir, false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "001_initial_schema.sql")}, files)

	files, err = MigrationFiles(dir, true)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "001_initial_schema.sql"),
		filepath.Join(dir, "002_seed_mountains.sql"),
	}, files)
}

func TestMigrationFiles_Empty(t *testing.T) {
	_, err := MigrationFiles(t.TempDir(), true)
	assert.ErrorContains(t, err, "no migration files")
}

func TestApplyMigrations(t *testing.T) {
	dir := writeMigrations(t, "001_a.sql", "002_b.sql")
	files, err := MigrationFiles(dir, false)
	require.NoError(t, err)

	t.Run("applies in order", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		mock.MatchExpectationsInOrder(true)
		mock.ExpectExec(`SELECT '001_a.sql'`).WillReturnResult(pgxmock.NewResult("SELECT", 1))
		mock.ExpectExec(`SELECT '002_b.sql'`).WillReturnResult(pgxmock.NewResult("SELECT", 1))

		require.NoError(t, ApplyMigrations(context.Background(), mock, files))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stops at the first failure", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		mock.ExpectExec(`SELECT '001_a.sql'`).WillReturnError(assert.AnError)

		err = ApplyMigrations(context.Background(), mock, files)

		assert.ErrorIs(t, err, assert.AnError)
		assert.ErrorContains(t, err, "001_a.sql")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFindMigrationsDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "migrations"), 0o755))
	nested := filepath.Join(root, "internal", "e2e", "booking")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	dir, err := FindMigrationsDir(nested)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "migrations"), dir)
}
