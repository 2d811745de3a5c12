// Command migrate applies the database schema.
//
// The default sql mode executes migrations/*.sql in name order with pgx. The
// atlas mode hands the schema file to the atlas CLI for a declarative apply.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"poorito-booking/internal/infra/db"
	"poorito-booking/internal/pkg/config"
	"poorito-booking/internal/pkg/errs"

	"ariga.io/atlas-go-sdk/atlasexec"
)

func main() {
	mode := flag.String("mode", "sql", "migration mode: sql or atlas")
	dir := flag.String("dir", "migrations", "directory holding the migration files")
	seed := flag.Bool("seed", false, "also run seed files (names containing _seed_)")
	devURL := flag.String("dev-url", "docker://postgres/17/dev", "atlas dev database URL")
	dryRun := flag.Bool("dry-run", false, "atlas: print the plan without applying it")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch *mode {
	case "sql":
		err = runSQL(ctx, cfg.DB, *dir, *seed)
	case "atlas":
		err = runAtlas(ctx, cfg.DB, *dir, *devURL, *dryRun)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		slog.Error("migration failed", "mode", *mode, "error", err)
		os.Exit(1)
	}
	slog.Info("migration finished", "mode", *mode)
}

func runSQL(ctx context.Context, dbCfg config.DBConfig, dir string, seed bool) error {
	files, err := db.MigrationFiles(dir, seed)
	if err != nil {
		return err
	}

	pool, cleanup, err := db.Connect(ctx, dbCfg)
	if err != nil {
		return err
	}
	defer cleanup()

	return db.ApplyMigrations(ctx, pool, files)
}

func runAtlas(ctx context.Context, dbCfg config.DBConfig, dir, devURL string, dryRun bool) error {
	workdir, err := atlasexec.NewWorkingDir(
		atlasexec.WithMigrations(os.DirFS(dir)),
	)
	if err != nil {
		return errs.Wrap(err, "failed to prepare atlas working dir")
	}
	defer workdir.Close()

	client, err := atlasexec.NewClient(workdir.Path(), "atlas")
	if err != nil {
		return errs.Wrap(err, "failed to create atlas client")
	}

	res, err := client.SchemaApply(ctx, &atlasexec.SchemaApplyParams{
		URL:         dbCfg.BuildDSN(),
		To:          "file://migrations/001_initial_schema.sql",
		DevURL:      devURL,
		DryRun:      dryRun,
		AutoApprove: true,
	})
	if err != nil {
		return errs.Wrap(err, "atlas schema apply failed")
	}

	slog.Info("atlas schema apply",
		"applied", len(res.Changes.Applied),
		"pending", len(res.Changes.Pending),
		"dry_run", dryRun,
	)
	return nil
}
