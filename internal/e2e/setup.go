//go:build e2e

// Package e2e runs the fx application against a PostgreSQL container.
package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"poorito-booking/cmd/bootstrap"
	"poorito-booking/cmd/bootstrap/components"
	"poorito-booking/internal/infra/db"
	"poorito-booking/internal/pkg/config"
	"poorito-booking/internal/testutil/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	pgImage    = "postgres:17"
	pgUser     = "test"
	pgPassword = "testpass"
	pgPort     = nat.Port("5432/tcp")
)

// The container is shared by every suite in the test binary; each suite gets
// its own database inside it.
var (
	pgOnce      sync.Once
	pgContainer testcontainers.Container
	pgStartErr  error
)

type pgEndpoint struct {
	host string
	port nat.Port
}

func (e pgEndpoint) dsn(dbName string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", pgUser, pgPassword, e.host, e.port.Port(), dbName)
}

func setupE2EEnvironment(t *testing.T) (*pgxpool.Pool, *gin.Engine, config.Config) {
	gin.SetMode(gin.TestMode)

	endpoint := postgresEndpoint(t)
	dbConfig := createSuiteDatabase(t, endpoint)

	pool, cleanup, err := db.Connect(context.Background(), dbConfig)
	require.NoError(t, err, "database connection failed")
	t.Cleanup(cleanup)

	migrateSuiteDatabase(t, pool)

	router, cfg, app := buildE2EApp(t, pool, dbConfig)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("Failed to stop fx app", "error", err.Error())
		}
	})

	return pool, router, cfg
}

func postgresEndpoint(t *testing.T) pgEndpoint {
	pgOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()
		pgContainer, pgStartErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: postgresRequest(),
			Started:          true,
		})
	})
	require.NoError(t, pgStartErr, "failed to start PostgreSQL container")

	ctx := context.Background()
	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, pgPort)
	require.NoError(t, err)
	return pgEndpoint{host: host, port: port}
}

// postgresRequest trades durability for speed: data lives on tmpfs and
// fsync is off.
func postgresRequest() testcontainers.ContainerRequest {
	return testcontainers.ContainerRequest{
		Image:        pgImage,
		ExposedPorts: []string{string(pgPort)},
		Env: map[string]string{
			"POSTGRES_USER":     pgUser,
			"POSTGRES_PASSWORD": pgPassword,
			"POSTGRES_DB":       "postgres",
		},
		Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=512m"},
		Cmd: []string{
			"postgres",
			"-c", "fsync=off",
			"-c", "full_page_writes=off",
			"-c", "synchronous_commit=off",
			"-c", "max_connections=200",
		},
		WaitingFor: wait.ForSQL(pgPort, "pgx", func(host string, port nat.Port) string {
			return pgEndpoint{host: host, port: port}.dsn("postgres")
		}).WithStartupTimeout(time.Minute),
		Labels: map[string]string{"purpose": "poorito-e2e"},
	}
}

func createSuiteDatabase(t *testing.T, endpoint pgEndpoint) config.DBConfig {
	dbName := "poorito_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	adminDSN := endpoint.dsn("postgres")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	admin, err := pgxpool.New(ctx, adminDSN)
	require.NoError(t, err, "admin connection failed")
	defer admin.Close()

	// CREATE DATABASE can race on the template lock when suites start together.
	require.Eventually(t, func() bool {
		_, err := admin.Exec(ctx, "CREATE DATABASE "+dbName)
		if err != nil {
			slog.Warn("Retrying CREATE DATABASE", "database", dbName, "error", err.Error())
		}
		return err == nil
	}, 10*time.Second, 500*time.Millisecond, "failed to create test database")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		admin, err := pgxpool.New(ctx, adminDSN)
		if err != nil {
			slog.Warn("Cleanup connection failed", "database", dbName, "error", err.Error())
			return
		}
		defer admin.Close()
		if _, err := admin.Exec(ctx, "DROP DATABASE IF EXISTS "+dbName+" WITH (FORCE)"); err != nil {
			slog.Warn("Failed to drop test database", "database", dbName, "error", err.Error())
		}
	})

	return config.DBConfig{
		Host:     endpoint.host,
		Port:     endpoint.port.Port(),
		User:     pgUser,
		Password: pgPassword,
		DBName:   dbName,
		SSLMode:  "disable",
		TimeZone: "Asia/Manila",
		MaxConns: 40,
	}
}

// migrateSuiteDatabase applies the schema only. Suites create their own
// mountains, so seed files are skipped.
func migrateSuiteDatabase(t *testing.T, pool *pgxpool.Pool) {
	dir, err := db.FindMigrationsDir(".")
	require.NoError(t, err)
	files, err := db.MigrationFiles(dir, false)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, db.ApplyMigrations(ctx, pool, files), "migration failed")
}

// buildE2EApp wires the production modules around the test pool. Redis and
// the background worker stay off so tests observe the outbox untouched.
func buildE2EApp(t *testing.T, pool *pgxpool.Pool, dbConfig config.DBConfig) (*gin.Engine, config.Config, *fx.App) {
	var router *gin.Engine
	var cfg config.Config

	app := fx.New(
		fx.Provide(
			func() *pgxpool.Pool { return pool },
			func() config.Config { return createTestConfig(dbConfig) },
			func() *redis.Client { return nil },
			func() *gin.Engine { return gin.New() },
		),
		bootstrap.LoggerModule,
		bootstrap.JWTModule,
		components.PersistenceModule,
		components.UseCaseModule,
		components.HandlerModule,

		fx.Populate(&router, &cfg),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "failed to start fx app")
	require.NotNil(t, router)

	return router, cfg, app
}

func createTestConfig(dbConfig config.DBConfig) config.Config {
	cfg := config.NewTestConfig()
	cfg.DB = dbConfig
	return cfg
}

// SharedSuite gives every e2e suite its own database and router.
type SharedSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *pgxpool.Pool
	Config config.Config
}

func (s *SharedSuite) SetupSuite() {
	pool, router, cfg := setupE2EEnvironment(s.T())
	s.DB = pool
	s.Router = router
	s.Config = cfg
}

func (s *SharedSuite) SetupTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "failed to reset database")
}
