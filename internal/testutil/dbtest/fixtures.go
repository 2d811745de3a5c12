//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"poorito-booking/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

const TestPassword = "password123"

var (
	hashOnce     sync.Once
	testPassHash string
	testHashErr  error
)

func passwordHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		testPassHash, testHashErr = password.HashPassword(TestPassword)
	})
	require.NoError(t, testHashErr)
	return testPassHash
}

// CreateTestUser inserts an active user whose password is TestPassword.
func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()
	tag, err := db.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, role, display_name, is_active)
		 VALUES ($1, $2, $3, $4, $5, true)
		 ON CONFLICT (email) DO NOTHING`,
		userID, email, passwordHash(t), role, strings.Split(email, "@")[0])
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		require.NoError(t, db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID))
	}
	return userID
}

type MountainFixture struct {
	Name                  string
	TripDuration          int
	BasePricePerHeadCents int64
	JoinerCapacity        int
	ExclusivePriceCents   *int64
}

func CreateTestMountain(t *testing.T, db DBLike, f MountainFixture) uuid.UUID {
	t.Helper()

	if f.Name == "" {
		f.Name = "Mt. Test " + uuid.NewString()[:8]
	}
	if f.TripDuration == 0 {
		f.TripDuration = 1
	}
	if f.JoinerCapacity == 0 {
		f.JoinerCapacity = 10
	}
	if f.BasePricePerHeadCents == 0 {
		f.BasePricePerHeadCents = 150000
	}

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO mountains (id, name, location, elevation, difficulty, trip_duration,
		                        base_price_per_head_cents, joiner_capacity, exclusive_price_cents,
		                        is_joiner_available, is_exclusive_available)
		 VALUES ($1, $2, 'Test Province', 1000, 'Easy', $3, $4, $5, $6, true, $7)`,
		id, f.Name, f.TripDuration, f.BasePricePerHeadCents, f.JoinerCapacity,
		f.ExclusivePriceCents, f.ExclusivePriceCents != nil)
	require.NoError(t, err)
	return id
}

func CountBookings(t *testing.T, db DBLike, mountainID uuid.UUID, status string) int {
	t.Helper()
	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM bookings WHERE mountain_id = $1 AND status = $2",
		mountainID, status).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates every public table.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
