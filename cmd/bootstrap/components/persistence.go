package components

import (
	"poorito-booking/internal/infra/cache"
	"poorito-booking/internal/infra/query"
	"poorito-booking/internal/infra/readstore"
	"poorito-booking/internal/infra/receipt"
	"poorito-booking/internal/infra/uow"
	"poorito-booking/internal/pkg/config"
	"poorito-booking/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	fx.Provide(uow.NewPostgresUoW),
)

var baseOption = fx.Provide(
	fx.Annotate(
		NewSQLQueries,
		fx.As(
			fx.Self(),
			new(readstore.AvailabilityReadQueries),
			new(readstore.BookingReadQueries),
			new(readstore.UserReadQueries),
		),
	),
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Mountain
		NewMountainReadStore,
		// Availability
		fx.Annotate(
			readstore.NewAvailabilityReadStore,
			fx.As(new(queries.AvailabilityReadStore)),
		),
		// Booking
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
		// User
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
		// Receipt
		NewReceiptRenderer,
	),
)

func NewSQLQueries(_ *pgxpool.Pool) *query.Queries {
	return query.New()
}

func NewDBTX(pool *pgxpool.Pool) uow.Pool {
	return pool
}

// NewMountainReadStore puts the Redis read-through cache in front of the
// catalog when a client is configured.
func NewMountainReadStore(q *query.Queries, client *redis.Client, cfg config.Config) queries.MountainReadStore {
	store := readstore.NewMountainReadStore(q)
	if client == nil {
		return store
	}
	return cache.NewCachedMountainReadStore(store, client, cfg.Redis.CacheTTL)
}

func NewReceiptRenderer(cfg config.Config) (queries.ReceiptRenderer, error) {
	loc, err := cfg.Booking.Location()
	if err != nil {
		return nil, err
	}
	return receipt.NewPDFRenderer(loc), nil
}
