package components

import (
	"log/slog"

	"poorito-booking/internal/domain/booking"
	"poorito-booking/internal/infra/notify"
	"poorito-booking/internal/pkg/clock"
	"poorito-booking/internal/pkg/config"
	"poorito-booking/internal/usecase"
	"poorito-booking/internal/usecase/commands"
	"poorito-booking/internal/usecase/queries"
	"poorito-booking/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		booking.NewDefaultPriceCalculator,
		fx.As(new(booking.PriceCalculator)),
	),
	NewBookingValidator,
	NewNotifier,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		NewBookingCommands,
		NewJobCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewMountainQueries,
		NewAvailabilityQueries,
		queries.NewBookingQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewAuthenticator,
	),
)

func NewBookingValidator(clk clock.Clock, calc booking.PriceCalculator, cfg config.Config) (*booking.Validator, error) {
	loc, err := cfg.Booking.Location()
	if err != nil {
		return nil, err
	}
	return booking.NewValidator(clk, loc, calc), nil
}

func NewAvailabilityQueries(uow shared.UnitOfWork, store queries.AvailabilityReadStore, cfg config.Config) queries.AvailabilityQueries {
	return queries.NewAvailabilityQueries(uow, store, cfg.Booking.MaxAvailabilityDays)
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	validator *booking.Validator,
	bookingQueries queries.BookingQueries,
	clk clock.Clock,
	cfg config.Config,
) commands.BookingCommands {
	return commands.NewBookingUseCase(uow, validator, bookingQueries, clk, cfg.Booking.IdempotencyTTL)
}

// NewNotifier publishes to Redis when a client is configured and logs otherwise.
func NewNotifier(client *redis.Client, logger *slog.Logger) commands.Notifier {
	if client == nil {
		return notify.NewLogNotifier(logger)
	}
	return notify.NewRedisNotifier(client)
}

func NewJobCommands(uow shared.UnitOfWork, notifier commands.Notifier, clk clock.Clock, cfg config.Config) commands.JobCommands {
	return commands.NewJobCommands(uow, notifier, clk, commands.JobSettings{
		BatchSize:   cfg.Worker.NotifyBatchSize,
		MaxAttempts: cfg.Worker.NotifyMaxAttempts,
		RetryBase:   cfg.Worker.NotifyRetryBase,
	})
}
